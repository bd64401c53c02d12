package config

import (
	"flag"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	RunAddr       string `env:"RUN_ADDRESS"`
	AuthSecret    string `env:"AUTH_SECRET"`
	DataFile      string `env:"DATA_FILE"`
	HistoryDSN    string `env:"HISTORY_DSN"`
	AdminNTID     string `env:"ADMIN_NT_ID"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// Email notifications (env only, флагов нет)
	SMTPServer    string        `env:"SMTP_SERVER"`
	SMTPPort      int           `env:"SMTP_PORT"`
	SMTPUseTLS    bool          `env:"SMTP_USE_TLS"`
	SMTPUsername  string        `env:"SMTP_USERNAME"`
	SMTPPassword  string        `env:"SMTP_PASSWORD"`
	SMTPHTML      bool          `env:"SMTP_HTML" envDefault:"true"`
	SenderEmail   string        `env:"SENDER_EMAIL"`
	AdminEmail    string        `env:"ADMIN_EMAIL"`
	ManagerEmail  string        `env:"MANAGER_EMAIL"`
	EmailDomain   string        `env:"EMAIL_DOMAIN"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT"`

	// Shared settings
	EnableHTTPS bool `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "адрес сервера host:port")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.DataFile, "data-file", cfg.DataFile, "путь к JSON-файлу инвентаря")
	flag.StringVar(&cfg.HistoryDSN, "history-dsn", cfg.HistoryDSN, "строка подключения к БД журнала (файл SQLite или postgres://)")
	// Shared/client flags
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for server URL)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "lab-inventory-secret-key"
	}
	if cfg.DataFile == "" {
		cfg.DataFile = filepath.Join("data", "inventory.json")
	}
	if cfg.HistoryDSN == "" {
		cfg.HistoryDSN = filepath.Join("data", "history.db")
	}
	if cfg.AdminNTID == "" {
		cfg.AdminNTID = "ADMIN"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "Admin@123"
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 25
	}
	if cfg.SenderEmail == "" {
		cfg.SenderEmail = "lab-inventory-noreply@localhost"
	}
	if cfg.EmailDomain == "" {
		cfg.EmailDomain = "@example.com"
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	// validate RunAddr: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.RunAddr) {
		cfg.RunAddr = "localhost:8080"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.RunAddr
	} else {
		cfg.ServerURL = "http://" + cfg.RunAddr
	}

	return cfg
}
