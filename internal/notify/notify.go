package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"go.uber.org/zap"

	"LabKeeper/internal/config"
)

// Event — сведения об одном переключении замка для уведомления.
type Event struct {
	Action       string // model.ActionLocked либо model.ActionUnlocked
	ItemName     string
	CupboardName string
	NTID         string
	At           time.Time
}

// Notifier отправляет уведомление о событии и возвращает признак доставки.
// Ошибки транспорта наружу не выходят: недоставленное письмо не должно
// ломать само переключение.
type Notifier interface {
	Notify(ctx context.Context, e Event) bool
}

// Disabled — нотификатор-заглушка, когда SMTP не настроен.
type Disabled struct{}

func (Disabled) Notify(context.Context, Event) bool { return false }

// EmailNotifier шлёт письма по SMTP через shoutrrr. Получатели собираются
// на каждое событие заново: к постоянным адресам админа и менеджера
// добавляется адрес пользователя, выведенный из его NT ID.
type EmailNotifier struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
}

// NewNotifier возвращает почтовый нотификатор либо заглушку,
// если SMTP-сервер не задан.
func NewNotifier(cfg *config.Config, logger *zap.SugaredLogger) Notifier {
	if cfg.SMTPServer == "" {
		logger.Infow("email notifications disabled: SMTP server not configured")
		return Disabled{}
	}
	return &EmailNotifier{cfg: cfg, logger: logger}
}

func (n *EmailNotifier) Notify(ctx context.Context, e Event) bool {
	sender, err := shoutrrr.CreateSender(n.serviceURL(e))
	if err != nil {
		n.logger.Errorw("notify: invalid SMTP configuration", "error", err)
		return false
	}
	if n.cfg.NotifyTimeout > 0 {
		sender.Timeout = n.cfg.NotifyTimeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	_ = ctx // роутер отправки ограничивает время сам

	subject, body := renderEmail(e, n.cfg.SMTPHTML)
	params := stypes.Params{}
	params.SetTitle(subject)
	for _, err := range sender.Send(body, &params) {
		if err != nil {
			n.logger.Warnw("notify: email send failed",
				"subject", subject,
				"error", err,
			)
			return false
		}
	}
	n.logger.Infow("notify: email sent", "subject", subject, "nt_id", e.NTID)
	return true
}

// serviceURL собирает smtp:// URL отправки для конкретного события.
func (n *EmailNotifier) serviceURL(e Event) string {
	recipients := make([]string, 0, 3)
	for _, addr := range []string{n.cfg.AdminEmail, n.cfg.ManagerEmail} {
		if addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if e.NTID != "" && n.cfg.EmailDomain != "" {
		recipients = append(recipients, strings.ToLower(e.NTID)+n.cfg.EmailDomain)
	}

	q := url.Values{}
	q.Set("from", n.cfg.SenderEmail)
	q.Set("to", strings.Join(recipients, ","))
	if n.cfg.SMTPHTML {
		q.Set("usehtml", "yes")
	}
	if n.cfg.SMTPUseTLS {
		q.Set("usestarttls", "yes")
	} else {
		q.Set("usestarttls", "no")
	}
	if n.cfg.SMTPUsername != "" {
		q.Set("auth", "Plain")
	} else {
		q.Set("auth", "None")
	}

	u := url.URL{
		Scheme:   "smtp",
		Host:     fmt.Sprintf("%s:%d", n.cfg.SMTPServer, n.cfg.SMTPPort),
		RawQuery: q.Encode(),
	}
	if n.cfg.SMTPUsername != "" {
		u.User = url.UserPassword(n.cfg.SMTPUsername, n.cfg.SMTPPassword)
	}
	return u.String()
}
