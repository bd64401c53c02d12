package auth

import (
	"errors"
	"os"
	"path/filepath"
)

// lastLoginPath returns the full path to the file storing the last successful NT ID.
func lastLoginPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "LabKeeper")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(p, "last_login"), nil
}

// SaveLastLogin stores the provided NT ID as the current user context for the CLI.
func SaveLastLogin(ntID string) error {
	if ntID == "" {
		return errors.New("empty nt id")
	}
	p, err := lastLoginPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(ntID), 0o600)
}

// LoadLastLogin returns last stored NT ID.
func LoadLastLogin() (string, error) {
	p, err := lastLoginPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errors.New("no stored login")
	}
	// Trim simple trailing whitespace
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r' || b[len(b)-1] == ' ') {
		b = b[:len(b)-1]
	}
	return string(b), nil
}

// ClearLastLogin drops the stored user context. A missing file is not an error.
func ClearLastLogin() error {
	p, err := lastLoginPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
