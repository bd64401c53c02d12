package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"LabKeeper/internal/model"
)

// Ошибки аутентификации.
var (
	ErrEmptyNTID        = errors.New("empty nt id")
	ErrBadAdminPassword = errors.New("invalid admin password")
	ErrTooManyAttempts  = errors.New("too many failed attempts")
)

const (
	maxAdminAttempts = 5
	attemptWindow    = 15 * time.Minute
)

// AuthService проверяет учётные данные при входе. Постоянного хранилища
// пользователей нет: любой непустой NT ID входит с ролью user, роль admin
// требует пароль администратора.
type AuthService struct {
	adminHash []byte
	attempts  *cache.Cache // счётчики неудачных admin-попыток по NT ID
}

// NewAuthService хеширует пароль администратора один раз при старте,
// чтобы в памяти процесса не жил открытый пароль.
func NewAuthService(adminPassword string) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AuthService{
		adminHash: hash,
		attempts:  cache.New(attemptWindow, 2*attemptWindow),
	}, nil
}

// Login нормализует NT ID и проверяет учётные данные. После пяти неудачных
// admin-попыток подряд вход для этого NT ID блокируется до истечения окна.
// Возвращает нормализованный NT ID и роль.
func (s *AuthService) Login(ntID, password string, asAdmin bool) (string, string, error) {
	ntID = strings.ToUpper(strings.TrimSpace(ntID))
	if ntID == "" {
		return "", "", ErrEmptyNTID
	}
	if !asAdmin {
		return ntID, model.RoleUser, nil
	}

	if n, ok := s.attempts.Get(ntID); ok && n.(int) >= maxAdminAttempts {
		return "", "", ErrTooManyAttempts
	}
	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)); err != nil {
		if _, ierr := s.attempts.IncrementInt(ntID, 1); ierr != nil {
			s.attempts.Set(ntID, 1, cache.DefaultExpiration)
		}
		return "", "", ErrBadAdminPassword
	}

	s.attempts.Delete(ntID)
	return ntID, model.RoleAdmin, nil
}
