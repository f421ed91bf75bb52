// Package otp реализует выдачу и проверку одноразовых кодов,
// подтверждающих владение адресом почты перед чувствительным действием.
// Код живёт в Redis ограниченное время, хранится только его bcrypt-хеш
// и используется ровно один раз.
package otp

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/magabrotheeeer/chirp-backend/internal/lib/password"
	"github.com/magabrotheeeer/chirp-backend/internal/lib/sl"
)

// Cache описывает методы эфемерного хранилища кодов.
type Cache interface {
	// Get пытается получить значение по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение по ключу.
	Invalidate(key string) error
}

// Sender описывает доставку кода на почту.
type Sender interface {
	SendOTPCode(email, code string) error
}

// OTPService выдаёт и проверяет одноразовые коды.
type OTPService struct {
	cache   Cache
	sender  Sender
	codeTTL time.Duration
	log     *slog.Logger
}

// New создает новый экземпляр OTPService.
func New(cache Cache, sender Sender, codeTTL time.Duration, log *slog.Logger) *OTPService {
	return &OTPService{
		cache:   cache,
		sender:  sender,
		codeTTL: codeTTL,
		log:     log,
	}
}

// Issue генерирует шестизначный код, отправляет его на почту и сохраняет
// bcrypt-хеш кода с TTL, перезаписывая прежний код для этого адреса.
// Ошибка доставки возвращается вызывающему, код при этом не сохраняется:
// недоставленный код не должен оставаться действительным.
func (s *OTPService) Issue(email string) error {
	const op = "services.otp.Issue"

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sender.SendOTPCode(email, code); err != nil {
		return fmt.Errorf("%s: failed to send otp: %w", op, err)
	}

	hash, err := password.GetHash(code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(otpKey(email), hash, s.codeTTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("otp issued", slog.String("email", email))
	return nil
}

// Verify сверяет код с сохранённым. Совпадение удаляет запись (код одноразовый)
// и возвращает true; несовпадение или отсутствие кода возвращает false,
// сохранённый код при несовпадении остаётся действительным.
func (s *OTPService) Verify(email, code string) (bool, error) {
	const op = "services.otp.Verify"

	var hash string
	found, err := s.cache.Get(otpKey(email), &hash)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return false, nil
	}

	if err := password.CompareHash(hash, code); err != nil {
		return false, nil
	}

	if err := s.cache.Invalidate(otpKey(email)); err != nil {
		s.log.Warn("failed to invalidate otp", slog.String("email", email), sl.Err(err))
	}
	return true, nil
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:%s", email)
}

// generateCode возвращает случайный шестизначный код.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
