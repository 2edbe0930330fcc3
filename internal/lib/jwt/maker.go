// Package jwt реализует выпуск и проверку JWT токенов сессии.
//
// Maker описывает интерфейс для генерации и разбора токенов,
// MakerImpl — реализация на секретном ключе с HS256 подписью.
// Токен считается валидным только если сходится подпись, совпадают
// issuer и audience, и срок действия ещё не истёк.
package jwt

import "time"

// Maker описывает интерфейс для выпуска и проверки токенов сессии.
type Maker interface {
	// IssueToken выпускает токен для пользователя с указанным uid.
	IssueToken(username, userUID string) (string, error)
	// ParseToken проверяет токен и возвращает его claims.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует Maker с использованием симметричного секретного ключа,
// фиксированных issuer/audience и времени жизни токена.
type MakerImpl struct {
	secretKey string
	issuer    string
	audience  string
	tokenTTL  time.Duration
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(secretKey, issuer, audience string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		issuer:    issuer,
		audience:  audience,
		tokenTTL:  ttl,
	}
}
