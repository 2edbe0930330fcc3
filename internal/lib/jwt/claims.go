package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims описывает полезную нагрузку токена сессии.
// Subject стандартных claims дублирует имя пользователя,
// UserUID — уникальный идентификатор пользователя в хранилище.
type Claims struct {
	Username string `json:"username"`
	UserUID  string `json:"uid"`
	jwt.RegisteredClaims
}

// IssueToken выпускает подписанный токен с subject = username и claim uid.
// Срок действия — tokenTTL от момента выпуска.
func (m *MakerImpl) IssueToken(username, userUID string) (string, error) {
	const op = "jwt.IssueToken"
	now := time.Now()
	claims := Claims{
		Username: username,
		UserUID:  userUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken разбирает токен, проверяет подпись, issuer, audience и срок
// действия, и возвращает Claims, если токен корректен.
func (m *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(_ *jwt.Token) (any, error) {
			return []byte(m.secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
