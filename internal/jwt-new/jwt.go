package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewToken выпускает токен для чат-шлюза: sub - chat id, от имени которого шлюз шлёт действия.
func NewToken(chatID int64, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("gateway secret is empty")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(chatID, 10),
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
