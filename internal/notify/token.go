package notify

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs Centrifugo connection and channel subscription tokens (HS256).
type TokenIssuer struct {
	secret []byte
	expire time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, expire time.Duration) *TokenIssuer {
	if expire <= 0 {
		expire = 30 * time.Minute
	}
	return &TokenIssuer{secret: []byte(secret), expire: expire, now: time.Now}
}

// SubscriptionClaims 订阅令牌声明
type SubscriptionClaims struct {
	Channel string `json:"channel"`
	jwt.RegisteredClaims
}

func (t *TokenIssuer) ConnectionToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(t.now().Add(t.expire)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) SubscriptionToken(userID, channel string) (string, error) {
	claims := SubscriptionClaims{
		Channel: channel,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(t.now().Add(t.expire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}
