package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims は保存されたトークンから読み取った表示用の情報。
type Claims struct {
	// Subject はsubクレーム。
	Subject string
	// Issuer はissクレーム。
	Issuer string
	// ExpiresAt はexpクレーム。未設定の場合はnil。
	ExpiresAt *time.Time
}

// Expired はnow時点でトークンが期限切れかどうかを返す。
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// Inspect はトークンをJWTとして署名検証なしで解析する。
// 表示専用であり、認可の判断には使用しない。
func Inspect(token string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("JWTとして解析できません: %w", err)
	}

	out := &Claims{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, nil
}
