package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signTestToken はテスト用のJWTを生成する。
func signTestToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("トークンの署名に失敗: %v", err)
	}
	return token
}

// TestInspect はInspect関数を検証する。
func TestInspect(t *testing.T) {
	t.Parallel()

	t.Run("署名鍵なしでクレームを読み取れること", func(t *testing.T) {
		t.Parallel()

		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token := signTestToken(t, jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "smartmeal-api",
			ExpiresAt: jwt.NewNumericDate(exp),
		})

		claims, err := Inspect(token)
		if err != nil {
			t.Fatalf("Inspect()でエラーが発生: %v", err)
		}
		if claims.Subject != "user-1" {
			t.Errorf("Subject = %q, want %q", claims.Subject, "user-1")
		}
		if claims.Issuer != "smartmeal-api" {
			t.Errorf("Issuer = %q, want %q", claims.Issuer, "smartmeal-api")
		}
		if claims.ExpiresAt == nil || !claims.ExpiresAt.Equal(exp) {
			t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
		}
		if claims.Expired(time.Now()) {
			t.Error("有効期限前なのにExpired()がtrue")
		}
	})

	t.Run("期限切れトークンも解析でき、Expiredがtrueになること", func(t *testing.T) {
		t.Parallel()

		token := signTestToken(t, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})

		claims, err := Inspect(token)
		if err != nil {
			t.Fatalf("Inspect()でエラーが発生: %v", err)
		}
		if !claims.Expired(time.Now()) {
			t.Error("期限切れなのにExpired()がfalse")
		}
	})

	t.Run("expが無い場合は期限切れにならないこと", func(t *testing.T) {
		t.Parallel()

		claims, err := Inspect(signTestToken(t, jwt.RegisteredClaims{Subject: "no-exp"}))
		if err != nil {
			t.Fatalf("Inspect()でエラーが発生: %v", err)
		}
		if claims.ExpiresAt != nil || claims.Expired(time.Now()) {
			t.Errorf("ExpiresAt = %v, want nil", claims.ExpiresAt)
		}
	})

	t.Run("JWTでない文字列はエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := Inspect("abc123"); err == nil {
			t.Fatal("Inspect()がエラーを返すべきだが、nilが返った")
		}
	})
}
