package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// resolvePrefix はRedisResolverでリクエストを解決し、名前空間の接頭辞を返す。
func resolvePrefix(t *testing.T, rr RedisResolver, w http.ResponseWriter, r *http.Request) string {
	t.Helper()

	storage, err := rr.Resolve(w, r)
	if err != nil {
		t.Fatalf("Resolve()でエラーが発生: %v", err)
	}
	rs, ok := storage.(*RedisStorage)
	if !ok {
		t.Fatalf("Resolve()の戻り値 = %T, want *RedisStorage", storage)
	}
	return rs.prefix
}

// TestRedisResolverCookie はRedisResolverのセッションID管理を検証する。
// Redisへの接続は行わない。
func TestRedisResolverCookie(t *testing.T) {
	t.Parallel()

	rr := RedisResolver{
		Cookies: NewCookieStore(testCookieSecret, false),
		Name:    "smartmeal",
		Prefix:  "smartmeal:session:",
	}

	t.Run("同じCookieからは同じ名前空間が解決されること", func(t *testing.T) {
		t.Parallel()

		w1 := httptest.NewRecorder()
		first := resolvePrefix(t, rr, w1, httptest.NewRequest(http.MethodGet, "/", nil))
		if !strings.HasPrefix(first, "smartmeal:session:") {
			t.Errorf("prefix = %q", first)
		}

		r2 := httptest.NewRequest(http.MethodGet, "/profile", nil)
		carryCookies(w1, r2)
		w2 := httptest.NewRecorder()
		if got := resolvePrefix(t, rr, w2, r2); got != first {
			t.Errorf("prefix = %q, want %q", got, first)
		}
		if len(w2.Result().Cookies()) != 0 {
			t.Error("既存のセッションIDがあるのにSet-Cookieが付与された")
		}
	})

	t.Run("別の鍵で署名されたCookieは新しいセッションIDで置き換えられること", func(t *testing.T) {
		t.Parallel()

		// 鍵のローテーション前に発行されたCookie
		old := NewCookieStore([]byte("rotated-secret-key-32-bytes-long"), false)
		wOld := httptest.NewRecorder()
		rOld := httptest.NewRequest(http.MethodGet, "/", nil)
		sess, err := old.Get(rOld, "smartmeal")
		if err != nil {
			t.Fatalf("Get()でエラーが発生: %v", err)
		}
		sess.Values[sessionIDKey] = "stale-sid"
		if err := sess.Save(rOld, wOld); err != nil {
			t.Fatalf("Save()でエラーが発生: %v", err)
		}

		r1 := httptest.NewRequest(http.MethodPut, "/session/token", nil)
		carryCookies(wOld, r1)
		w1 := httptest.NewRecorder()
		first := resolvePrefix(t, rr, w1, r1)
		if strings.Contains(first, "stale-sid") {
			t.Errorf("prefix = %q, 古いセッションIDが使われている", first)
		}
		if len(w1.Result().Cookies()) == 0 {
			t.Fatal("Set-Cookieが付与されていない")
		}

		r2 := httptest.NewRequest(http.MethodGet, "/profile", nil)
		carryCookies(w1, r2)
		if got := resolvePrefix(t, rr, httptest.NewRecorder(), r2); got != first {
			t.Errorf("prefix = %q, want %q", got, first)
		}
	})
}
