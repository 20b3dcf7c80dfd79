package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// testCookieSecret はテスト用のCookie署名鍵。
var testCookieSecret = []byte("test-secret-key-32-bytes-long!!!")

// carryCookies はレスポンスのSet-Cookieを次のリクエストに引き継ぐ。
func carryCookies(from *httptest.ResponseRecorder, to *http.Request) {
	for _, c := range from.Result().Cookies() {
		to.AddCookie(c)
	}
}

// TestCookieStorage はCookieStorageを検証する。
func TestCookieStorage(t *testing.T) {
	t.Parallel()

	t.Run("保存した値が次のリクエストのCookieから読み取れること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := NewCookieStore(testCookieSecret, false)

		w1 := httptest.NewRecorder()
		r1 := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := New(NewCookieStorage(store, "smartmeal", w1, r1)).SetToken(ctx, "abc123"); err != nil {
			t.Fatalf("SetToken()でエラーが発生: %v", err)
		}
		if len(w1.Result().Cookies()) == 0 {
			t.Fatal("Set-Cookieが付与されていない")
		}

		r2 := httptest.NewRequest(http.MethodGet, "/profile", nil)
		carryCookies(w1, r2)
		got, ok, err := New(NewCookieStorage(store, "smartmeal", httptest.NewRecorder(), r2)).Token(ctx)
		if err != nil {
			t.Fatalf("Token()でエラーが発生: %v", err)
		}
		if !ok || got != "abc123" {
			t.Errorf("Token() = (%q, %v), want (%q, true)", got, ok, "abc123")
		}
	})

	t.Run("Cookieが無い場合は未保存になること", func(t *testing.T) {
		t.Parallel()

		store := NewCookieStore(testCookieSecret, false)
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok, err := NewCookieStorage(store, "smartmeal", httptest.NewRecorder(), r).GetItem(context.Background(), TokenKey)
		if err != nil {
			t.Fatalf("GetItem()でエラーが発生: %v", err)
		}
		if ok {
			t.Error("Cookieが無いのにokがtrue")
		}
	})

	t.Run("異なる鍵で署名されたCookieはエラーになること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		w1 := httptest.NewRecorder()
		r1 := httptest.NewRequest(http.MethodGet, "/", nil)
		other := NewCookieStore([]byte("another-secret-key-32-bytes-long"), false)
		_ = NewCookieStorage(other, "smartmeal", w1, r1).SetItem(ctx, TokenKey, "forged")

		r2 := httptest.NewRequest(http.MethodGet, "/", nil)
		carryCookies(w1, r2)
		store := NewCookieStore(testCookieSecret, false)
		if _, _, err := NewCookieStorage(store, "smartmeal", httptest.NewRecorder(), r2).GetItem(ctx, TokenKey); err == nil {
			t.Error("GetItem()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("RemoveItemで値が削除されること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := NewCookieStore(testCookieSecret, false)

		w1 := httptest.NewRecorder()
		r1 := httptest.NewRequest(http.MethodGet, "/", nil)
		_ = NewCookieStorage(store, "smartmeal", w1, r1).SetItem(ctx, TokenKey, "abc123")

		w2 := httptest.NewRecorder()
		r2 := httptest.NewRequest(http.MethodGet, "/", nil)
		carryCookies(w1, r2)
		if err := NewCookieStorage(store, "smartmeal", w2, r2).RemoveItem(ctx, TokenKey); err != nil {
			t.Fatalf("RemoveItem()でエラーが発生: %v", err)
		}

		r3 := httptest.NewRequest(http.MethodGet, "/", nil)
		carryCookies(w2, r3)
		if _, ok, _ := NewCookieStorage(store, "smartmeal", httptest.NewRecorder(), r3).GetItem(ctx, TokenKey); ok {
			t.Error("RemoveItem()後も値が残っている")
		}
	})
}

// TestCookieResolver はCookieResolverを検証する。
func TestCookieResolver(t *testing.T) {
	t.Parallel()

	resolver := CookieResolver{Store: NewCookieStore(testCookieSecret, false), Name: "smartmeal"}
	storage, err := resolver.Resolve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("Resolve()でエラーが発生: %v", err)
	}
	if _, ok := storage.(*CookieStorage); !ok {
		t.Errorf("Resolve()の型 = %T, want *CookieStorage", storage)
	}
}
