package session

import (
	"context"
	"errors"
	"testing"
)

// failingStorage は常にエラーを返すStorage。
type failingStorage struct{}

var errStorage = errors.New("storage unavailable")

func (failingStorage) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errStorage
}
func (failingStorage) SetItem(context.Context, string, string) error { return errStorage }
func (failingStorage) RemoveItem(context.Context, string) error { return errStorage }

// TestSession はSessionのトークン操作を検証する。
func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("保存したトークンが固定キーtokenで読み取れること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := NewMemoryStorage()
		s := New(storage)

		if err := s.SetToken(ctx, "abc123"); err != nil {
			t.Fatalf("SetToken()でエラーが発生: %v", err)
		}

		got, ok, err := s.Token(ctx)
		if err != nil {
			t.Fatalf("Token()でエラーが発生: %v", err)
		}
		if !ok || got != "abc123" {
			t.Errorf("Token() = (%q, %v), want (%q, true)", got, ok, "abc123")
		}

		raw, ok, _ := storage.GetItem(ctx, "token")
		if !ok || raw != "abc123" {
			t.Errorf("storage[token] = (%q, %v), want (%q, true)", raw, ok, "abc123")
		}
	})

	t.Run("未保存の場合はokがfalseになること", func(t *testing.T) {
		t.Parallel()

		_, ok, err := New(NewMemoryStorage()).Token(context.Background())
		if err != nil {
			t.Fatalf("Token()でエラーが発生: %v", err)
		}
		if ok {
			t.Error("トークン未保存なのにokがtrue")
		}
	})

	t.Run("空文字列のトークンは未保存として扱われること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := NewMemoryStorage()
		_ = storage.SetItem(ctx, TokenKey, "")

		if _, ok, _ := New(storage).Token(ctx); ok {
			t.Error("空文字列のトークンでokがtrue")
		}
	})

	t.Run("Clearでトークンが削除されること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := New(NewMemoryStorage())
		_ = s.SetToken(ctx, "abc123")

		if err := s.Clear(ctx); err != nil {
			t.Fatalf("Clear()でエラーが発生: %v", err)
		}
		if _, ok, _ := s.Token(ctx); ok {
			t.Error("Clear()後もトークンが残っている")
		}
	})

	t.Run("ストレージのエラーがラップされて返ること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := New(failingStorage{})

		if _, _, err := s.Token(ctx); !errors.Is(err, errStorage) {
			t.Errorf("Token() error = %v, want %v", err, errStorage)
		}
		if err := s.SetToken(ctx, "x"); !errors.Is(err, errStorage) {
			t.Errorf("SetToken() error = %v, want %v", err, errStorage)
		}
		if err := s.Clear(ctx); !errors.Is(err, errStorage) {
			t.Errorf("Clear() error = %v, want %v", err, errStorage)
		}
	})
}
