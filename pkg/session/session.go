package session

import (
	"context"
	"fmt"
)

// TokenKey はセッショントークンを保存するストレージキー。
const TokenKey = "token"

// Session はStorage上のセッショントークンを読み書きする。
// トークンの内容や有効期限は解釈しない。
type Session struct {
	// storage はトークンの保存先。
	storage Storage
}

// New はstorageを保存先とするSessionを生成する。
func New(storage Storage) *Session {
	return &Session{storage: storage}
}

// Token は保存されているトークンを返す。
// 未保存または空文字列の場合、okはfalseになる。
func (s *Session) Token(ctx context.Context) (string, bool, error) {
	token, ok, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil {
		return "", false, fmt.Errorf("トークンの読み取りに失敗: %w", err)
	}
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// SetToken はログインフローが取得したトークンを保存する。
func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.storage.SetItem(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("トークンの保存に失敗: %w", err)
	}
	return nil
}

// Clear はログアウト時にトークンを削除する。
func (s *Session) Clear(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, TokenKey); err != nil {
		return fmt.Errorf("トークンの削除に失敗: %w", err)
	}
	return nil
}
