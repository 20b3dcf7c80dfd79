package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// cookieMaxAgeDays はセッションCookieの有効日数。
const cookieMaxAgeDays = 7

// NewCookieStore は署名付きCookieを保存先とするgorillaのセッションストアを生成する。
// secureがtrueの場合、CookieはHTTPS接続でのみ送信される。
func NewCookieStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * cookieMaxAgeDays,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CookieStorage は1リクエスト分のセッションCookieを読み書きするStorage。
// 書き込み時はレスポンスにSet-Cookieを付与する。
type CookieStorage struct {
	store sessions.Store
	name  string
	w     http.ResponseWriter
	r     *http.Request
}

var _ Storage = (*CookieStorage)(nil)

// NewCookieStorage はリクエストrのセッションnameを対象とするCookieStorageを生成する。
func NewCookieStorage(store sessions.Store, name string, w http.ResponseWriter, r *http.Request) *CookieStorage {
	return &CookieStorage{store: store, name: name, w: w, r: r}
}

// session はリクエストに紐づくgorillaのセッションを取得する。
// Cookieの復号に失敗した場合はエラーを返す。
func (c *CookieStorage) session() (*sessions.Session, error) {
	sess, err := c.store.Get(c.r, c.name)
	if err != nil {
		return nil, fmt.Errorf("セッションCookieの読み取りに失敗: %w", err)
	}
	return sess, nil
}

// GetItem はCookieに保存された値を返す。文字列以外の値は未保存として扱う。
func (c *CookieStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	sess, err := c.session()
	if err != nil {
		return "", false, err
	}
	v, ok := sess.Values[key].(string)
	return v, ok, nil
}

// SetItem は値をCookieに保存する。
func (c *CookieStorage) SetItem(_ context.Context, key, value string) error {
	sess, err := c.session()
	if err != nil {
		// 壊れたCookieは新しいセッションで上書きする
		sess, _ = c.store.New(c.r, c.name)
	}
	sess.Values[key] = value
	if err := sess.Save(c.r, c.w); err != nil {
		return fmt.Errorf("セッションCookieの保存に失敗: %w", err)
	}
	return nil
}

// RemoveItem は値をCookieから削除する。
func (c *CookieStorage) RemoveItem(_ context.Context, key string) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	delete(sess.Values, key)
	if err := sess.Save(c.r, c.w); err != nil {
		return fmt.Errorf("セッションCookieの保存に失敗: %w", err)
	}
	return nil
}

// CookieResolver は訪問者ごとのCookieStorageを解決する。
type CookieResolver struct {
	// Store はgorillaのセッションストア。
	Store sessions.Store
	// Name はセッションCookie名。
	Name string
}

// Resolve はリクエストrに対するCookieStorageを返す。
func (cr CookieResolver) Resolve(w http.ResponseWriter, r *http.Request) (Storage, error) {
	return NewCookieStorage(cr.Store, cr.Name, w, r), nil
}
