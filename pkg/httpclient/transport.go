package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// TokenSource はリクエスト送信時にセッショントークンを提供する。
// *session.Session がこのインターフェースを満たす。
type TokenSource interface {
	Token(ctx context.Context) (token string, ok bool, err error)
}

// contextKey はコンテキストキーの型。
type contextKey string

// contextKeyTokenSource はリクエスト単位のTokenSourceを格納するためのキー。
const contextKeyTokenSource contextKey = "token_source"

// WithTokenSource はリクエスト単位で使用するTokenSourceをコンテキストに設定する。
// 設定された場合、Clientの既定のTokenSourceより優先される。
func WithTokenSource(ctx context.Context, src TokenSource) context.Context {
	return context.WithValue(ctx, contextKeyTokenSource, src)
}

// bearerTransport は送信前にBearerトークンを付与するRoundTripper。
type bearerTransport struct {
	// base は実際の送信を行うRoundTripper。
	base http.RoundTripper
	// tokens は既定のトークン取得元。nilの場合はトークンを付与しない。
	tokens TokenSource
}

// NewTransport はbaseの前段でトークンを付与するRoundTripperを返す。
// baseがnilの場合はhttp.DefaultTransportを使用する。
func NewTransport(base http.RoundTripper, tokens TokenSource) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &bearerTransport{base: base, tokens: tokens}
}

// RoundTrip はトークンがあればAuthorizationヘッダーを設定してリクエストを送信する。
// 元のリクエストは変更しない。
func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	src := t.tokens
	if s, ok := req.Context().Value(contextKeyTokenSource).(TokenSource); ok && s != nil {
		src = s
	}
	if src == nil {
		return t.base.RoundTrip(req)
	}

	token, ok, err := src.Token(req.Context())
	if err != nil {
		closeBody(req)
		return nil, fmt.Errorf("セッショントークンの取得に失敗: %w", err)
	}
	if !ok || !sameHost(req) {
		return t.base.RoundTrip(req)
	}

	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(authed)
}

// sameHost はリダイレクトで生成されたリクエストが最初のリクエストと同じホスト宛てかどうかを返す。
// 別ホストへのリダイレクトにはトークンを付与しない。
func sameHost(req *http.Request) bool {
	first := req
	for first.Response != nil && first.Response.Request != nil {
		first = first.Response.Request
	}
	return strings.EqualFold(first.URL.Host, req.URL.Host)
}

// closeBody はRoundTripperの規約に従い、送信しなかったリクエストのボディを閉じる。
func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
