package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TokenSource はガードがセッショントークンの有無を確認するための読み取り口。
// *session.Session がこのインターフェースを満たす。
type TokenSource interface {
	Token(ctx context.Context) (token string, ok bool, err error)
}

// Reason はナビゲーションの判定理由。
type Reason int

const (
	// ReasonNone は要求されたルートへそのまま遷移することを表す。
	ReasonNone Reason = iota
	// ReasonRedirect はリダイレクト専用ルートによって転送されたことを表す。
	ReasonRedirect
	// ReasonAuthRequired は認証が必要なためloginへ転送されたことを表す。
	ReasonAuthRequired
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonRedirect:
		return "redirect"
	case ReasonAuthRequired:
		return "auth_required"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Decision はガードの判定結果。
type Decision struct {
	// Requested は要求されたパス。
	Requested string
	// Route は最終的に表示するルート。
	Route Route
	// Params は最終ルートのパスパラメータ。
	Params map[string]string
	// Path は最終ルートの具体的なパス。
	Path string
	// Reason は判定理由。
	Reason Reason
}

// Redirected は要求と異なるルートへ転送されたかどうかを返す。
func (d Decision) Redirected() bool {
	return d.Reason != ReasonNone
}

// Guard はナビゲーション前にアクセス可否を判定するフック。
type Guard struct {
	table  *Table
	login  Route
	logger *zap.Logger
}

// GuardOption はGuardの設定を変更する。
type GuardOption func(*Guard)

// WithLogger はガードが使用するロガーを指定する。
func WithLogger(logger *zap.Logger) GuardOption {
	return func(g *Guard) { g.logger = logger }
}

// NewGuard はtableを対象とするGuardを生成する。
// loginNameのルートが存在しない場合はエラーを返す。
func NewGuard(table *Table, loginName string, opts ...GuardOption) (*Guard, error) {
	login, ok := table.Lookup(loginName)
	if !ok {
		return nil, fmt.Errorf("%w: name=%s", ErrNotFound, loginName)
	}
	g := &Guard{table: table, login: login, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Table はガードが参照するルート表を返す。
func (g *Guard) Table() *Table {
	return g.table
}

// Login は未認証時の転送先ルートを返す。
func (g *Guard) Login() Route {
	return g.login
}

// Check はmatchへの遷移可否を判定する。
// 認証が必要なルートでトークンが無い場合はloginへの転送を返し、それ以外はmatchをそのまま返す。
// トークンの取得に失敗した場合はトークン無しとして扱う。
func (g *Guard) Check(ctx context.Context, m Match, tokens TokenSource) Decision {
	d := Decision{
		Requested: m.Path,
		Route:     m.Route,
		Params:    m.Params,
		Path:      m.Path,
		Reason:    ReasonNone,
	}
	if !m.Route.RequiresAuth || g.hasToken(ctx, tokens) {
		return d
	}

	d.Route = g.login
	d.Params = map[string]string{}
	d.Path = g.login.Path
	d.Reason = ReasonAuthRequired
	return d
}

// Navigate はpathを解決してから遷移可否を判定する。
// ルート表に一致しないパスはErrNotFoundを返す。
func (g *Guard) Navigate(ctx context.Context, path string, tokens TokenSource) (Decision, error) {
	direct, err := g.table.Match(path)
	if err != nil {
		return Decision{}, err
	}
	m, err := g.table.Resolve(path)
	if err != nil {
		return Decision{}, err
	}

	d := g.Check(ctx, m, tokens)
	d.Requested = direct.Path
	if direct.Route.IsRedirect() && d.Reason == ReasonNone {
		d.Reason = ReasonRedirect
	}
	return d, nil
}

func (g *Guard) hasToken(ctx context.Context, tokens TokenSource) bool {
	if tokens == nil {
		return false
	}
	_, ok, err := tokens.Token(ctx)
	if err != nil {
		g.logger.Warn("セッショントークンの取得に失敗したため未認証として扱います", zap.Error(err))
		return false
	}
	return ok
}
