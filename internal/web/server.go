package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/smartmeal/internal/router"
	"github.com/nao1215/smartmeal/pkg/httpclient"
	"github.com/nao1215/smartmeal/pkg/middleware"
	"github.com/nao1215/smartmeal/pkg/session"
	"go.uber.org/zap"
)

// contextKeyDecision はガードの判定結果をGinコンテキストに保存するキー。
const contextKeyDecision = "navigation_decision"

// defaultShutdownTimeout はShutdownTimeout未指定時の待ち時間。
const defaultShutdownTimeout = 10 * time.Second

// forwardHeaders はAPIプロキシで転送するリクエストヘッダー。
var forwardHeaders = []string{"Accept", "Content-Type", middleware.HeaderRequestID}

// Options は画面サーバーの設定。
type Options struct {
	// Addr はサーバーの待ち受けアドレス。
	Addr string
	// ReadTimeout はリクエスト読み込みのタイムアウト。
	ReadTimeout time.Duration
	// ShutdownTimeout はグレースフルシャットダウンの待ち時間。
	ShutdownTimeout time.Duration
	// FrontendOrigins はCORSで許可するオリジン。
	FrontendOrigins []string
	// Renderer は画面の描画方法。nilの場合はShellRendererを使用する。
	Renderer Renderer
	// Logger はサーバーが使用するロガー。nilの場合は出力しない。
	Logger *zap.Logger
}

// Server はSmartMealの画面サーバー。
type Server struct {
	// engine はGinのHTTPルーター。
	engine *gin.Engine
	// guard はナビゲーション前のアクセス判定を行う。
	guard *router.Guard
	// sessions は閲覧者ごとのセッションストレージを解決する。
	sessions session.Resolver
	// api はバックエンドAPIへの転送に使用するクライアント。
	api *httpclient.Client
	// renderer は画面の描画方法。
	renderer Renderer
	// logger はサーバーのロガー。
	logger *zap.Logger
	// opts はサーバー設定。
	opts Options
}

// NewServer は新しい画面サーバーを生成する。
func NewServer(guard *router.Guard, sessions session.Resolver, api *httpclient.Client, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Renderer == nil {
		opts.Renderer = ShellRenderer{Title: "SmartMeal"}
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	engine := gin.New()
	// 大文字小文字の違うパスはルート表と同じく正規のパスへ転送する
	engine.RedirectFixedPath = true
	engine.SetHTMLTemplate(newShellTemplate())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(opts.Logger))
	engine.Use(middleware.RequestLogger(opts.Logger))
	engine.Use(middleware.CORS(opts.FrontendOrigins))

	s := &Server{
		engine:   engine,
		guard:    guard,
		sessions: sessions,
		api:      api,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		opts:     opts,
	}
	s.setupRoutes()
	return s
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるとグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("画面サーバーを起動します", zap.String("addr", s.opts.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("画面サーバーの起動に失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info("画面サーバーを停止します")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("画面サーバーの停止に失敗: %w", err)
	}
	return nil
}

// setupRoutes はルート表とAPIのルーティングを設定する。
func (s *Server) setupRoutes() {
	for _, r := range s.guard.Table().Routes() {
		if r.IsRedirect() {
			s.engine.GET(r.Path, s.handleRedirect())
			continue
		}
		s.engine.GET(r.Path, s.guardRoute(r), s.handlePage())
	}

	// ログイン・ログアウトフローがセッションへトークンを書き込む
	s.engine.PUT("/session/token", s.handleSetToken())
	s.engine.DELETE("/session/token", s.handleClearToken())

	s.engine.Any("/api/*path", s.handleProxy())

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "web"})
	})
}

// tokens は閲覧者のセッションを返す。ストレージを解決できない場合はnilを返す。
func (s *Server) tokens(c *gin.Context) *session.Session {
	storage, err := s.sessions.Resolve(c.Writer, c.Request)
	if err != nil {
		s.logger.Warn("セッションストレージの解決に失敗",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		return nil
	}
	return session.New(storage)
}

// tokenSource はnilの*session.Sessionをnilインターフェースに変換する。
func tokenSource(sess *session.Session) router.TokenSource {
	if sess == nil {
		return nil
	}
	return sess
}

// guardRoute はルートrへの遷移可否をガードで判定するミドルウェアを返す。
// 未認証の場合は判定先へ302で転送し、後続のハンドラを実行しない。
func (s *Server) guardRoute(r router.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		m := router.Match{Route: r, Params: params, Path: c.Request.URL.Path}

		d := s.guard.Check(c.Request.Context(), m, tokenSource(s.tokens(c)))
		if d.Redirected() {
			c.Redirect(http.StatusFound, d.Path)
			c.Abort()
			return
		}
		c.Set(contextKeyDecision, d)
		c.Next()
	}
}

// handlePage はガードを通過した画面を描画するハンドラを返す。
func (s *Server) handlePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(contextKeyDecision)
		d, _ := v.(router.Decision)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "画面の判定結果がありません"})
			return
		}
		s.renderer.Render(c, d)
	}
}

// handleRedirect はリダイレクト専用ルートのハンドラを返す。
func (s *Server) handleRedirect() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := s.guard.Navigate(c.Request.Context(), c.Request.URL.Path, tokenSource(s.tokens(c)))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "ルートが見つかりません"})
			return
		}
		c.Redirect(http.StatusFound, d.Path)
	}
}

// setTokenRequest はトークン保存リクエストのボディ。
type setTokenRequest struct {
	// Token は保存するセッショントークン。
	Token string `json:"token" binding:"required"`
}

// handleSetToken はセッションにトークンを保存するハンドラを返す。
func (s *Server) handleSetToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tokenは必須です"})
			return
		}

		sess := s.tokens(c)
		if sess == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "セッションを開けませんでした"})
			return
		}
		if err := sess.SetToken(c.Request.Context(), req.Token); err != nil {
			s.logger.Error("トークンの保存に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの保存に失敗しました"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleClearToken はセッションからトークンを削除するハンドラを返す。
func (s *Server) handleClearToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := s.tokens(c)
		if sess == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "セッションを開けませんでした"})
			return
		}
		if err := sess.Clear(c.Request.Context()); err != nil {
			s.logger.Error("トークンの削除に失敗", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの削除に失敗しました"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleProxy は /api 配下のリクエストをバックエンドAPIへ転送するハンドラを返す。
// 閲覧者のセッションのトークンがAPIクライアントによって付与される。
func (s *Server) handleProxy() gin.HandlerFunc {
	return func(c *gin.Context) {
		// c.Param はデコード済みのため、エンコードされた%3Fや%23を保つにはエスケープ済みのパスを使う
		path := strings.TrimPrefix(c.Request.URL.EscapedPath(), "/api")
		if c.Request.URL.RawQuery != "" {
			path += "?" + c.Request.URL.RawQuery
		}

		ctx := c.Request.Context()
		if sess := s.tokens(c); sess != nil {
			ctx = httpclient.WithTokenSource(ctx, sess)
		}

		var body io.Reader
		if c.Request.ContentLength != 0 {
			body = c.Request.Body
		}
		req, err := s.api.NewRequest(ctx, c.Request.Method, path, body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "プロキシリクエストの作成に失敗しました"})
			return
		}
		for _, h := range forwardHeaders {
			if v := c.GetHeader(h); v != "" {
				req.Header.Set(h, v)
			}
		}

		resp, err := s.api.Do(req)
		if err != nil {
			s.logger.Warn("APIへの転送に失敗",
				zap.String("url", req.URL.String()),
				zap.Error(err),
			)
			c.JSON(http.StatusBadGateway, gin.H{"error": "APIとの通信に失敗しました"})
			return
		}
		defer resp.Body.Close()

		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/json"
		}
		c.DataFromReader(resp.StatusCode, resp.ContentLength, contentType, resp.Body, nil)
	}
}
