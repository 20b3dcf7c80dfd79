// SmartMeal画面サーバーのエントリポイント。
// ルート表の各画面をナビゲーションガード付きで配信し、/api 配下をバックエンドへ転送する。
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/smartmeal/internal/config"
	"github.com/nao1215/smartmeal/internal/logging"
	"github.com/nao1215/smartmeal/internal/router"
	"github.com/nao1215/smartmeal/internal/web"
	"github.com/nao1215/smartmeal/pkg/httpclient"
	"github.com/nao1215/smartmeal/pkg/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if _, err := config.LoadDotEnvUp(0); err != nil {
		log.Fatalf(".envの読み込みに失敗: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("画面サーバーが異常終了しました", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	guard, err := router.NewGuard(router.Default(), router.LoginRoute, router.WithLogger(logger))
	if err != nil {
		return err
	}

	resolver, closeResolver, err := newResolver(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeResolver()

	var opts []httpclient.Option
	if cfg.API.Timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.API.Timeout))
	}
	api := httpclient.New(cfg.API.BaseURL, nil, opts...)

	server := web.NewServer(guard, resolver, api, web.Options{
		Addr:            cfg.Web.Addr,
		ReadTimeout:     cfg.Web.ReadTimeout,
		ShutdownTimeout: cfg.Web.ShutdownTimeout,
		FrontendOrigins: cfg.Web.FrontendOrigins,
		Logger:          logger,
	})
	return server.Run(ctx)
}

// newResolver は設定されたバックエンドのセッションストレージを返す。
func newResolver(ctx context.Context, cfg *config.Config) (session.Resolver, func(), error) {
	cookies := session.NewCookieStore([]byte(cfg.Session.Secret), !cfg.IsLocal())

	switch cfg.Session.Backend {
	case config.BackendRedis:
		rdb, err := session.NewRedisClient(ctx, &redis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		resolver := session.RedisResolver{
			Client:  rdb,
			Cookies: cookies,
			Name:    cfg.Session.Name,
			Prefix:  "smartmeal:session:",
		}
		return resolver, func() { _ = rdb.Close() }, nil
	case config.BackendCookie:
		return session.CookieResolver{Store: cookies, Name: cfg.Session.Name}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("未対応のセッションバックエンド: %s", cfg.Session.Backend)
	}
}
