// Package cli はsmartmealコマンドのサブコマンド定義を提供する。
//
// セッショントークンをローカルのSQLiteストレージに保存し、
// ルート表の解決とAPIへのリクエスト送信を行う。
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/smartmeal/internal/logging"
	"github.com/nao1215/smartmeal/internal/router"
	"github.com/nao1215/smartmeal/pkg/httpclient"
	"github.com/nao1215/smartmeal/pkg/session"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Version はビルド時にldflagsで設定される。
var Version = "dev"

// metadataEnv はApp.Metadataに実行環境を保存するキー。
const metadataEnv = "env"

// env はサブコマンドが共有する実行環境。
type env struct {
	// storage はトークンを保存するローカルストレージ。
	storage *session.SQLiteStorage
	// session はstorage上のセッション。
	session *session.Session
	// client はAPIクライアント。sessionのトークンを付与する。
	client *httpclient.Client
	// guard はルート表のナビゲーションガード。
	guard *router.Guard
	// logger はCLIのロガー。
	logger *zap.Logger
}

// App はsmartmealコマンドを生成する。
func App() *cli.App {
	return &cli.App{
		Name:    "smartmeal",
		Usage:   "SmartMealのセッショントークン・ルート表・APIを操作する",
		Version: Version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			TokenCommand(),
			RouteCommand(),
			APICommand(),
		},
		Before: setup,
		After:  teardown,
	}
}

// globalFlags は全サブコマンド共通のフラグを返す。
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "storage",
			Usage:   "トークンを保存するSQLiteファイルのパス",
			EnvVars: []string{"SMARTMEAL_STORAGE"},
			Value:   defaultStoragePath(),
		},
		&cli.StringFlag{
			Name:    "api",
			Usage:   "APIのベースURL",
			EnvVars: []string{"API_BASE_URL"},
			Value:   httpclient.DefaultBaseURL,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "APIリクエストのタイムアウト (0は無制限)",
			EnvVars: []string{"API_TIMEOUT"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "詳細なログを出力する",
		},
	}
}

// defaultStoragePath はユーザー設定ディレクトリ配下の既定の保存先を返す。
func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "smartmeal.db"
	}
	return filepath.Join(dir, "smartmeal", "storage.db")
}

// setup はストレージを開き、実行環境をMetadataに保存する。
func setup(c *cli.Context) error {
	level := "warn"
	if c.Bool("verbose") {
		level = "debug"
	}
	logger, err := logging.New("local", level)
	if err != nil {
		return err
	}

	path := c.String("storage")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("保存先ディレクトリの作成に失敗: %w", err)
	}
	storage, err := session.OpenSQLite(c.Context, path, logger)
	if err != nil {
		return err
	}

	guard, err := router.NewGuard(router.Default(), router.LoginRoute, router.WithLogger(logger))
	if err != nil {
		_ = storage.Close()
		return err
	}

	sess := session.New(storage)
	var opts []httpclient.Option
	if d := c.Duration("timeout"); d > 0 {
		opts = append(opts, httpclient.WithTimeout(d))
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[metadataEnv] = &env{
		storage: storage,
		session: sess,
		client:  httpclient.New(c.String("api"), sess, opts...),
		guard:   guard,
		logger:  logger,
	}
	return nil
}

// teardown はストレージを閉じる。
func teardown(c *cli.Context) error {
	e, ok := c.App.Metadata[metadataEnv].(*env)
	if !ok {
		return nil
	}
	_ = e.logger.Sync()
	return e.storage.Close()
}

// envFrom はMetadataから実行環境を取得する。
func envFrom(c *cli.Context) (*env, error) {
	e, ok := c.App.Metadata[metadataEnv].(*env)
	if !ok {
		return nil, fmt.Errorf("実行環境が初期化されていません")
	}
	return e, nil
}
