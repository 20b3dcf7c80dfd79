// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/smartmeal/pkg/httpclient"
)

// EnvLocal はローカル開発環境を表すAPP_ENVの値。
const EnvLocal = "local"

// EnvProduction は本番環境を表すAPP_ENVの値。
const EnvProduction = "production"

// セッションストレージのバックエンド。
const (
	BackendCookie = "cookie"
	BackendRedis  = "redis"
)

// ErrSessionSecretRequired はローカル環境以外でSESSION_SECRETが未設定であることを表す。
var ErrSessionSecretRequired = errors.New("ローカル環境以外ではSESSION_SECRETが必須です")

// devSessionSecret はローカル用のCookie署名鍵。APP_ENV=local の場合にのみ使用する。
const devSessionSecret = "smartmeal-insecure-dev-secret"

// Config はアプリケーション全体の設定。
type Config struct {
	// Env は実行環境 (local, production など)。
	Env string
	// LogLevel はログレベル (debug, info, warn, error)。
	LogLevel string
	Web      Web
	API      API
	Session  Session
	Redis    Redis
}

// Web は画面サーバーの設定。
type Web struct {
	// Addr は待ち受けアドレス。
	Addr string
	// ReadTimeout はリクエスト読み込みのタイムアウト。
	ReadTimeout time.Duration
	// ShutdownTimeout はグレースフルシャットダウンの待ち時間。
	ShutdownTimeout time.Duration
	// FrontendOrigins はCORSで許可するオリジン。
	FrontendOrigins []string
}

// API はバックエンドAPIクライアントの設定。
type API struct {
	// BaseURL はAPIのベースアドレス。
	BaseURL string
	// Timeout はリクエストのタイムアウト。0の場合は無制限。
	Timeout time.Duration
}

// Session はセッションストレージの設定。
type Session struct {
	// Backend は cookie または redis。
	Backend string
	// Secret はCookieの署名鍵。
	Secret string
	// Name はセッションCookie名。
	Name string
}

// Redis はRedis接続の設定。
type Redis struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Load は環境変数から設定を読み込み、検証する。
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("APP_ENV", EnvLocal),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Web: Web{
			Addr:            getEnv("WEB_ADDR", ":8080"),
			ReadTimeout:     getDuration("WEB_READ_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDuration("WEB_SHUTDOWN_TIMEOUT", 10*time.Second),
			FrontendOrigins: getList("FRONTEND_ORIGINS", []string{"http://localhost:3000"}),
		},
		API: API{
			BaseURL: getEnv("API_BASE_URL", httpclient.DefaultBaseURL),
			Timeout: getDuration("API_TIMEOUT", 0),
		},
		Session: Session{
			Backend: strings.ToLower(getEnv("SESSION_BACKEND", BackendCookie)),
			Secret:  getEnv("SESSION_SECRET", ""),
			Name:    getEnv("SESSION_NAME", "smartmeal_session"),
		},
		Redis: Redis{
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getInt("REDIS_DB", 0),
			DialTimeout: getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		},
	}

	if cfg.Session.Secret == "" {
		if !cfg.IsLocal() {
			return nil, ErrSessionSecretRequired
		}
		cfg.Session.Secret = devSessionSecret
	}
	switch cfg.Session.Backend {
	case BackendCookie, BackendRedis:
	default:
		return nil, fmt.Errorf("SESSION_BACKEND が不正です: %q", cfg.Session.Backend)
	}
	return cfg, nil
}

// IsLocal はローカル開発環境かどうかを返す。
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal
}

// getEnv は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// getList はカンマ区切りの環境変数を空要素を除いて返す。
func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
