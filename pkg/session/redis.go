package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// sessionIDKey はRedisのセッションIDをCookieに保存するキー。
const sessionIDKey = "sid"

// NewRedisClient はRedisクライアントを生成し、起動時にPingで疎通を確認する。
func NewRedisClient(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	cli := redis.NewClient(opts)
	pingCtx := ctx
	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}
	if err := cli.Ping(pingCtx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("Redisへの接続確認に失敗: %w", err)
	}
	return cli, nil
}

// RedisStorage はRedis上の名前空間に値を保存するStorage。
// 値に有効期限は設定しない。
type RedisStorage struct {
	rdb    redis.Cmdable
	prefix string
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage はprefixで始まるキーに値を保存するRedisStorageを生成する。
func NewRedisStorage(rdb redis.Cmdable, prefix string) *RedisStorage {
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

func (s *RedisStorage) key(k string) string { return s.prefix + k }

// GetItem はkeyに対応する値を返す。
func (s *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// SetItem はkeyに値を保存する。
func (s *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// RemoveItem はkeyを削除する。
func (s *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// RedisResolver はCookieに保持したセッションIDでRedis上の名前空間を選ぶ。
// セッションIDが無い訪問者には新しいIDを発行してCookieに保存する。
type RedisResolver struct {
	// Client はRedisクライアント。
	Client redis.Cmdable
	// Cookies はセッションIDを保持するCookieストア。
	Cookies sessions.Store
	// Name はセッションCookie名。
	Name string
	// Prefix はRedisキーの接頭辞。
	Prefix string
}

// Resolve はリクエストrの訪問者に対応するRedisStorageを返す。
func (rr RedisResolver) Resolve(w http.ResponseWriter, r *http.Request) (Storage, error) {
	sess, err := rr.Cookies.Get(r, rr.Name)
	if err != nil {
		// 復号できないCookieは新しいセッションIDで置き換える
		if sess, _ = rr.Cookies.New(r, rr.Name); sess == nil {
			return nil, fmt.Errorf("セッションの生成に失敗: %w", err)
		}
		sess.Values = map[any]any{}
		sess.IsNew = true
	}

	sid, _ := sess.Values[sessionIDKey].(string)
	if sid == "" {
		sid = uuid.NewString()
		sess.Values[sessionIDKey] = sid
		if err := sess.Save(r, w); err != nil {
			return nil, fmt.Errorf("セッションCookieの保存に失敗: %w", err)
		}
	}
	return NewRedisStorage(rr.Client, rr.Prefix+sid+":"), nil
}
