package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nao1215/smartmeal/pkg/migration"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteStorage はSQLiteファイルに値を永続化するStorage。
// CLIがセッショントークンを実行をまたいで保持するために使用する。
type SQLiteStorage struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

var _ Storage = (*SQLiteStorage)(nil)

// OpenSQLite はdsnのSQLiteデータベースを開き、スキーマを適用する。
// dsnにはファイルパスまたは ":memory:" を指定する。
func OpenSQLite(ctx context.Context, dsn string, logger *zap.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// SQLiteは書き込みが直列化されるため接続は1本で足りる
	db.SetMaxOpenConns(1)

	if err := migration.Run(ctx, db, migrationFS, "migrations", logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// GetItem はkeyに対応する値を返す。
func (s *SQLiteStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("値の取得に失敗: %w", err)
	}
	return value, true, nil
}

// SetItem はkeyに値を保存する。
func (s *SQLiteStorage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, key, value)
	if err != nil {
		return fmt.Errorf("値の保存に失敗: %w", err)
	}
	return nil
}

// RemoveItem はkeyを削除する。
func (s *SQLiteStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM local_storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("値の削除に失敗: %w", err)
	}
	return nil
}

// Close はデータベース接続を閉じる。
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
