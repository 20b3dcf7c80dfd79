// Package middleware は画面サーバーで使用するGinミドルウェアを提供する。
//
// リクエストIDの付与、zapによるリクエストログ、パニックリカバリ、
// フロントエンド向けのCORS設定を含む。
package middleware
