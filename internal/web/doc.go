// Package web はSmartMealの画面サーバーの内部実装を提供する。
//
// ルート表の各ルートをGinのハンドラとして公開し、表示前にナビゲーションガードで
// セッショントークンの有無を確認する。未認証の場合はloginへ302で転送する。
// /api 配下はAPIクライアント経由でバックエンドへ転送し、閲覧者のトークンを付与する。
package web
