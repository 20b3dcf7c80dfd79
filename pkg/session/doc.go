// Package session はセッショントークンとそれを保持するクライアント側ストレージを提供する。
//
// トークンは不透明な文字列として固定キー "token" に保存される。
// 保存先はStorageインターフェースで抽象化され、インメモリ、SQLite、
// 署名付きCookie、Redisの各実装を持つ。ログイン・ログアウトによる書き込みは
// 外部のフローが行い、ナビゲーションガードとHTTPクライアントは読み取りのみ行う。
package session
