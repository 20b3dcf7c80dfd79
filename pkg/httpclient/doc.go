// Package httpclient はSmartMeal APIにリクエストを送信するHTTPクライアントを提供する。
//
// 固定のベースURLを持ち、送信前フックとしてセッショントークンを
// Authorization: Bearer ヘッダーに付与する。トークンが無い場合はヘッダーを付けずに
// そのまま送信し、認可の失敗はサーバーのレスポンスに委ねる。
package httpclient
