// Package router はSmartMealの画面ルート表とナビゲーションガードを提供する。
//
// ルート表はパス・名前・ビュー・認証要否からなる静的な記述子の一覧で、
// 起動時に一度だけ構築され以後は変更されない。ガードは各ナビゲーションの前に
// 実行され、認証が必要なルートでセッショントークンが無い場合にloginルートへ
// リダイレクトする。トークンは有無のみを確認し、有効性や期限は検証しない。
package router
