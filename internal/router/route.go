package router

// View は画面コンポーネントを名前で参照する不透明な識別子。
type View string

// Route はパスパターンと画面・認証要否の対応を表す記述子。
type Route struct {
	// Path はパスパターン。":id" のように先頭がコロンのセグメントはパラメータになる。
	Path string
	// Name はルートの一意な名前。リダイレクト専用ルートでは空。
	Name string
	// View は描画する画面。
	View View
	// RequiresAuth がtrueの場合、セッショントークンが無いとloginへリダイレクトされる。
	RequiresAuth bool
	// Props がtrueの場合、パスパラメータを画面のプロパティとして渡す。
	Props bool
	// Redirect はリダイレクト専用ルートの転送先パス。
	Redirect string
}

// IsRedirect はリダイレクト専用ルートかどうかを返す。
func (r Route) IsRedirect() bool {
	return r.Redirect != ""
}

// Match はパスの解決結果。
type Match struct {
	// Route は一致したルート。
	Route Route
	// Params はデコード済みのパスパラメータ。
	Params map[string]string
	// Path は解決に使われた具体的なパス。
	Path string
}
