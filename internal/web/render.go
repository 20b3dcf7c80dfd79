package web

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/smartmeal/internal/router"
)

// shellTemplateName は画面シェルのテンプレート名。
const shellTemplateName = "shell"

// shellSource は画面コンポーネントをマウントするHTMLシェル。
const shellSource = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="app" data-route="{{.Route}}" data-view="{{.View}}" data-path="{{.Path}}"{{if .Props}} data-props="{{.Props}}"{{end}}></div>
</body>
</html>
`

// newShellTemplate はサーバーごとにHTMLシェルのテンプレートを生成する。
func newShellTemplate() *template.Template {
	return template.Must(template.New(shellTemplateName).Parse(shellSource))
}

// Renderer は決定済みの画面をレスポンスとして描画する。
type Renderer interface {
	Render(c *gin.Context, d router.Decision)
}

// ShellRenderer はHTMLシェルまたはJSONで画面を描画する既定のRenderer。
// AcceptヘッダーでJSONが優先される場合はJSONを返す。
type ShellRenderer struct {
	// Title はHTMLのtitle要素に設定する文字列。
	Title string
}

// Render は画面を描画する。
func (r ShellRenderer) Render(c *gin.Context, d router.Decision) {
	props := Props(d)
	switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
	case gin.MIMEJSON:
		c.JSON(http.StatusOK, gin.H{
			"route": d.Route.Name,
			"view":  d.Route.View,
			"path":  d.Path,
			"props": props,
		})
	default:
		data := gin.H{
			"Title": r.Title,
			"Route": d.Route.Name,
			"View":  d.Route.View,
			"Path":  d.Path,
		}
		if len(props) > 0 {
			if b, err := json.Marshal(props); err == nil {
				data["Props"] = string(b)
			}
		}
		c.HTML(http.StatusOK, shellTemplateName, data)
	}
}

// Props はルートがパスパラメータを画面に渡す場合にそのパラメータを返す。
func Props(d router.Decision) map[string]string {
	if !d.Route.Props || len(d.Params) == 0 {
		return map[string]string{}
	}
	props := make(map[string]string, len(d.Params))
	for k, v := range d.Params {
		props[k] = v
	}
	return props
}
