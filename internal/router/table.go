package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// maxRedirects はResolveが辿るリダイレクトの上限。
const maxRedirects = 8

var (
	// ErrNotFound はどのルートにも一致しないことを表す。
	ErrNotFound = errors.New("ルートが見つかりません")
	// ErrDuplicateName はルート名が重複していることを表す。
	ErrDuplicateName = errors.New("ルート名が重複しています")
	// ErrDuplicatePath はパスが重複していることを表す。
	ErrDuplicatePath = errors.New("パスが重複しています")
	// ErrInvalidPath はパスパターンが不正であることを表す。
	ErrInvalidPath = errors.New("パスパターンが不正です")
	// ErrUnknownRedirect はリダイレクト先がルート表に無いことを表す。
	ErrUnknownRedirect = errors.New("リダイレクト先のルートが存在しません")
	// ErrRedirectLoop はリダイレクトが循環していることを表す。
	ErrRedirectLoop = errors.New("リダイレクトが循環しています")
	// ErrMissingParam はパスの組み立てに必要なパラメータが無いことを表す。
	ErrMissingParam = errors.New("パスパラメータが不足しています")
)

// segment はパスパターンの1セグメント。
type segment struct {
	value string
	param bool
}

// Table は不変のルート表。
type Table struct {
	routes   []Route
	patterns [][]segment
	byName   map[string]int
}

// NewTable はroutesからルート表を構築する。
// パスとルート名の一意性、リダイレクト先の存在を検証する。
func NewTable(routes []Route) (*Table, error) {
	t := &Table{
		routes:   make([]Route, len(routes)),
		patterns: make([][]segment, len(routes)),
		byName:   make(map[string]int, len(routes)),
	}
	copy(t.routes, routes)

	seenPaths := make(map[string]string, len(routes))
	for i, r := range t.routes {
		pattern, err := compile(r.Path)
		if err != nil {
			return nil, err
		}
		key := patternKey(pattern)
		if prev, ok := seenPaths[key]; ok {
			return nil, fmt.Errorf("%w: %s と %s", ErrDuplicatePath, prev, r.Path)
		}
		seenPaths[key] = r.Path
		t.patterns[i] = pattern

		if r.Name == "" {
			continue
		}
		if _, ok := t.byName[r.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, r.Name)
		}
		t.byName[r.Name] = i
	}

	for _, r := range t.routes {
		if !r.IsRedirect() {
			continue
		}
		if _, err := t.Match(r.Redirect); err != nil {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownRedirect, r.Path, r.Redirect)
		}
	}
	return t, nil
}

// MustTable はNewTableと同じだが、エラー時にpanicする。
func MustTable(routes []Route) *Table {
	t, err := NewTable(routes)
	if err != nil {
		panic(err)
	}
	return t
}

// compile はパスパターンをセグメント列に分解する。
func compile(path string) ([]segment, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q は / で始まる必要があります", ErrInvalidPath, path)
	}
	parts := split(path)
	pattern := make([]segment, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: %q に空のセグメントがあります", ErrInvalidPath, path)
		}
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if name == "" {
				return nil, fmt.Errorf("%w: %q に名前の無いパラメータがあります", ErrInvalidPath, path)
			}
			pattern = append(pattern, segment{value: name, param: true})
			continue
		}
		pattern = append(pattern, segment{value: strings.ToLower(p)})
	}
	return pattern, nil
}

// patternKey はパラメータ名を無視した重複判定用のキーを返す。
func patternKey(pattern []segment) string {
	var b strings.Builder
	for _, s := range pattern {
		b.WriteByte('/')
		if s.param {
			b.WriteByte(':')
			continue
		}
		b.WriteString(s.value)
	}
	return b.String()
}

// split は先頭・末尾のスラッシュを除いてパスをセグメントに分割する。
func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Routes はルート表のコピーを定義順で返す。
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup は名前でルートを検索する。
func (t *Table) Lookup(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Match は具体的なパスを1つのルートに解決する。
// クエリ文字列と末尾のスラッシュは無視し、静的セグメントは大文字小文字を区別しない。
// 複数のパターンに一致する場合は静的セグメントの多いものを選ぶ。
func (t *Table) Match(path string) (Match, error) {
	path, _, _ = strings.Cut(path, "?")
	if !strings.HasPrefix(path, "/") {
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	parts := split(path)

	best, bestScore := -1, -1
	var bestParams map[string]string
	for i, pattern := range t.patterns {
		params, score, ok := matchPattern(pattern, parts)
		if !ok || score <= bestScore {
			continue
		}
		best, bestScore, bestParams = i, score, params
	}
	if best < 0 {
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return Match{Route: t.routes[best], Params: bestParams, Path: path}, nil
}

// matchPattern はpartsがpatternに一致するか判定し、パラメータと静的セグメント数を返す。
func matchPattern(pattern []segment, parts []string) (map[string]string, int, bool) {
	if len(pattern) != len(parts) {
		return nil, 0, false
	}
	params := map[string]string{}
	score := 0
	for i, s := range pattern {
		part := parts[i]
		if part == "" {
			return nil, 0, false
		}
		if s.param {
			v, err := url.PathUnescape(part)
			if err != nil {
				return nil, 0, false
			}
			params[s.value] = v
			continue
		}
		if !strings.EqualFold(s.value, part) {
			return nil, 0, false
		}
		score++
	}
	return params, score, true
}

// Resolve はMatchで解決したルートがリダイレクト専用であれば転送先まで辿る。
func (t *Table) Resolve(path string) (Match, error) {
	m, err := t.Match(path)
	if err != nil {
		return Match{}, err
	}
	for i := 0; m.Route.IsRedirect(); i++ {
		if i >= maxRedirects {
			return Match{}, fmt.Errorf("%w: %s", ErrRedirectLoop, path)
		}
		if m, err = t.Match(m.Route.Redirect); err != nil {
			return Match{}, err
		}
	}
	return m, nil
}

// PathFor は名前付きルートの具体的なパスをparamsから組み立てる。
func (t *Table) PathFor(name string, params map[string]string) (string, error) {
	i, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: name=%s", ErrNotFound, name)
	}
	parts := split(t.routes[i].Path)
	if len(parts) == 0 {
		return "/", nil
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('/')
		key, isParam := strings.CutPrefix(p, ":")
		if !isParam {
			b.WriteString(p)
			continue
		}
		v, ok := params[key]
		if !ok || v == "" {
			return "", fmt.Errorf("%w: %s の %s", ErrMissingParam, name, key)
		}
		b.WriteString(url.PathEscape(v))
	}
	return b.String(), nil
}
