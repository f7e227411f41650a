// Package web はHTMLテンプレートの描画、静的ファイル、トースト通知を提供する。
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/hitoshi/foodwaste/internal/dashboard"
	"github.com/hitoshi/foodwaste/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// layoutFiles は全ページで共有するレイアウトと部品。
var layoutFiles = []string{
	"templates/layout.html",
	"templates/dashboard_layout.html",
	"templates/partials.html",
}

// PageData はすべてのページに渡す共通データ。
type PageData struct {
	Title     string
	Path      string
	CSRFToken string
	Toasts    []Toast
	User      *model.UserProfile
	Dashboard *DashboardChrome
	Data      any
}

// DashboardChrome はダッシュボードのサイドバーとヘッダーの表示内容。
type DashboardChrome struct {
	Role               model.Role
	Variant            model.Role
	Nav                []dashboard.NavItem
	Shell              dashboard.ShellState
	ToggleCollapsedURL string
	ToggleMenuURL      string
	Copy               dashboard.Copy
}

// Form はフォームの再表示に使う入力値とエラー。
type Form struct {
	Values map[string]string
	Errors model.FieldErrors
}

// NewForm は空のFormを生成する。
func NewForm() Form {
	return Form{Values: map[string]string{}, Errors: model.FieldErrors{}}
}

// Renderer はページごとにレイアウトと結合済みのテンプレートを保持する。
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer は埋め込みテンプレートを解析してRendererを生成する。
func NewRenderer() (*Renderer, error) {
	base, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, layoutFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layouts: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, file := range files {
		if isLayout(file) {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", file, err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	return &Renderer{pages: pages}, nil
}

// Render はページを描画する。ダッシュボード画面はダッシュボード用レイアウトを使う。
// 描画はバッファに対して行い、失敗時は500を返す。
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data PageData) {
	t, ok := r.pages[page]
	if !ok {
		slog.Error("template not found", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	layout := "site"
	if data.Dashboard != nil {
		layout = "dashboard"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, data); err != nil {
		slog.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Has は指定ページのテンプレートが存在するかを返す。
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// StaticHandler は埋め込み静的ファイルを配信するハンドラーを返す。
// /static/ プレフィックスを取り除いて配信する。
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func isLayout(file string) bool {
	for _, l := range layoutFiles {
		if l == file {
			return true
		}
	}
	return false
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"withRole": dashboard.WithRole,
		"dateParam": func(t time.Time) string {
			return dashboard.FormatDateParam(t)
		},
		"longDate": dashboard.FormatLongDate,
		"shortDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"timeAgo": timeAgo,
		"pct": func(value, maximum int) int {
			if maximum <= 0 {
				return 0
			}
			return value * 100 / maximum
		},
		"miles": func(d float64) string {
			return fmt.Sprintf("%.1f miles", d)
		},
		"initial": func(s string) string {
			if s == "" {
				return "?"
			}
			return strings.ToUpper(string([]rune(s)[0]))
		},
		"year": func() int {
			return time.Now().Year()
		},
	}
}

// timeAgo は経過時間を"2 hours ago"形式で返す。
func timeAgo(t *time.Time) string {
	if t == nil {
		return "never"
	}
	d := time.Since(*t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 48*time.Hour:
		return "yesterday"
	default:
		return plural(int(d.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
