// Package view は埋め込みテンプレートで各画面のHTMLを描画します。
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"word_wizard/internal/config"
	"word_wizard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFiles = map[model.Status]string{
	model.StatusStart:   "templates/start.html",
	model.StatusLoading: "templates/loading.html",
	model.StatusQuiz:    "templates/quiz.html",
	model.StatusResult:  "templates/result.html",
	model.StatusError:   "templates/error.html",
}

// Renderer は画面ごとに layout と本文を組み合わせたテンプレートを保持します。
type Renderer struct {
	pages map[model.Status]*template.Template
}

// NewRenderer はテンプレートを解析します。refresh は読み込み画面の自動再読み込み間隔です。
func NewRenderer(refresh time.Duration) (*Renderer, error) {
	seconds := max(int(refresh/time.Second), 1)
	funcs := template.FuncMap{
		"appName":        func() string { return config.AppName },
		"refreshSeconds": func() int { return seconds },
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i
			}
			return s
		},
		"isSelected": func(selected *int, i int) bool {
			return selected != nil && *selected == i
		},
	}

	pages := make(map[model.Status]*template.Template, len(pageFiles))
	for status, file := range pageFiles {
		t, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", file, err)
		}
		pages[status] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render は view.Status に対応する画面を描画します。
// 描画に失敗した場合は何も書き込みません。
func (r *Renderer) Render(w http.ResponseWriter, code int, v model.ScreenView) error {
	t, ok := r.pages[v.Status]
	if !ok {
		return fmt.Errorf("view: no template for status %q", v.Status)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("view: render %s: %w", v.Status, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, err := buf.WriteTo(w)
	return err
}
