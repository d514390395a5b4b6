package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"restaurant-admin/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed content/marketing.md
var marketingMD []byte

// Raw HTML in the markdown is escaped: WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var pageTemplates = []string{"login.html", "gate.html", "home.html", "page.html", "marketing.html", "signup.html"}

var funcs = template.FuncMap{
	"fmtv":      domain.FormatValue,
	"truthy":    truthy,
	"inputType": inputType,
}

func truthy(v any) bool {
	b, _ := v.(bool)
	return b
}

func inputType(k domain.Kind) string {
	switch k {
	case domain.KindNumber:
		return "number"
	case domain.KindDateTime:
		return "datetime-local"
	case domain.KindPassword:
		return "password"
	}
	return "text"
}

func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func renderMarkdown(md []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert(md, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// render buffers the page so a template error never leaves half a page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, code int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl[name].Execute(&buf, data); err != nil {
		h.log(r).Error("render_failed", err, map[string]any{"template": name})
		http.Error(w, "erro ao renderizar a página", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}
