package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"ascend/internal/adapters/http/middleware"
	"ascend/internal/adapters/remote"
	"ascend/internal/domain/table"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// staticHandler serves the embedded stylesheet and scripts under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	renderError(w, r, http.StatusInternalServerError, "Something went wrong on our side. Please try again.")
}

// storeError maps a failed lookup to 404 and anything else to 500.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, remote.ErrNotFound) {
		renderError(w, r, http.StatusNotFound, "We couldn't find that page.")
		return
	}
	internalError(w, r, err)
}

// errorPage is the data of error.html.
type errorPage struct {
	Title   string
	Status  int
	Message string
}

// renderError writes msg as JSON or as the error page, matching what the client asked for.
func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if wantsJSON(r) {
		writeJSONError(w, status, msg)
		return
	}
	renderTemplate(w, r, status, "error.html", errorPage{
		Title:   http.StatusText(status),
		Status:  status,
		Message: msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// renderTemplate executes the page inside its layout. Pages named admin_* use the
// back-office layout. Output is buffered so a failed render never sends a partial page.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	layout := "layout.html"
	if strings.HasPrefix(page, "admin_") {
		layout = "admin_layout.html"
	}

	tpl, err := template.New(layout).Funcs(funcMap(r)).ParseFS(templateFS, "templates/"+layout, "templates/"+page)
	if err != nil {
		slog.Error("template_parse_failed", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		slog.Error("template_render_failed", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func funcMap(r *http.Request) template.FuncMap {
	sess, signedIn := middleware.CurrentAdmin(r.Context())
	return template.FuncMap{
		"csrfField":    func() template.HTML { return csrf.TemplateField(r) },
		"csrfToken":    func() string { return csrf.Token(r) },
		"isSignedIn":   func() bool { return signedIn && sess.IsAdmin() },
		"currentAdmin": func() middleware.Session { return sess },
		"currentPath":  func() string { return r.URL.Path },
		"adminTables": func() []table.Schema {
			if stores == nil || stores.Registry == nil {
				return nil
			}
			return stores.Registry.Tables()
		},
		"year": func() int { return timeNow().Year() },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"formatDate":  formatDate,
		"formatPrice": formatPrice,
		"join":        strings.Join,
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"ms":          func(v float64) string { return fmt.Sprintf("%.1f ms", v) },
	}
}

// formatDate renders t in the site's time zone.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	loc := time.UTC
	if site != nil && site.Location != nil {
		loc = site.Location
	}
	return t.In(loc).Format("Mon 2 Jan 2006, 3:04 PM")
}

// formatPrice renders a catalog price; zero reads as Free.
func formatPrice(p float64) string {
	if p <= 0 {
		return "Free"
	}
	if p == float64(int64(p)) {
		return fmt.Sprintf("$%d", int64(p))
	}
	return fmt.Sprintf("$%.2f", p)
}
