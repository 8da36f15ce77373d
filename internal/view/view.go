package view

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/auth"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

func detectBase() {
	// Detect templates directory whether running from repo root or a
	// subdir (e.g., cmd/server, or a package dir under go test).
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the shared template func map. Per-request values (identity,
// flash) travel through the data map instead, so cached templates stay
// safe to execute concurrently.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"year": func() int { return time.Now().Year() },
		// Cafe bodies and comments come from a rich-text editor and are
		// stored as HTML.
		"raw": func(s string) template.HTML { return template.HTML(s) },
	}
}

// Render parses and executes a template file wrapped in layout.html, with
// shared funcs and caching. name is the filename (e.g., "find-cafes.html").
// The current identity and any pending flash message are injected into the
// data map as CurrentUser / Authenticated / Flash. Render owns the
// WriteHeader call: popping the flash sets a clearing cookie, which must go
// out before the status line even on error pages.
func Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	once.Do(detectBase)
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	identity := auth.IdentityFrom(r.Context())
	if _, exists := data["CurrentUser"]; !exists {
		data["CurrentUser"] = identity
	}
	if _, exists := data["Authenticated"]; !exists {
		data["Authenticated"] = identity.Authenticated()
	}
	if _, exists := data["Flash"]; !exists {
		if msg := PopFlash(w, r); msg != "" {
			data["Flash"] = msg
		}
	}

	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok && t != nil {
			writeStatus(w, status)
			return t.Execute(w, data)
		}
	}

	mainPath := filepath.Join(baseDir, name)
	if _, err := os.Stat(mainPath); err != nil {
		return err
	}
	files := []string{mainPath}
	rootName := name
	layoutPath := filepath.Join(baseDir, "layout.html")
	if fi, err := os.Stat(layoutPath); err == nil && !fi.IsDir() {
		files = []string{layoutPath, mainPath}
		rootName = "layout.html"
	}
	t, err := template.New(rootName).Funcs(Funcs()).ParseFiles(files...)
	if err != nil {
		return err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	writeStatus(w, status)
	return t.Execute(w, data)
}

func writeStatus(w http.ResponseWriter, status int) {
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
	}
}
