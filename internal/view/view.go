// Package view renders the HTML templates under templates/. A page
// template is wrapped in layout.html when one exists next to it, and
// parsed templates are cached outside dev mode.
package view

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/auth"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/i18n"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	// permission resolvers are set by the host app so templates can
	// show or hide actions without importing policy types here.
	canResolver     func(*http.Request, string, string) bool
	isAdminResolver func(*http.Request) bool
)

// SetCanResolver sets the callback templates use to check a
// (resource, action) permission for the acting user.
func SetCanResolver(f func(*http.Request, string, string) bool) {
	if f != nil {
		canResolver = f
	}
}

// SetIsAdminResolver sets the callback templates use to detect admins.
func SetIsAdminResolver(f func(*http.Request) bool) {
	if f != nil {
		isAdminResolver = f
	}
}

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// SetBaseDir overrides the template base directory (tests).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

// Funcs returns the template func map: i18n, permission checks and
// money/date formatting helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.LangFromContext(r.Context())
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"can": func(resource, action string) bool {
			if canResolver == nil {
				return false
			}
			return canResolver(r, resource, action)
		},
		"isAdmin": func() bool {
			if isAdminResolver == nil {
				return false
			}
			return isAdminResolver(r)
		},
		"year": func() int { return time.Now().Year() },
		// money rounds to the currency's minor unit at presentation
		// time only; stored amounts keep full precision. Accepts the
		// value or a pointer so optional fields render without guards.
		"money": func(v any) string {
			switch d := v.(type) {
			case decimal.Decimal:
				return d.StringFixed(2)
			case *decimal.Decimal:
				if d == nil {
					return ""
				}
				return d.StringFixed(2)
			}
			return ""
		},
		"date": func(t time.Time) string { return t.Format("2006-01-02") },
		"derefUint": func(p *uint) uint {
			if p == nil {
				return 0
			}
			return *p
		},
	}
}

// Render parses and executes a template file with the shared funcs.
// name is the filename under templates/ (e.g. "journal.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	if baseDir == "" {
		once.Do(detectBase)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}

	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok && t != nil {
			return t.Execute(w, data)
		}
	}

	mainPath := filepath.Join(baseDir, name)
	if _, err := os.Stat(mainPath); err != nil {
		return err
	}

	funcMap := Funcs(r)
	contentBytes, _ := os.ReadFile(mainPath)
	layoutPath := filepath.Join(baseDir, "layout.html")
	useLayout := !bytes.Contains(bytes.ToLower(contentBytes), []byte("<!doctype"))
	if useLayout {
		if fi, err := os.Stat(layoutPath); err != nil || fi.IsDir() {
			useLayout = false
		}
	}

	var t *template.Template
	var err error
	if useLayout {
		t, err = template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, mainPath)
	} else {
		t, err = template.New(name).Funcs(funcMap).ParseFiles(mainPath)
	}
	if err != nil {
		return err
	}

	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	if t == nil {
		return errors.New("template not cached")
	}
	return t.Execute(w, data)
}
