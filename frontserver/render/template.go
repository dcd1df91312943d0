package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tdewolff/minify"
	"github.com/tdewolff/minify/css"
	"github.com/tdewolff/minify/html"
)

// runtime minifier
var minifier = func() (minifier *minify.M) {
	minifier = minify.New()
	minifier.AddFunc("text/css", css.Minify)
	// Whitespace between inline elements is content, e.g. the footer's
	// separators.
	minifier.Add("text/html", &html.Minifier{
		KeepWhitespace:   true,
		KeepDocumentTags: true,
		KeepEndTags:      true,
	})
	return
}()

var globalFns = template.FuncMap{
	// htmlTime formats the given time to the datetime attribute's format.
	"htmlTime": func(t time.Time) string {
		return t.Format("2006-01-02T15:04")
	},
}

// Component is a template fragment that pages include with
// {{ template "name" . }}. Template holds the template source.
type Component struct {
	Template   string
	Components map[string]Component
	Functions  template.FuncMap
}

type Page struct {
	Template   string
	Components map[string]Component
	Functions  template.FuncMap
}

// prepareList is the list of templates to call prepare on.
var prepareList []*Template

func prepareAllTemplates() {
	for _, tmpl := range prepareList {
		tmpl.prepare()
	}
}

func BuildPage(n string, p Page) *Template {
	tmpl := &Template{
		name: n,
		page: p,
	}

	prepareList = append(prepareList, tmpl)

	return tmpl
}

type Template struct {
	*template.Template
	name string
	page Page
	once sync.Once
}

func (t *Template) prepare() {
	t.once.Do(t.do)
}

func (t *Template) do() {
	var components = make(map[string]Component, len(t.page.Components))

	// Combine all component duplicates.
	for n, component := range t.page.Components {
		components[n] = component
		for n, sub := range component.Components {
			if _, ok := components[n]; !ok {
				components[n] = sub
			}
		}
	}

	var functions = template.FuncMap{}
	for n, fn := range t.page.Functions {
		functions[n] = fn
	}

	// Combine all function duplicates.
	for _, component := range components {
		for n, fn := range component.Functions {
			// Only set into the map if we don't already have the function.
			if _, ok := functions[n]; !ok {
				functions[n] = fn
			}
		}
	}

	tmpl := template.New(t.name)
	tmpl = tmpl.Funcs(globalFns)
	tmpl = tmpl.Funcs(functions)
	tmpl = template.Must(tmpl.Parse(t.page.Template))

	// Parse all components' HTMLs.
	for n, component := range components {
		tmpl = template.Must(tmpl.Parse(
			fmt.Sprintf("{{ define %q }}%s{{ end }}", n, component.Template),
		))
	}

	t.Template = tmpl
}

// Render renders the template with the given argument into HTML. Errors are
// logged and replaced with a placeholder.
func (t *Template) Render(v interface{}) template.HTML {
	h, err := t.TryRender(v)
	if err != nil {
		log.Println("Template error:", err)
		return template.HTML("oh no")
	}

	return h
}

// TryRender is Render for callers that have an error page to fall back to.
func (t *Template) TryRender(v interface{}) (template.HTML, error) {
	t.prepare()

	var b bytes.Buffer

	if err := t.Execute(&b, v); err != nil {
		return "", err
	}

	return template.HTML(b.String()), nil
}

var (
	cssMutex  sync.Mutex
	cssFiles  = map[string]string{}
	cssBundle []byte
	cssTime   = time.Now()
)

// RegisterCSS adds the stylesheet to the global CSS file, which is served at
// /static/components.css. Registering the same name twice replaces the older
// stylesheet.
func RegisterCSS(name, css string) {
	cssMutex.Lock()
	defer cssMutex.Unlock()

	cssFiles[name] = css
	cssBundle = nil
}

// ComponentsCSS returns the minified bundle of all registered stylesheets.
func ComponentsCSS() []byte {
	cssMutex.Lock()
	defer cssMutex.Unlock()

	if cssBundle != nil {
		return cssBundle
	}

	// Keep the bundle order stable across restarts.
	var names = make([]string, 0, len(cssFiles))
	for name := range cssFiles {
		names = append(names, name)
	}
	sort.Strings(names)

	var b bytes.Buffer

	for _, name := range names {
		if err := minifier.Minify("text/css", &b, strings.NewReader(cssFiles[name])); err != nil {
			log.Println("Failed to minify CSS", name+":", err)
			b.WriteString(cssFiles[name])
		}
	}

	cssBundle = b.Bytes()
	return cssBundle
}

func componentsCSSHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeContent(
		w, r, "components.css", cssTime,
		bytes.NewReader(ComponentsCSS()),
	)
}

var initOnce sync.Once

func ensureInit() {
	initOnce.Do(func() {
		prepareAllTemplates()
		ComponentsCSS()
	})
}
