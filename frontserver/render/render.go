package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/abderrahimal/blog/frontserver/components/link"
	"github.com/abderrahimal/blog/httperr"
	"github.com/abderrahimal/blog/sitemeta"
	"github.com/go-chi/chi"
)

//go:embed index.html
var indexHTML string

//go:embed style.css
var styleCSS string

var index = template.Must(template.New("index").Parse(indexHTML))

func init() {
	RegisterCSS("style", styleCSS)
}

// Renderer represents a renderable page.
type Renderer = func(r *Request) (Render, error)

// ErrorRenderer represents a renderable page for errors.
type ErrorRenderer = func(r *Request, err error) (Render, error)

type Render struct {
	Title       string // og:title, <title>
	Description string // og:description
	ImageURL    string // og:image

	Body template.HTML
}

// Empty is a blank page.
var Empty = Render{}

type Config struct {
	Site sitemeta.Metadata `toml:"site"`
}

func NewConfig() Config {
	return Config{
		Site: sitemeta.NewConfig(),
	}
}

func (c *Config) Validate() error {
	return c.Site.Validate()
}

type renderCtx struct {
	Render Render
	Site   sitemeta.Metadata
}

func (r renderCtx) FormatTitle() string {
	if r.Render.Title == "" {
		return r.Site.Title
	}
	if r.Site.Title == "" {
		return r.Render.Title
	}
	return fmt.Sprintf("%s - %s", r.Render.Title, r.Site.Title)
}

func (r renderCtx) FormatDescription() string {
	if r.Render.Description == "" {
		return r.Site.Description
	}
	return r.Render.Description
}

type Request struct {
	*http.Request
	Writer FlushWriter
	CommonCtx
}

func (r *Request) Param(name string) string {
	return chi.URLParam(r.Request, name)
}

// CommonCtx is embedded into every page's template context. Now is the
// instant the request started rendering at; components that show the time
// read it from here instead of the clock.
type CommonCtx struct {
	Site    sitemeta.Metadata
	Request *http.Request
	Now     time.Time
}

// Links returns the resolver for links on this request's pages.
func (c CommonCtx) Links() link.Resolver {
	return link.NewResolver(c.Site.Origin())
}

type Mux struct {
	*chi.Mux
	cfg  Config
	errR ErrorRenderer
	now  func() time.Time
}

func NewMux(cfg Config) *Mux {
	ensureInit()

	r := chi.NewMux()
	r.Route("/static", func(r chi.Router) {
		r.Get("/components.css", componentsCSSHandler)
	})

	return &Mux{r, cfg, nil, time.Now}
}

func (m *Mux) SetErrorRenderer(r ErrorRenderer) {
	m.errR = r
}

// SetClock replaces the function used to stamp each request's render time.
func (m *Mux) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Mux) NewRequest(w http.ResponseWriter, r *http.Request) *Request {
	return &Request{
		Request: r,
		Writer:  TryFlushWriter(w),
		CommonCtx: CommonCtx{
			Site:    m.cfg.Site,
			Request: r,
			Now:     m.now(),
		},
	}
}

// M is the middleware wrapper.
func (m *Mux) M(render Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Write the proper headers.
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		var request = m.NewRequest(w, r)

		page, err := render(request)
		if err != nil {
			// Copy the status code if available. Else, fallback to 500.
			w.WriteHeader(httperr.ErrCode(err))

			// If there is no error renderer, then we just write the error down
			// in plain text.
			if m.errR == nil {
				fmt.Fprintf(request.Writer, "Error: %v", err)
				return
			}

			// Render the error page.
			page, err = m.errR(request, err)
			if err != nil {
				// This shouldn't error out, so we should log it.
				log.Println("Error rendering error page:", err)
				return
			}
		}

		// Don't render anything if an empty page is returned and there is no
		// error.
		if page == Empty {
			return
		}

		var b bytes.Buffer

		var renderCtx = renderCtx{
			Render: page,
			Site:   m.cfg.Site,
		}

		if err := index.Execute(&b, renderCtx); err != nil {
			log.Println("Error rendering index:", err)
			return
		}

		var minified bytes.Buffer
		minified.Grow(b.Len())

		if err := minifier.Minify("text/html", &minified, bytes.NewReader(b.Bytes())); err != nil {
			log.Println("Failed to minify HTML:", err)
			request.Writer.Write(b.Bytes())
			return
		}

		request.Writer.Write(minified.Bytes())
	}
}

func (m *Mux) Get(route string, r Renderer) {
	m.Mux.Get(route, m.M(r))
}

// NotFound sets the renderer used for unmatched routes.
func (m *Mux) NotFound(r Renderer) {
	m.Mux.NotFound(m.M(r))
}
