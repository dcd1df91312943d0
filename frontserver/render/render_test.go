package render

import (
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abderrahimal/blog/httperr"
)

func TestBuildPage(t *testing.T) {
	var inner = Component{
		Template: `<i>{{ shout .Name }}</i>`,
		Functions: template.FuncMap{
			"shout": strings.ToUpper,
		},
	}

	var outer = Component{
		Template:   `<b>{{ template "inner" . }}</b>`,
		Components: map[string]Component{"inner": inner},
	}

	var tmpl = BuildPage("test-page", Page{
		Template:   `<p>{{ template "outer" . }} <time datetime="{{ htmlTime .At }}"></time></p>`,
		Components: map[string]Component{"outer": outer},
	})

	html := tmpl.Render(struct {
		Name string
		At   time.Time
	}{"<smol>", time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)})

	const expect = `<p><b><i>&lt;SMOL&gt;</i></b> <time datetime="2024-03-15T09:30"></time></p>`
	if html != expect {
		t.Fatalf("Unexpected HTML %q", html)
	}
}

func TestRenderFailure(t *testing.T) {
	var tmpl = BuildPage("broken-page", Page{
		Template: `{{ .Missing }}`,
	})

	if html := tmpl.Render(struct{}{}); html != "oh no" {
		t.Fatalf("Unexpected HTML %q", html)
	}

	if _, err := tmpl.TryRender(struct{}{}); err == nil {
		t.Fatal("Expected error from TryRender")
	}
}

func TestComponentsCSS(t *testing.T) {
	RegisterCSS("test/component", ".test-component {\n\tcolor: #ffffff;\n}\n")

	css := string(ComponentsCSS())
	if !strings.Contains(css, ".test-component{color:#") {
		t.Fatalf("Missing minified component CSS in %q", css)
	}
}

func TestMux(t *testing.T) {
	var cfg = NewConfig()
	cfg.Site.Title = "Site"

	if err := cfg.Validate(); err != nil {
		t.Fatal("Failed to validate:", err)
	}

	var now = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	m := NewMux(cfg)
	m.SetClock(func() time.Time { return now })

	m.Get("/page", func(r *Request) (Render, error) {
		return Render{
			Title: "Page",
			Body:  template.HTML(r.Now.Format("2006") + " " + r.Site.Title),
		}, nil
	})
	m.Get("/empty", func(r *Request) (Render, error) {
		return Empty, nil
	})
	m.Get("/teapot", func(r *Request) (Render, error) {
		return Empty, httperr.New(http.StatusTeapot, "no coffee")
	})

	t.Run("Page", func(t *testing.T) {
		w := httptest.NewRecorder()
		m.ServeHTTP(w, httptest.NewRequest("GET", "/page", nil))

		if w.Code != 200 {
			t.Fatalf("Unexpected status %d", w.Code)
		}
		if body := w.Body.String(); !strings.Contains(body, "<title>Page - Site</title>") {
			t.Fatalf("Missing title in %q", body)
		}
		if body := w.Body.String(); !strings.Contains(body, "2024 Site") {
			t.Fatalf("Missing body in %q", body)
		}
		if !w.Flushed {
			t.Fatal("Response was not flushed")
		}
		// The index template is indented with tabs; minifying collapses them.
		if body := w.Body.String(); strings.Contains(body, "\t\t") {
			t.Fatalf("Body was not minified: %q", body)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		w := httptest.NewRecorder()
		m.ServeHTTP(w, httptest.NewRequest("GET", "/empty", nil))

		if w.Body.Len() != 0 {
			t.Fatalf("Unexpected body %q", w.Body.String())
		}
	})

	t.Run("PlainError", func(t *testing.T) {
		w := httptest.NewRecorder()
		m.ServeHTTP(w, httptest.NewRequest("GET", "/teapot", nil))

		if w.Code != http.StatusTeapot {
			t.Fatalf("Unexpected status %d", w.Code)
		}
		if body := w.Body.String(); body != "Error: no coffee" {
			t.Fatalf("Unexpected body %q", body)
		}
	})

	t.Run("ErrorRenderer", func(t *testing.T) {
		m.SetErrorRenderer(func(r *Request, err error) (Render, error) {
			return Render{Body: template.HTML("oops: " + err.Error())}, nil
		})
		defer m.SetErrorRenderer(nil)

		w := httptest.NewRecorder()
		m.ServeHTTP(w, httptest.NewRequest("GET", "/teapot", nil))

		if w.Code != http.StatusTeapot {
			t.Fatalf("Unexpected status %d", w.Code)
		}
		if body := w.Body.String(); !strings.Contains(body, "oops: no coffee") {
			t.Fatalf("Missing error body in %q", body)
		}
	})

	t.Run("BrokenErrorRenderer", func(t *testing.T) {
		m.SetErrorRenderer(func(r *Request, err error) (Render, error) {
			return Empty, errors.New("broken")
		})
		defer m.SetErrorRenderer(nil)

		w := httptest.NewRecorder()
		m.ServeHTTP(w, httptest.NewRequest("GET", "/teapot", nil))

		if w.Code != http.StatusTeapot {
			t.Fatalf("Unexpected status %d", w.Code)
		}
		if w.Body.Len() != 0 {
			t.Fatalf("Unexpected body %q", w.Body.String())
		}
	})
}

func TestMinifyHTML(t *testing.T) {
	const in = "<div>\n\t<div>Jane Doe</div>\n\t<div> • </div>\n</div>"

	out, err := minifier.String("text/html", in)
	if err != nil {
		t.Fatal("Failed to minify:", err)
	}

	if strings.Contains(out, "\t") {
		t.Fatalf("Indentation kept in %q", out)
	}
	if !strings.Contains(out, "Jane Doe") || !strings.Contains(out, "•") {
		t.Fatalf("Content lost in %q", out)
	}
}

func TestFormatTitle(t *testing.T) {
	var tests = []struct {
		page, site, expect string
	}{
		{"", "Site", "Site"},
		{"Page", "", "Page"},
		{"Page", "Site", "Page - Site"},
	}

	for _, test := range tests {
		var ctx renderCtx
		ctx.Render.Title = test.page
		ctx.Site.Title = test.site

		if title := ctx.FormatTitle(); title != test.expect {
			t.Errorf("Unexpected title %q, expected %q", title, test.expect)
		}
	}
}
