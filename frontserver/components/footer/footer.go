package footer

import (
	_ "embed"
	"html/template"
	"time"

	"github.com/abderrahimal/blog/frontserver/components/link"
	"github.com/abderrahimal/blog/frontserver/render"
	"github.com/abderrahimal/blog/sitemeta"
)

const (
	// ThemeURL is where the site's theme comes from.
	ThemeURL = "https://github.com/timlrx/tailwind-nextjs-starter-blog"
	// SourceURL is where the site's own source lives.
	SourceURL = "https://github.com/AbderrahimAl/Blog/"
)

//go:embed footer.html
var footerHTML string

//go:embed footer.css
var footerCSS string

func init() {
	render.RegisterCSS("components/footer", footerCSS)
}

// Component expects a dot with Site and Now fields, which render.CommonCtx
// has.
var Component = render.Component{
	Template: footerHTML,
	Functions: template.FuncMap{
		"footerView": NewView,
	},
}

var standalone = render.BuildPage("standalone-footer", render.Page{
	Template: `{{ template "footer" . }}`,
	Components: map[string]render.Component{
		"footer": Component,
	},
})

// View is what the footer template displays.
type View struct {
	Author string
	Now    time.Time
	Year   int
}

func NewView(site sitemeta.Metadata, now time.Time) View {
	return View{
		Author: site.Author,
		Now:    now,
		Year:   now.Year(),
	}
}

// ThemeLink links to the theme. Both footer links leave the site even when
// siteUrl shares their origin, so they skip the origin check.
func (v View) ThemeLink() template.HTML {
	return link.External(ThemeURL, template.HTML("<div>Theme by timlrx</div>"))
}

func (v View) SourceLink() template.HTML {
	return link.ExternalText(SourceURL, "Open Source")
}

// Render renders the footer on its own for the given instant.
func Render(site sitemeta.Metadata, now time.Time) template.HTML {
	return standalone.Render(struct {
		Site sitemeta.Metadata
		Now  time.Time
	}{site, now})
}
