package home

import (
	_ "embed"
	"net/http"

	"github.com/abderrahimal/blog/frontserver/render"
	"github.com/abderrahimal/blog/httperr"

	// Components
	"github.com/abderrahimal/blog/frontserver/components/footer"
)

//go:embed home.html
var homeHTML string

//go:embed home.css
var homeCSS string

func init() {
	render.RegisterCSS("pages/home", homeCSS)
}

var tmpl = render.BuildPage("home", render.Page{
	Template: homeHTML,
	Components: map[string]render.Component{
		"footer": footer.Component,
	},
})

type renderCtx struct {
	render.CommonCtx
}

func Render(r *render.Request) (render.Render, error) {
	return renderPage(tmpl, r)
}

func renderPage(t *render.Template, r *render.Request) (render.Render, error) {
	body, err := t.TryRender(renderCtx{
		CommonCtx: r.CommonCtx,
	})
	if err != nil {
		return render.Empty, httperr.Wrap(err, http.StatusInternalServerError, "Failed to render home")
	}

	return render.Render{Body: body}, nil
}
