package errorpage

import (
	_ "embed"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abderrahimal/blog/frontserver/components/footer"
	"github.com/abderrahimal/blog/frontserver/render"
	"github.com/abderrahimal/blog/httperr"
)

//go:embed errorpage.html
var errorpageHTML string

//go:embed errorpage.css
var errorpageCSS string

func init() {
	render.RegisterCSS("pages/errorpage", errorpageCSS)
}

var tmpl = render.BuildPage("errorpage", render.Page{
	Template: errorpageHTML,
	Components: map[string]render.Component{
		"footer": footer.Component,
	},
})

type renderCtx struct {
	render.CommonCtx
	Code   int
	Errors [][]string
}

// NotFound renders the page for routes that don't exist.
func NotFound(r *render.Request) (render.Render, error) {
	return render.Render{}, httperr.ErrNotFound
}

func RenderError(r *render.Request, err error) (render.Render, error) {
	return render.Render{
		Title: "Error",
		Body: tmpl.Render(renderCtx{
			CommonCtx: r.CommonCtx,
			Code:      httperr.ErrCode(err),
			Errors:    ErrorLines(err),
		}),
	}, nil
}

// ErrorLines splits the error message into lines of wrapped parts. Every part
// is capitalized, and each line ends with a period.
func ErrorLines(err error) [][]string {
	var lines = strings.Split(err.Error(), "\n")
	var errors = make([][]string, len(lines))

	for i, line := range lines {
		var parts = strings.SplitAfter(line, ": ")

		// Capitalize every single error's first letter.
		for i, err := range parts {
			f, sze := utf8.DecodeRuneInString(err)
			if sze > 0 {
				parts[i] = string(unicode.ToUpper(f)) + err[sze:]
			}

			// Append a period at the end for formality.
			if i == len(parts)-1 && !strings.HasSuffix(parts[i], ".") {
				parts[i] += "."
			}
		}

		errors[i] = parts
	}

	return errors
}
