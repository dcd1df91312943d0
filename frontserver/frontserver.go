package frontserver

import (
	"net/http"

	"github.com/abderrahimal/blog/frontserver/pages/errorpage"
	"github.com/abderrahimal/blog/frontserver/pages/home"
	"github.com/abderrahimal/blog/frontserver/render"
	"github.com/pkg/errors"
)

type FrontConfig struct {
	render.Config
}

func NewConfig() FrontConfig {
	return FrontConfig{
		Config: render.NewConfig(),
	}
}

func (c *FrontConfig) Validate() error {
	return errors.Wrap(c.Config.Validate(), "Invalid site metadata")
}

// New validates the config and creates the frontend handler.
func New(cfg FrontConfig) (*render.Mux, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := render.NewMux(cfg.Config)
	r.SetErrorRenderer(errorpage.RenderError)
	r.NotFound(errorpage.NotFound)
	r.Get("/", home.Render)

	return r, nil
}

var _ http.Handler = (*render.Mux)(nil)
