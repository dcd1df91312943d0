// Package link renders hyperlinks, telling routes on this site apart from
// links that leave it.
package link

import (
	"bytes"
	"html/template"
	"log"
	"net/url"
	"strings"
)

// Kind is the way a destination is linked to.
type Kind uint8

const (
	// InternalRoute is a destination on this site. It opens in place.
	InternalRoute Kind = iota
	// ExternalAnchor is a destination on another origin. It opens in a new
	// tab without handing over the opener.
	ExternalAnchor
)

func (k Kind) String() string {
	switch k {
	case InternalRoute:
		return "internal"
	case ExternalAnchor:
		return "external"
	default:
		return "unknown"
	}
}

var anchor = template.Must(template.New("link").Parse(
	`{{ if .External }}` +
		`<a href="{{ .Href }}" target="_blank" rel="noopener noreferrer">{{ .Content }}</a>` +
		`{{ else }}` +
		`<a href="{{ .Href }}">{{ .Content }}</a>` +
		`{{ end }}`,
))

// Resolver classifies destinations against the site's origin. The zero value
// has no origin, so only relative destinations are internal.
type Resolver struct {
	Origin *url.URL
}

func NewResolver(origin *url.URL) Resolver {
	return Resolver{Origin: origin}
}

// Kind returns how dest should be linked to.
func (r Resolver) Kind(dest string) Kind {
	if strings.HasPrefix(dest, "#") {
		return InternalRoute
	}

	u, err := url.Parse(dest)
	if err != nil {
		return ExternalAnchor
	}

	if u.Host == "" && u.Scheme == "" {
		return InternalRoute
	}

	if r.Origin == nil {
		return ExternalAnchor
	}

	// Scheme-relative URLs such as //host/path inherit the page's scheme, so
	// only the host is compared.
	if u.Scheme != "" && !strings.EqualFold(u.Scheme, r.Origin.Scheme) {
		return ExternalAnchor
	}

	if strings.EqualFold(u.Host, r.Origin.Host) {
		return InternalRoute
	}

	return ExternalAnchor
}

// Render renders a link to dest around content.
func (r Resolver) Render(dest string, content template.HTML) template.HTML {
	return render(dest, content, r.Kind(dest))
}

// Text is Render with plain text as the content.
func (r Resolver) Text(dest, text string) template.HTML {
	return r.Render(dest, escape(text))
}

// External renders dest as an ExternalAnchor no matter which origin it is on.
func External(dest string, content template.HTML) template.HTML {
	return render(dest, content, ExternalAnchor)
}

// ExternalText is External with plain text as the content.
func ExternalText(dest, text string) template.HTML {
	return External(dest, escape(text))
}

func escape(text string) template.HTML {
	return template.HTML(template.HTMLEscapeString(text))
}

func render(dest string, content template.HTML, kind Kind) template.HTML {
	var b bytes.Buffer

	err := anchor.Execute(&b, struct {
		External bool
		Href     string
		Content  template.HTML
	}{
		External: kind == ExternalAnchor,
		Href:     dest,
		Content:  content,
	})

	if err != nil {
		log.Println("Failed to render link to", dest+":", err)
		return content
	}

	return template.HTML(b.String())
}
