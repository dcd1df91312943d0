// Package sitemeta holds the site-wide metadata record. It is loaded once at
// startup and handed to whatever renders pages; nothing here is mutated
// afterwards.
package sitemeta

import (
	"net/url"

	"github.com/pkg/errors"
)

type Metadata struct {
	Title       string `toml:"title"`
	Author      string `toml:"author"`
	HeaderTitle string `toml:"headerTitle"`
	Description string `toml:"description"`
	Language    string `toml:"language"`
	SiteURL     string `toml:"siteUrl"`
	SiteRepo    string `toml:"siteRepo"`

	origin *url.URL
}

func NewConfig() Metadata {
	return Metadata{
		Title:    "Blog",
		Language: "en-us",
	}
}

// Validate checks the site URL and fills in derived fields. An empty author is
// allowed.
func (m *Metadata) Validate() error {
	if m.HeaderTitle == "" {
		m.HeaderTitle = m.Title
	}

	m.origin = nil

	if m.SiteURL == "" {
		return nil
	}

	u, err := url.Parse(m.SiteURL)
	if err != nil {
		return errors.Wrap(err, "Failed to parse value of `siteUrl'")
	}

	if !u.IsAbs() || u.Host == "" {
		return errors.Errorf("Field `siteUrl' is not an absolute URL: %q", m.SiteURL)
	}

	m.origin = u
	return nil
}

// Origin returns the parsed site URL, or nil if the site URL is not set or
// Validate has not been called.
func (m Metadata) Origin() *url.URL {
	return m.origin
}
