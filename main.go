package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abderrahimal/blog/frontserver"
	"github.com/abderrahimal/blog/frontserver/components/footer"
	"github.com/abderrahimal/blog/sitemeta"
	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/net/http2"
)

var (
	configGlob = "./config*.toml"
)

func stderrlnf(f string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", v...)
}

type Config struct {
	// ListenAddress is a TCP address, or unix:/path for a Unix socket.
	ListenAddress string `toml:"listenAddress"`
	SocketPerm    string `toml:"socketPerm"`

	Site sitemeta.Metadata `toml:"site"`
}

func NewConfig() Config {
	return Config{
		ListenAddress: ":8080",
		Site:          sitemeta.NewConfig(),
	}
}

func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return errors.New("Field `listenAddress' missing")
	}

	if c.SocketPerm != "" {
		if _, err := strconv.ParseUint(c.SocketPerm, 8, 32); err != nil {
			return errors.Wrap(err, "Failed to parse value of `socketPerm' in octal")
		}
	}

	return errors.Wrap(c.Site.Validate(), "Invalid [site]")
}

func (c Config) FrontConfig() frontserver.FrontConfig {
	f := frontserver.NewConfig()
	f.Site = c.Site
	return f
}

func init() {
	pflag.StringVarP(
		&configGlob, "config", "c", configGlob,
		"Path to config file with glob support for fallback",
	)

	pflag.Usage = func() {
		stderrlnf("Usage: %s [subcommand] [flags...]", filepath.Base(os.Args[0]))
		stderrlnf("Subcommands:")
		stderrlnf("  footer         Print the site footer as HTML")
		stderrlnf("  serve          Run the HTTP server")
		stderrlnf("Flags:")
		pflag.PrintDefaults()
	}
}

func main() {
	pflag.Parse()

	// Read all globs.
	d, err := filepath.Glob(configGlob)
	if err != nil {
		log.Fatalln("Failed to glob:", err)
	}

	if len(d) == 0 {
		log.Println("Glob returns no matches, using the default config.")
	}

	var cfg = NewConfig()

	for _, path := range d {
		f, err := ioutil.ReadFile(path)
		if err != nil {
			log.Fatalln("Failed to read globbed config file:", err)
		}

		if err := toml.Unmarshal(f, &cfg); err != nil {
			log.Fatalln("Failed to unmarshal from TOML:", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalln("Config error:", err)
	}

	switch pflag.Arg(0) {
	case "footer":
		fmt.Println(footer.Render(cfg.Site, time.Now()))

	case "serve", "":
		if err := serve(cfg); err != nil {
			log.Fatalln(err)
		}

	default:
		pflag.Usage()
		os.Exit(2)
	}
}

func listen(cfg Config) (net.Listener, error) {
	if !strings.HasPrefix(cfg.ListenAddress, "unix:") {
		return net.Listen("tcp", cfg.ListenAddress)
	}

	var path = strings.TrimPrefix(cfg.ListenAddress, "unix:")

	// Ensure that the socket is cleaned up because we're not gracefully
	// handling closes.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "Failed to clean up old socket")
	}

	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}

	if cfg.SocketPerm != "" {
		// Validate already checked this.
		o, _ := strconv.ParseUint(cfg.SocketPerm, 8, 32)

		if err := os.Chmod(path, os.FileMode(o)); err != nil {
			l.Close()
			return nil, errors.Wrap(err, "Failed to chmod socket")
		}
	}

	return l, nil
}

func serve(cfg Config) error {
	f, err := frontserver.New(cfg.FrontConfig())
	if err != nil {
		return errors.Wrap(err, "Failed to create frontend")
	}

	c := middleware.NewCompressor(5, "text/html", "text/css")
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})

	mux := chi.NewMux()
	mux.Use(middleware.Logger)
	mux.Use(middleware.Recoverer)
	mux.Use(c.Handler)
	mux.Mount("/", f)

	l, err := listen(cfg)
	if err != nil {
		return errors.Wrap(err, "Failed to listen")
	}

	var server = http.Server{
		Handler: mux,
	}

	// Explicitly set up HTTP/2.
	err = http2.ConfigureServer(&server, &http2.Server{
		MaxHandlers:          4096,
		MaxConcurrentStreams: 1024,
	})

	if err != nil {
		return errors.Wrap(err, "Failed to configure HTTP/2 server")
	}

	log.Println("Listening to", l.Addr())

	go func() {
		if err := server.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Fatalln("Failed to serve:", err)
		}
	}()

	// Handle SIGINT and gracefully close the server.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	// Give the server a 10 seconds timeout for shutting down.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return errors.Wrap(server.Shutdown(ctx), "Failed to gracefully close the server")
}
