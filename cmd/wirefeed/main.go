// Package main provides the wirefeed CLI entry point.
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/wirefeed/internal/aggregator"
	"github.com/gauthierbraillon/wirefeed/internal/config"
	"github.com/gauthierbraillon/wirefeed/internal/display"
	"github.com/gauthierbraillon/wirefeed/internal/logger"
	"github.com/gauthierbraillon/wirefeed/internal/normalize"
	"github.com/gauthierbraillon/wirefeed/internal/publish"
	"github.com/gauthierbraillon/wirefeed/internal/sanitize"
	"github.com/gauthierbraillon/wirefeed/internal/scroll"
	"github.com/gauthierbraillon/wirefeed/internal/server"
	"github.com/gauthierbraillon/wirefeed/internal/source"
	"github.com/gauthierbraillon/wirefeed/internal/wordpress"
	"github.com/gauthierbraillon/wirefeed/pkg/browser"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(ldflags string, info *debug.BuildInfo) string {
	if ldflags != "dev" {
		return ldflags
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func buildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

// load reads the configuration and initializes logging.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath, o.envFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRootCmd creates the root command for wirefeed CLI.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "wirefeed",
		Short: "RSS feeds for The Wire and the Scroll newsletter",
		Long: "Wirefeed turns The Wire's WordPress API and the Scroll newsletter page into RSS 2.0 feeds,\n" +
			"either on demand over HTTP (serve) or as a static site (generate).",
		Version:      resolveVersion(version, buildInfo()),
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("wirefeed version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("WIREFEED_CONFIG"), "Path to a YAML config file (env WIREFEED_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to a .env file; ignored when missing")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// newAssembler wires the source clients, normalizers and renderer. Both
// clients share one connection pool.
func newAssembler(cfg *config.Config, timeout time.Duration, placeholderURL string) (*aggregator.Assembler, error) {
	san, err := sanitize.New(cfg.Feed.Sanitizer)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	wire := source.WireProfile().WithPlaceholder(placeholderURL)
	newsletter := source.ScrollProfile()

	wp := wordpress.NewClient(
		wordpress.WithHTTPClient(httpClient),
		wordpress.WithBaseURL(cfg.Sources.WordPressURL),
		wordpress.WithUserAgent(wire.UserAgent),
		wordpress.WithTimeout(timeout),
	)
	sc := scroll.NewClient(
		scroll.WithHTTPClient(httpClient),
		scroll.WithBaseURL(cfg.Sources.ScrollURL),
		scroll.WithUserAgent(newsletter.UserAgent),
		scroll.WithTimeout(timeout),
	)

	a := aggregator.New(wp, sc, normalize.New(wire, san), normalize.New(newsletter, san))
	a.Limit = cfg.Feed.Limit
	return a, nil
}

// newServeCmd creates the serve subcommand.
func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve feeds on demand over HTTP",
		Long: "Start an HTTP server answering /feed, /feed/{category} and /scroll.\n" +
			"Every request fetches fresh data from upstream.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			a, err := newAssembler(cfg, cfg.ServerTimeout(), cfg.BaseURL+"/"+publish.PlaceholderName)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a, cfg.BaseURL)
			return srv.Run(ctx, cfg.Server.Addr, func(bound net.Addr) {
				url := publicURL(cfg.BaseURL, bound)
				fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", url)
				if open {
					if err := browser.Open(url); err != nil {
						logger.Warnf("could not open browser: %v", err)
					}
				}
			})
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":5000", "Listen address")
	cmd.Flags().BoolVar(&open, "open", false, "Open the index page in the browser")

	return cmd
}

// publicURL is the base URL when configured, otherwise the local listener.
func publicURL(baseURL string, bound net.Addr) string {
	if baseURL != "" {
		return baseURL
	}
	host, port, err := net.SplitHostPort(bound.String())
	if err != nil {
		return "http://" + bound.String()
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// newGenerateCmd creates the generate subcommand.
func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var out string
	var newsletter bool
	var open bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write feeds to a static site directory",
		Long: "Fetch once and write feed.xml, one {slug}.xml per category with more than\n" +
			"the configured number of posts, index.html, placeholder.png and scroll.xml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.Generate.OutputDir = out
			}

			a, err := newAssembler(cfg, cfg.GenerateTimeout(), publish.FeedURL(cfg.BaseURL, publish.PlaceholderName))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			start := time.Now()
			site := publish.Site{Dir: cfg.Generate.OutputDir}
			rep, genErr := publish.Generate(ctx, a, site, publish.Options{
				BaseURL:          cfg.BaseURL,
				MinCategoryPosts: cfg.Feed.MinCategoryPosts,
				Newsletter:       newsletter,
			})

			formatter := display.NewTerminalFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(rep.Written, rep.Skipped, time.Since(start)))
			if genErr != nil {
				return genErr
			}

			if open {
				index, err := browser.FileURL(filepath.Join(site.Dir, "index.html"))
				if err == nil {
					err = browser.Open(index)
				}
				if err != nil {
					logger.Warnf("could not open browser: %v", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "public", "Output directory")
	cmd.Flags().BoolVar(&newsletter, "newsletter", true, "Also generate scroll.xml")
	cmd.Flags().BoolVar(&open, "open", false, "Open index.html in the browser when done")

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Print the configuration after applying the config file, .env, environment and defaults.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			file := opts.configPath
			if file == "" {
				file = "(none)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", file)
			fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}

	return cmd
}
