// Command trickle is a terminal chat client for OpenAI-compatible
// chat-completions endpoints. Replies are streamed and rendered as they
// arrive.
//
// Usage:
//
//	TRICKLE_API_KEY=sk-... trickle [global flags] [command]
//
// Commands:
//
//	chat      Interactive chat (default)
//	ask       Stream a single answer to stdout
//	models    List configured models
//	init      Write a default configuration file
//
// Configuration is read from ~/.trickle/config.yaml when present. Flags
// override the environment, which overrides the file.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"

	"github.com/fwojciec/trickle"
	tricklehttp "github.com/fwojciec/trickle/http"
	"github.com/fwojciec/trickle/openai"
	"github.com/fwojciec/trickle/yaml"
	"github.com/urfave/cli/v2"
)

func main() {
	// Env vars are read here and passed as values.
	env := environment{
		apiKey: os.Getenv("TRICKLE_API_KEY"),
		apiURL: os.Getenv("TRICKLE_API_URL"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(env).RunContext(ctx, os.Args); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "trickle: %v\n", err)
		os.Exit(1)
	}
}

// environment holds the settings taken from environment variables.
type environment struct {
	apiKey string
	apiURL string
}

func newApp(env environment) *cli.App {
	return &cli.App{
		Name:  "trickle",
		Usage: "Stream chat completions in the terminal",
		Flags: globalFlags(),
		Commands: []*cli.Command{
			chatCommand(env),
			askCommand(env),
			modelsCommand(env),
			initCommand(),
		},
		Action: chatAction(env),
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file (default: ~/.trickle/config.yaml)",
		},
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "Chat-completions endpoint URL",
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "API key sent as a bearer token",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Model to select; unknown names are added to the registry",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Fail the request on malformed payload instead of skipping it",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: `Log destination: a file path, "stderr" or "discard"`,
		},
	}
}

// loadConfig reads the configuration file and applies the environment and
// flag overrides, in that order.
func loadConfig(c *cli.Context, env environment) (trickle.Config, error) {
	cfg, err := yaml.Load(c.String("config"))
	if err != nil {
		return trickle.Config{}, err
	}

	if env.apiURL != "" {
		cfg.Endpoint.URL = env.apiURL
	}
	if env.apiKey != "" {
		cfg.Endpoint.APIKey = env.apiKey
	}

	// Models with their own endpoint are not affected by these overrides.
	if c.IsSet("api-url") {
		cfg.Endpoint.URL = c.String("api-url")
	}
	if c.IsSet("api-key") {
		cfg.Endpoint.APIKey = c.String("api-key")
	}
	if name := c.String("model"); name != "" {
		if !slices.ContainsFunc(cfg.Models, func(m trickle.Model) bool { return m.Name == name }) {
			cfg.Models = append(cfg.Models, trickle.Model{Name: name})
		}
		cfg.DefaultModel = name
	}
	if c.Bool("strict") {
		cfg.Validation = trickle.ValidationStrict
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.Log.File = c.String("log-file")
	}

	if err := cfg.Validate(); err != nil {
		return trickle.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// newController builds a stream controller for one endpoint. Only the wait
// for response headers is bounded; the body streams for as long as the
// model generates.
func newController(ep trickle.EndpointConfig, mode trickle.ValidationMode, opts ...tricklehttp.Option) *tricklehttp.Controller {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = ep.HeaderTimeout

	base := []tricklehttp.Option{
		tricklehttp.WithHTTPClient(&http.Client{Transport: transport}),
		tricklehttp.WithExtractor(openai.Extractor{}),
		tricklehttp.WithValidation(mode),
	}
	desc := openai.NewDescriptor(ep.URL, ep.APIKey)
	return tricklehttp.New(desc, append(base, opts...)...)
}
