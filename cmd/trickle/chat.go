package main

import (
	"fmt"

	"github.com/fwojciec/trickle"
	bt "github.com/fwojciec/trickle/bubbletea"
	tricklehttp "github.com/fwojciec/trickle/http"
	"github.com/fwojciec/trickle/logging"
	"github.com/fwojciec/trickle/openai"
	"github.com/urfave/cli/v2"
)

func chatCommand(env environment) *cli.Command {
	return &cli.Command{
		Name:   "chat",
		Usage:  "Chat interactively (default)",
		Action: chatAction(env),
	}
}

func chatAction(env environment) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c, env)
		if err != nil {
			return err
		}
		registry, err := cfg.Registry()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}

		logger, closer, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger.Info("chat started", "url", cfg.Endpoint.URL, "model", registry.Selected().Name)

		streamer := newRouter(cfg, tricklehttp.WithLogger(logger))
		conv := trickle.NewReconciler(trickle.WithGreeting(cfg.Greeting))
		build := func(model string, history []trickle.ChatMessage) any {
			return openai.NewRequest(model, history)
		}

		m := bt.New(streamer, build, conv, registry, trickle.DefaultTheme())
		if err := bt.Run(c.Context, m); err != nil {
			return fmt.Errorf("TUI: %w", err)
		}
		return nil
	}
}
