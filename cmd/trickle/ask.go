package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/trickle"
	tricklehttp "github.com/fwojciec/trickle/http"
	"github.com/fwojciec/trickle/logging"
	"github.com/fwojciec/trickle/openai"
	"github.com/urfave/cli/v2"
)

func askCommand(env environment) *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Stream a single answer to stdout",
		ArgsUsage: "<prompt...>",
		Action:    askAction(env),
	}
}

// askAction prints fragments as they arrive. An interrupt aborts the
// request and leaves the partial answer printed.
func askAction(env environment) cli.ActionFunc {
	return func(c *cli.Context) error {
		prompt := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
		if prompt == "" {
			return errors.New("ask: prompt is required")
		}

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

		out := c.App.Writer
		conv := trickle.NewReconciler()
		streamer := newRouter(cfg,
			tricklehttp.WithLogger(logger),
			tricklehttp.WithEventHandler(func(evt trickle.Event) {
				conv.Apply(evt)
				if p, ok := evt.(trickle.EventPayload); ok {
					fmt.Fprint(out, p.Text)
				}
			}),
		)

		conv.Submit(prompt)
		err = streamer.Execute(c.Context, openai.NewRequest(registry.Selected().Name, conv.Messages()))
		if conv.Len() > 1 {
			fmt.Fprintln(out)
		}
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}
		return nil
	}
}
