package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/yaml"
	"github.com/urfave/cli/v2"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write the default configuration file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing file",
			},
		},
		Action: func(c *cli.Context) error {
			path := c.String("config")
			if path == "" {
				path = yaml.DefaultPath()
			}

			_, err := os.Stat(path)
			switch {
			case err == nil && !c.Bool("force"):
				return fmt.Errorf("init: %s already exists (use --force to overwrite)", path)
			case err != nil && !errors.Is(err, os.ErrNotExist):
				return fmt.Errorf("init: %w", err)
			}

			if err := yaml.Save(path, trickle.DefaultConfig()); err != nil {
				return fmt.Errorf("init: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
			return nil
		},
	}
}
