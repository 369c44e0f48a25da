package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

func modelsCommand(env environment) *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List configured models; the selected one is marked with *",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c, env)
			if err != nil {
				return err
			}
			registry, err := cfg.Registry()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			selected := registry.Selected().Name
			w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			for _, m := range registry.Models() {
				mark := " "
				if m.Name == selected {
					mark = "*"
				}
				fmt.Fprintf(w, "%s %s\t%s\n", mark, m.Name, m.DisplayName())
			}
			return w.Flush()
		},
	}
}
