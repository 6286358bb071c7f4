package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/pkg/demo"
	"github.com/vango-dev/reactor/pkg/view"
)

func demoCmd(c *cli) *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "demo [script]",
		Short: "Run the counter page from a script",
		Long: `Run the counter page and drive it with a script, one command per line.
The script is read from the named file, or from stdin when omitted or "-".

Commands:
  reset | inc | columns | add | bump <id> | remove <id>
  name <text> | email <text> | submit
  unmount-email | mount-email | render

Lines starting with # are comments.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runDemo(c, in, cmd.OutOrStdout(), render)
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "print the page after the script finishes")
	return cmd
}

func runDemo(c *cli, in io.Reader, out io.Writer, render bool) error {
	app, err := demo.New(c.runtime(), demoConfig(c))
	if err != nil {
		return err
	}
	defer app.Close()

	if err := demo.RunScript(app, in, out); err != nil {
		return err
	}
	if render {
		return view.Render(out, app.View())
	}
	return nil
}

func demoConfig(c *cli) demo.Config {
	return demo.Config{
		InitialLength:  c.cfg.Demo.InitialLength,
		StaticElements: c.cfg.Demo.StaticElements,
		ProgressMax:    c.cfg.Demo.ProgressMax,
		Logger:         c.logger,
	}
}
