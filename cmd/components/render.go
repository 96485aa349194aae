package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		vars     []string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template to stdout",
		Long: `Render a template, with its component dependencies, to stdout.

Variables are passed as key=value pairs and are always strings:

  components render page.html --var title="My Site" --var user=Visitor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := flags.engine()
			if err != nil {
				return err
			}
			if validate {
				return engine.Validate(args[0])
			}
			data := make(map[string]any, len(vars))
			for _, v := range vars {
				key, val, ok := strings.Cut(v, "=")
				if !ok {
					return fmt.Errorf("variable %q should be key=value", v)
				}
				data[key] = val
			}
			ctx := flags.loggingContext(cmd.Context())
			return engine.RenderDocument(ctx, os.Stdout, args[0], data)
		},
	}

	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable, as key=value (repeatable)")
	cmd.Flags().BoolVar(&validate, "validate", false, "only check that the template parses and its components are registered")

	return cmd
}
