package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"impractical.co/components"
)

func listCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the components the config file declares",
		Long: `List the components the config file declares, in alphabetical order.

With --verbose, each component's full declaration is printed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := flags.engine()
			if err != nil {
				return err
			}
			return listComponents(cmd.OutOrStdout(), engine.Registry(), flags.verbose)
		},
	}
}

func listComponents(w io.Writer, registry *components.Registry, verbose bool) error {
	dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	for _, name := range registry.Names() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
		if !verbose {
			continue
		}
		comp, err := registry.Get(name)
		if err != nil {
			return err
		}
		dumper.Fdump(w, comp)
	}
	return nil
}
