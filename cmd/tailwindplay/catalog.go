// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect utility catalog datasets",
	}
	cmd.AddCommand(newCatalogLintCmd())
	return cmd
}

func newCatalogLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [file]",
		Short: "Validate a catalog file (JSON or YAML), or the built-in one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			cat, err := loadCatalog(path)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tFUNCTIONS\tEXAMPLES")
			examples := 0
			for _, c := range cat.List() {
				n := 0
				for _, fn := range c.Functions {
					n += len(fn.Examples)
				}
				examples += n
				fmt.Fprintf(w, "%s\t%d\t%d\n", c.ID, len(c.Functions), n)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d categories, %d functions, %d examples\n",
				len(cat.List()), cat.FunctionCount(), examples)
			return nil
		},
	}
}
