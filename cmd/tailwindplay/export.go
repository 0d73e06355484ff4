// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"tailwindplay/internal/preview"
)

type exportOptions struct {
	htmlFile  string
	cssFile   string
	output    string
	scriptURL string
	clipboard bool
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build a standalone HTML document from local HTML and CSS files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.htmlFile, "html", "", "HTML file used as the document body (required)")
	cmd.Flags().StringVar(&opts.cssFile, "css", "", "CSS file inlined into the head")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to this file instead of stdout (e.g. "+preview.ExportFilename+")")
	cmd.Flags().StringVar(&opts.scriptURL, "script-url", preview.DefaultScriptURL, "Tailwind build referenced by the document")
	cmd.Flags().BoolVar(&opts.clipboard, "clipboard", false, "Copy the document to the system clipboard")
	cmd.MarkFlagRequired("html")

	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOptions) error {
	html, err := os.ReadFile(opts.htmlFile)
	if err != nil {
		return fmt.Errorf("read html: %w", err)
	}
	var css []byte
	if opts.cssFile != "" {
		if css, err = os.ReadFile(opts.cssFile); err != nil {
			return fmt.Errorf("read css: %w", err)
		}
	}

	doc := preview.Standalone(string(html), string(css), opts.scriptURL)

	if opts.clipboard {
		if err := writeClipboard(doc); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
		if opts.output == "" {
			return nil
		}
	}

	switch opts.output {
	case "", "-":
		_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	default:
		if err := os.WriteFile(opts.output, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.output)
		return nil
	}
}
