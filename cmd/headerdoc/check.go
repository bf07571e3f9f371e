package main

import (
	"fmt"
	"os"

	"headerdoc/internal/generator"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <markdown>",
		Short: "Report table of contents links that match no heading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			outline := generator.ParseOutline(content)
			broken := outline.BrokenAnchors()
			for _, b := range broken {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: broken anchor #%s\n", args[0], b)
			}
			if len(broken) > 0 {
				return fmt.Errorf("%d broken anchor(s) in %s", len(broken), args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d headings, %d links ok\n", args[0], len(outline.Headings), len(outline.Fragments))
			return nil
		},
	}
}
