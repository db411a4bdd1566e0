package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"swimpipe/internal/layout"
)

// newConvertCmd translates a source file between the two supported dialects
// and prints the result on stdout. Useful for inspecting what the pipeline
// actually sees after normalization.
func newConvertCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a source file between the LT2 and LT4 dialects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := layout.Load(args[0])
			if err != nil {
				return err
			}
			var out any
			switch strings.ToLower(target) {
			case "lt4":
				out = doc
			case "lt2":
				lt2, err := layout.ToLT2(doc)
				if err != nil {
					return err
				}
				out = lt2
			default:
				return fmt.Errorf("unknown target dialect %q (lt2 or lt4)", target)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVarP(&target, "to", "t", "lt4", "target dialect (lt2 or lt4)")
	return cmd
}
