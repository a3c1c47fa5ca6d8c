package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/playbookforge/pkg/convert"
	"github.com/matzehuels/playbookforge/pkg/export"
)

// formatsCommand creates the formats command.
func (c *CLI) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List source and export formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writeFormats(cmd.OutOrStdout())
			return nil
		},
	}
}

func writeFormats(w io.Writer) {
	fmt.Fprintln(w, StyleTitle.Render("Source formats"))
	for _, conv := range convert.Converters() {
		fmt.Fprintln(w, keyValue(string(conv.Format), conv.Description))
		fmt.Fprintln(w, keyValue("", StyleDim.Render(conv.Detection)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Export formats"))
	for _, f := range export.Formats {
		fmt.Fprintln(w, keyValue(string(f), StyleHighlight.Render(f.ContentType())))
	}
}
