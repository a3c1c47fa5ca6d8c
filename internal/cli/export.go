package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/playbookforge/pkg/export"
	"github.com/matzehuels/playbookforge/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags     convertFlags
		formats   string
		output    string
		direction string
		detailed  bool
	)

	cmd := &cobra.Command{
		Use:   "export [file|-]",
		Short: "Convert a runbook and export it",
		Long: fmt.Sprintf(`Convert a runbook and export the graph.

Formats: %s. Several formats may be given separated by commas; each is
written next to --output (or the source file name) with its own extension.
A single text format without --output is printed to stdout.`, strings.Join(export.Names(), ", ")),
		Example: `  # Mermaid back out to stdout
  playbookforge export deploy.md --format mermaid

  # SVG and PNG, left to right
  playbookforge export deploy.md --format svg,png --direction LR -o deploy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			content, name, err := readSource(cmd.InOrStdin(), args, c.cfg.Limits.MaxInputBytes)
			if err != nil {
				return err
			}

			opts := flags.options(c, content)
			opts.Formats = parseFormats(formats)
			opts.Direction = direction
			opts.Detailed = detailed
			opts.Logger = loggerFromContext(ctx)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(loggerFromContext(ctx))
			spinner := newSpinnerWithContext(ctx, "Exporting "+strings.Join(opts.Formats, ", ")+"...")
			spinner.Start()
			result, err := runner.Execute(ctx, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			if stdout, ok := singleTextFormat(opts, output); ok {
				return writeOutput(cmd.OutOrStdout(), "", result.Artifacts[stdout])
			}

			paths := exportPaths(opts.Formats, output, name)
			for _, f := range opts.Formats {
				if err := writeOutput(nil, paths[f], result.Artifacts[f]); err != nil {
					return err
				}
			}

			printSuccess("Exported %s", name)
			for _, f := range opts.Formats {
				printFile(paths[f])
			}
			printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.ConvertHit && result.CacheInfo.RenderHit)
			prog.done(fmt.Sprintf("Exported %d format(s)", len(opts.Formats)))
			return nil
		},
	}

	flags.register(cmd, "from", "")
	cmd.Flags().StringVarP(&formats, "format", "t", string(pipeline.DefaultFormat), "export formats, comma-separated")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or file stem for several formats")
	cmd.Flags().StringVarP(&direction, "direction", "d", pipeline.DefaultDirection, "graph direction for dot/svg/png: TB, LR, BT or RL")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node metadata in dot/svg/png labels")
	return cmd
}

// singleTextFormat reports whether the export goes to stdout: one text
// format and no --output.
func singleTextFormat(opts pipeline.Options, output string) (string, bool) {
	if output != "" || len(opts.Formats) != 1 {
		return "", false
	}
	f := export.Format(opts.Formats[0])
	if f.Binary() {
		return "", false
	}
	return string(f), true
}

// exportPaths maps each format to its output path. A single format with an
// explicit --output is written there verbatim; otherwise the stem of
// --output (or of the source name) gets the format's extension.
func exportPaths(formats []string, output, source string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}

	stem := sourceBase(source)
	if output != "" {
		stem = strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, f := range formats {
		paths[f] = stem + "." + export.Format(f).Extension()
	}
	return paths
}
