package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/playbookforge/pkg/convert"
	"github.com/matzehuels/playbookforge/pkg/graph"
	"github.com/matzehuels/playbookforge/pkg/pipeline"
)

// convertFlags holds the source flags shared by convert, export and inspect.
type convertFlags struct {
	format  string
	title   string
	noCache bool
	refresh bool
}

// register adds the flags to cmd. The source format flag is named by
// formatFlag since export uses --format for its output.
func (f *convertFlags) register(cmd *cobra.Command, formatFlag, shorthand string) {
	cmd.Flags().StringVarP(&f.format, formatFlag, shorthand, "auto", "source format: auto, markdown or mermaid")
	cmd.Flags().StringVar(&f.title, "title", "", "override the extracted title")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached graphs and convert again")
}

// options builds pipeline options for content using the configured limits.
func (f *convertFlags) options(c *CLI, content string) pipeline.Options {
	return pipeline.Options{
		Content:       content,
		Format:        f.format,
		Title:         f.title,
		MaxInputBytes: c.cfg.Limits.MaxInputBytes,
		MaxNodes:      c.cfg.Limits.MaxNodes,
		MaxEdges:      c.cfg.Limits.MaxEdges,
		Refresh:       f.refresh,
	}
}

// convertSource reads args and runs the conversion stage.
func (c *CLI) convertSource(cmd *cobra.Command, args []string, flags *convertFlags) (*pipeline.Result, *pipeline.Runner, string, error) {
	content, name, err := readSource(cmd.InOrStdin(), args, c.cfg.Limits.MaxInputBytes)
	if err != nil {
		return nil, nil, name, err
	}

	runner, err := c.newRunner(cmd.Context(), flags.noCache)
	if err != nil {
		return nil, nil, name, err
	}

	result, err := runner.Convert(cmd.Context(), flags.options(c, content))
	if err != nil {
		runner.Close()
		return nil, nil, name, err
	}
	return result, runner, name, nil
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		flags  convertFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Convert a runbook to graph JSON",
		Long: `Convert a markdown runbook or Mermaid flowchart into graph JSON.

The source format is detected from the content unless --format is given.
Reads standard input when no file or "-" is given.`,
		Example: `  # Convert a runbook and print the graph
  playbookforge convert deploy.md

  # Force the mermaid converter and write to a file
  playbookforge convert flow.mmd --format mermaid -o flow.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, runner, name, err := c.convertSource(cmd, args, &flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			var buf bytes.Buffer
			if err := graph.WriteGraph(result.Graph, &buf); err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes()); err != nil {
				return err
			}

			if output != "" {
				printSuccess("Converted %s (%s)", name, result.Format)
				printFile(output)
				printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.ConvertHit)
				printNextStep("Render it", fmt.Sprintf("%s export %s --format svg", appName, name))
			}
			return nil
		},
	}

	flags.register(cmd, "format", "f")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// detectCommand creates the detect command.
func (c *CLI) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file|-]",
		Short: "Print the detected source format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, _, err := readSource(cmd.InOrStdin(), args, c.cfg.Limits.MaxInputBytes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), convert.Detect(content))
			return nil
		},
	}
}
