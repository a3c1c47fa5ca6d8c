package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags convertFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Browse a converted graph interactively",
		Long: `Convert a runbook and browse its nodes in the terminal.

Use --plain to print the node table without starting the interactive view,
for example when piping or when reading the runbook from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, runner, _, err := c.convertSource(cmd, args, &flags)
			if err != nil {
				return err
			}
			runner.Close()

			g := result.Graph
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), nodeTable(g, 0, len(g.Nodes), -1))
				return nil
			}

			model := NewNodeListModel(g, result.Meta.Title)
			p := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd, "format", "f")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the node table and exit")
	return cmd
}
