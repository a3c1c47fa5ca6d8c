package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/playbookforge/pkg/buildinfo"
	"github.com/matzehuels/playbookforge/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent pre-run loads the configuration, raises the log level for
// --verbose and, in verbose mode, routes conversion, cache and HTTP events
// through the CLI logger.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Playbookforge turns runbooks into flowchart graphs",
		Long:         `Playbookforge converts structured markdown runbooks and Mermaid flowcharts into a common node/edge graph, exports it to JSON, Mermaid, markdown, DOT, SVG or PNG, and serves the same pipeline over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))

			if err := c.loadConfig(); err != nil {
				return err
			}
			if c.verbose {
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetConvertHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a TOML config file")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.formatsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
