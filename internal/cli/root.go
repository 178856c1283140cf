// Package cli provides the Cobra command structure for mdterm.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdterm/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// options collects the flag values of the root command.
type options struct {
	paginate   bool
	noPager    bool
	noColour   bool
	ansiOnly   bool
	columns    int
	localOnly  bool
	failFast   bool
	theme      string
	dumpEvents bool
	detectOnly bool
	configPath string
	debug      bool
}

// NewRootCommand creates the root mdterm command.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "mdterm [flags] [files...]",
		Short: "Render Markdown nicely in the terminal",
		Long: `mdterm renders CommonMark and GitHub Flavored Markdown directly in the
terminal: colored headings, syntax highlighted code blocks, clickable
hyperlinks and inline images on terminals that support them.

Reads the given files, or standard input when no file is given or a file
is "-".`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.paginate, "paginate", "p", false, "pipe output through a pager")
	flags.BoolVarP(&opts.noPager, "no-pager", "P", false, "never use a pager")
	flags.BoolVarP(&opts.noColour, "no-colour", "c", false, "disable all ANSI styling")
	flags.BoolVar(&opts.ansiOnly, "ansi-only", false,
		"use plain ANSI styling only, without hyperlinks and images")
	flags.IntVar(&opts.columns, "columns", 0, "output width (0 = detect)")
	flags.BoolVarP(&opts.localOnly, "local", "l", false, "render local images only")
	flags.BoolVar(&opts.failFast, "fail", false, "abort on the first file that fails")
	flags.StringVar(&opts.theme, "theme", "", "color theme name")
	flags.BoolVar(&opts.dumpEvents, "dump-events", false, "dump parse events instead of rendering")
	flags.BoolVar(&opts.detectOnly, "detect-only", false, "print detected terminal capabilities and exit")
	_ = flags.MarkHidden("dump-events")
	_ = flags.MarkHidden("detect-only")

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
