package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdterm/internal/configloader"
	"github.com/yaklabco/mdterm/internal/logging"
	"github.com/yaklabco/mdterm/internal/ui/theme"
	"github.com/yaklabco/mdterm/pkg/config"
	"github.com/yaklabco/mdterm/pkg/markdown"
	"github.com/yaklabco/mdterm/pkg/render"
	"github.com/yaklabco/mdterm/pkg/resources"
	"github.com/yaklabco/mdterm/pkg/terminal"
)

// runRender is the root command: resolve the configuration, build the
// render settings for the output terminal and render each input.
func runRender(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := configloader.Load(opts.configPath)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	applyFlags(cfg, opts, cmd.Flags())

	t := theme.Default()
	if cfg.Theme != "" {
		t, err = theme.Get(cfg.Theme)
		if err != nil {
			return withExitCode(ExitConfigError, err)
		}
	}
	if cfg.HighlightStyle != "" {
		styled := *t
		styled.HighlightStyle = cfg.HighlightStyle
		t = &styled
	}

	out := cmd.OutOrStdout()
	paginate := opts.paginate && !opts.noPager

	var pager *pagerProc
	if paginate {
		pager, err = startPager(cfg)
		if err != nil {
			return withExitCode(ExitIOError, err)
		}
		out = pager.stdin
	}

	caps := buildCapabilities(out, cfg, opts, paginate)
	size := detectSize(cfg)
	access := resources.LocalOnly
	if cfg.AllowRemote {
		access = resources.RemoteAllowed
	}
	settings := render.NewSettings(caps, size, access, t)

	logging.Default().Debug("resolved terminal",
		logging.FieldTerminal, caps.Name(),
		logging.FieldColumns, size.Columns,
		logging.FieldRows, size.Rows,
		logging.FieldProfile, profileName(caps.ColorProfile()),
		logging.FieldTheme, t.Name,
	)

	if opts.detectOnly {
		printDetected(out, caps, size)
		return closePager(pager)
	}

	files := args
	if len(files) == 0 {
		files = []string{"-"}
	}

	parser := markdown.NewParser()
	failed := 0
	for _, name := range files {
		if err := renderFile(out, settings, parser, name, opts.dumpEvents); err != nil {
			if opts.failFast {
				_ = closePager(pager)
				return err
			}
			logging.Default().Error("render failed",
				logging.FieldInput, name, logging.FieldError, err)
			failed++
		}
	}

	if err := closePager(pager); err != nil {
		return err
	}
	if failed > 0 {
		return withExitCode(ExitRenderErrors,
			fmt.Errorf("%d of %d files failed to render", failed, len(files)))
	}
	return nil
}

// applyFlags overlays explicitly set flags onto the loaded configuration.
// Flags have the highest precedence.
func applyFlags(cfg *config.Config, opts *options, flags *pflag.FlagSet) {
	if flags.Changed("theme") {
		cfg.Theme = opts.theme
	}
	if flags.Changed("columns") {
		cfg.Columns = opts.columns
	}
	if opts.noColour {
		cfg.Color = config.ColorNever
	}
	if opts.localOnly {
		cfg.AllowRemote = false
	}
}

// buildCapabilities resolves the capability set for the output. Full
// detection only happens when styling is on and the user did not restrict
// the output to plain ANSI.
func buildCapabilities(out io.Writer, cfg *config.Config, opts *options, paginate bool) *terminal.Capabilities {
	styled := false
	switch cfg.Color {
	case config.ColorAlways:
		styled = true
	case config.ColorNever:
		styled = false
	default:
		// A pager is expected to pass ANSI through, so -p implies styling
		// even though the pipe is not a terminal.
		styled = paginate || stdoutIsTerminal()
	}

	if !styled {
		return terminal.NewCapabilities(out, terminal.WithStyled(false))
	}
	if opts.ansiOnly {
		return terminal.NewCapabilities(out,
			terminal.WithColorProfile(termenv.EnvColorProfile()))
	}
	return terminal.Detect(out)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// detectSize queries the terminal and applies the configured column
// override on top.
func detectSize(cfg *config.Config) terminal.Size {
	size := terminal.DetectSize(os.Stdout)
	if cfg.Columns > 0 {
		size.Columns = cfg.Columns
	}
	return size
}

func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "256color"
	case termenv.ANSI:
		return "16color"
	default:
		return "monochrome"
	}
}

func printDetected(w io.Writer, caps *terminal.Capabilities, size terminal.Size) {
	fmt.Fprintf(w, "terminal: %s\n", caps.Name())
	fmt.Fprintf(w, "color profile: %s\n", profileName(caps.ColorProfile()))
	fmt.Fprintf(w, "size: %dx%d\n", size.Columns, size.Rows)
	if size.Pixels != nil {
		fmt.Fprintf(w, "pixels: %dx%d\n", size.Pixels.X, size.Pixels.Y)
	}
	fmt.Fprintf(w, "hyperlinks: %t\n", caps.Links != nil)
	fmt.Fprintf(w, "jump marks: %t\n", caps.Marks != nil)
	if caps.Image != nil {
		fmt.Fprintf(w, "images: %s\n", caps.Image.Name())
	} else {
		fmt.Fprintf(w, "images: none\n")
	}
}

// renderFile reads one input, parses it and renders the event stream.
// "-" reads standard input and resolves relative targets against the
// working directory.
func renderFile(w io.Writer, settings *render.Settings, parser *markdown.Parser, name string, dumpEvents bool) error {
	var source []byte
	var baseDir string
	var err error
	if name == "-" {
		source, err = io.ReadAll(os.Stdin)
	} else {
		source, err = os.ReadFile(name)
		baseDir = filepath.Dir(name)
	}
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("read %s: %w", name, err))
	}

	env, err := resources.NewEnvironment(baseDir)
	if err != nil {
		return withExitCode(ExitIOError, err)
	}

	events, err := parser.Parse(source)
	if err != nil {
		return withExitCode(ExitRenderErrors, fmt.Errorf("parse %s: %w", name, err))
	}
	logging.Default().Debug("parsed document",
		logging.FieldInput, name, logging.FieldEvents, len(events))

	if dumpEvents {
		_, err = io.WriteString(w, markdown.Dump(events))
		return withExitCode(ExitIOError, err)
	}

	if err := render.Render(w, settings, env, events); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("render %s: %w", name, err))
	}
	return nil
}
