package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/yaklabco/mdterm/internal/logging"
	"github.com/yaklabco/mdterm/pkg/config"
)

// defaultPager is used when neither the config nor $PAGER names one.
// -R makes less pass ANSI sequences through.
const defaultPager = "less -R"

// pagerProc is a running pager consuming rendered output on stdin.
type pagerProc struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// pagerCommandLine resolves the pager argv. The config value (which the
// MDTERM_PAGER environment variable feeds into) wins over $PAGER.
func pagerCommandLine(cfg *config.Config) []string {
	for _, cmdline := range []string{cfg.Pager, os.Getenv("PAGER"), defaultPager} {
		if argv := strings.Fields(cmdline); len(argv) > 0 {
			return argv
		}
	}
	return nil
}

// startPager spawns the pager with its stdout and stderr on the real
// terminal and returns the process with its stdin pipe.
func startPager(cfg *config.Config) (*pagerProc, error) {
	argv := pagerCommandLine(cfg)
	if argv == nil {
		return nil, fmt.Errorf("no pager configured")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("pager %s: %w", argv[0], err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start pager %s: %w", argv[0], err)
	}
	logging.Default().Debug("started pager", logging.FieldPager, strings.Join(argv, " "))
	return &pagerProc{cmd: cmd, stdin: stdin}, nil
}

// closePager finishes the pager, waiting for the user to quit it. A nil
// pager is a no-op so callers need not branch on pagination.
func closePager(p *pagerProc) error {
	if p == nil {
		return nil
	}
	if err := p.stdin.Close(); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("close pager input: %w", err))
	}
	if err := p.cmd.Wait(); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("pager: %w", err))
	}
	return nil
}
