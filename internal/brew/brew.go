package brew

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/echozyr2001/BrewDeck/internal/errdefs"
	"github.com/echozyr2001/BrewDeck/internal/logging"
)

// Default timeouts for brew command groups. Mutations get long budgets
// because brew may compile from source; bulk upgrades longer still.
const (
	DefaultTimeout    = 5 * time.Minute
	MutateTimeout     = 10 * time.Minute
	UpgradeAllTimeout = 30 * time.Minute
)

// commonPaths are the usual Homebrew install locations, checked before
// falling back to PATH lookup.
var commonPaths = []string{ //nolint:gochecknoglobals // Fixed lookup table.
	"/opt/homebrew/bin/brew",
	"/usr/local/bin/brew",
	"/home/linuxbrew/.linuxbrew/bin/brew",
}

// ErrBrewNotFound indicates no brew binary could be located.
var ErrBrewNotFound = errdefs.NotFoundf("brew not found; install Homebrew from https://brew.sh")

// CommandRunner executes the brew binary and returns its stdout, stderr, and
// error. This interface enables testing without spawning real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, path string, args ...string) (stdout []byte, stderr []byte, err error)
}

// execRunner is the default CommandRunner backed by exec.CommandContext.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, path string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	// Keep brew from auto-updating or cleaning up mid-command; both make
	// output unpredictable and slow every call down.
	cmd.Env = append(os.Environ(),
		"HOMEBREW_NO_AUTO_UPDATE=1",
		"HOMEBREW_NO_INSTALL_CLEANUP=1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Runner is the package-level CommandRunner. Replace in tests with a mock.
var Runner CommandRunner = &execRunner{} //nolint:gochecknoglobals // Required for test injection

// Client wraps the local brew binary. Binary discovery is lazy so
// constructing a Client never fails on machines without Homebrew; the first
// command does.
type Client struct {
	pathOverride string
	log          zerolog.Logger

	discover sync.Once
	path     string
	pathErr  error
}

// NewClient creates a brew client. pathOverride, when non-empty, skips
// discovery; configuration and tests use it.
func NewClient(pathOverride string, logger zerolog.Logger) *Client {
	return &Client{
		pathOverride: pathOverride,
		log:          logging.ComponentLogger(logger, "brew"),
	}
}

// FindBinary locates the brew binary: common install paths first, then PATH.
func FindBinary() (string, error) {
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if p, err := exec.LookPath("brew"); err == nil {
		return p, nil
	}
	return "", ErrBrewNotFound
}

// binary resolves and memoizes the brew path.
func (c *Client) binary() (string, error) {
	if c.pathOverride != "" {
		return c.pathOverride, nil
	}
	c.discover.Do(func() {
		c.path, c.pathErr = FindBinary()
		if c.pathErr == nil {
			c.log.Debug().Str("path", c.path).Msg("found Homebrew binary")
		}
	})
	return c.path, c.pathErr
}

// result is one captured brew invocation.
type result struct {
	stdout string
	stderr string
}

// run executes brew with the given args under a timeout. A deadline expiry
// maps to a Timeout error, a non-zero exit to an ExecutionFailure carrying
// the captured stderr.
func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) (result, error) {
	path, err := c.binary()
	if err != nil {
		return result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.log.Debug().
		Ctx(ctx).
		Strs("args", args).
		Dur("timeout", timeout).
		Msg("executing brew command")

	stdout, stderr, err := Runner.Run(ctx, path, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return result{}, errdefs.Timeoutf("brew %s timed out after %s", strings.Join(args, " "), timeout)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return result{}, ctx.Err()
		}
		// Captured output still comes back; doctor-style commands report
		// findings on stdout while exiting non-zero.
		return result{stdout: string(stdout), stderr: string(stderr)},
			errdefs.Executionf("brew %s: %s", strings.Join(args, " "), firstLine(stderr))
	}

	return result{stdout: string(stdout), stderr: string(stderr)}, nil
}

// lines splits command output into trimmed, non-empty lines.
func lines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// firstLine returns the first non-empty stderr line, or a placeholder when
// brew said nothing.
func firstLine(stderr []byte) string {
	for _, line := range strings.Split(string(stderr), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "no error output"
}
