package brew

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/errdefs"
)

// kindFlag selects the brew flag for a package kind.
func kindFlag(kind catalog.Kind) string {
	if kind == catalog.KindCask {
		return "--cask"
	}
	return "--formula"
}

// ListInstalled returns the names of installed packages of the given kind.
func (c *Client) ListInstalled(ctx context.Context, kind catalog.Kind) ([]string, error) {
	res, err := c.run(ctx, DefaultTimeout, "list", kindFlag(kind))
	if err != nil {
		return nil, err
	}
	return lines(res.stdout), nil
}

// ListOutdated returns the names of installed packages with a newer version
// available.
func (c *Client) ListOutdated(ctx context.Context, kind catalog.Kind) ([]string, error) {
	res, err := c.run(ctx, DefaultTimeout, "outdated", kindFlag(kind))
	if err != nil {
		return nil, err
	}
	return lines(res.stdout), nil
}

// Install installs one package and returns a human-readable message.
func (c *Client) Install(ctx context.Context, name string, kind catalog.Kind) (string, error) {
	args := []string{"install"}
	if kind == catalog.KindCask {
		args = append(args, "--cask")
	}
	args = append(args, name)

	if _, err := c.run(ctx, MutateTimeout, args...); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully installed %s", name), nil
}

// Uninstall removes one package and returns a human-readable message.
func (c *Client) Uninstall(ctx context.Context, name string, kind catalog.Kind) (string, error) {
	args := []string{"uninstall"}
	if kind == catalog.KindCask {
		args = append(args, "--cask")
	}
	args = append(args, name)

	if _, err := c.run(ctx, DefaultTimeout, args...); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully uninstalled %s", name), nil
}

// Update upgrades one package to its latest version.
func (c *Client) Update(ctx context.Context, name string, kind catalog.Kind) (string, error) {
	args := []string{"upgrade"}
	if kind == catalog.KindCask {
		args = append(args, "--cask")
	}
	args = append(args, name)

	if _, err := c.run(ctx, MutateTimeout, args...); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully updated %s", name), nil
}

// UpdateAll upgrades every outdated package. A nil kind upgrades both
// formulae and casks.
func (c *Client) UpdateAll(ctx context.Context, kind *catalog.Kind) (string, error) {
	args := []string{"upgrade"}
	if kind != nil {
		args = append(args, kindFlag(*kind))
	}

	if _, err := c.run(ctx, UpgradeAllTimeout, args...); err != nil {
		return "", err
	}
	return "Successfully updated all packages", nil
}

// Info returns the raw multi-line output of brew info for one package. A
// failed info call maps to NotFound: brew exits non-zero exactly when the
// package does not exist, and retrying will not make it appear.
func (c *Client) Info(ctx context.Context, name string, kind catalog.Kind) (string, error) {
	args := []string{"info"}
	if kind == catalog.KindCask {
		args = append(args, "--cask")
	}
	args = append(args, name)

	res, err := c.run(ctx, DefaultTimeout, args...)
	if err != nil {
		if errors.Is(err, errdefs.ErrExecution) {
			return "", errdefs.NotFoundf("package %q not found: %v", name, err)
		}
		return "", err
	}
	return res.stdout, nil
}

// Search returns package names matching query, with brew's "==>" section
// headers filtered out. A nil kind searches both kinds.
func (c *Client) Search(ctx context.Context, query string, kind *catalog.Kind) ([]string, error) {
	args := []string{"search"}
	if kind != nil {
		args = append(args, kindFlag(*kind))
	}
	args = append(args, query)

	res, err := c.run(ctx, DefaultTimeout, args...)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range lines(res.stdout) {
		if strings.HasPrefix(line, "==>") {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}

// Doctor runs brew doctor and returns its report. Doctor exits non-zero
// when it finds issues, so an execution failure with output is still a
// successful diagnosis.
func (c *Client) Doctor(ctx context.Context) (string, error) {
	res, err := c.run(ctx, DefaultTimeout, "doctor")
	if err != nil {
		if res.stdout != "" && errors.Is(err, errdefs.ErrExecution) {
			return res.stdout, nil
		}
		return "", err
	}
	return res.stdout, nil
}

// UpdateHomebrew runs brew update, refreshing brew itself and its taps.
func (c *Client) UpdateHomebrew(ctx context.Context) (string, error) {
	if _, err := c.run(ctx, MutateTimeout, "update"); err != nil {
		return "", err
	}
	return "Homebrew updated successfully", nil
}
