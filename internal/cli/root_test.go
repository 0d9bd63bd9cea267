package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echozyr2001/BrewDeck/internal/cache"
	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/deck"
	"github.com/echozyr2001/BrewDeck/internal/errdefs"
	"github.com/echozyr2001/BrewDeck/internal/prefetch"
	"github.com/echozyr2001/BrewDeck/internal/tasks"
)

// stubBrew backs the facade with canned local state.
type stubBrew struct {
	installed  []string
	outdated   []string
	mutateErr  error
	lastAction string
}

func (s *stubBrew) ListInstalled(context.Context, catalog.Kind) ([]string, error) {
	return s.installed, nil
}

func (s *stubBrew) ListOutdated(context.Context, catalog.Kind) ([]string, error) {
	return s.outdated, nil
}

func (s *stubBrew) Install(_ context.Context, name string, _ catalog.Kind) (string, error) {
	s.lastAction = "install " + name
	return "Successfully installed " + name, s.mutateErr
}

func (s *stubBrew) Uninstall(_ context.Context, name string, _ catalog.Kind) (string, error) {
	s.lastAction = "uninstall " + name
	return "Successfully uninstalled " + name, s.mutateErr
}

func (s *stubBrew) Update(_ context.Context, name string, _ catalog.Kind) (string, error) {
	s.lastAction = "update " + name
	return "Successfully updated " + name, s.mutateErr
}

func (s *stubBrew) UpdateAll(context.Context, *catalog.Kind) (string, error) {
	s.lastAction = "update all"
	return "Successfully updated all packages", s.mutateErr
}

func (s *stubBrew) Info(_ context.Context, name string, _ catalog.Kind) (string, error) {
	return "==> " + name + ": stable 1.0.0\nlocal package\n", nil
}

func (s *stubBrew) Search(context.Context, string, *catalog.Kind) ([]string, error) {
	return nil, nil
}

// stubCatalog serves fixed records.
type stubCatalog struct {
	records []catalog.Record
}

func (s *stubCatalog) FetchAll(context.Context, catalog.Kind) ([]catalog.Record, error) {
	return s.records, nil
}

func (s *stubCatalog) FetchOne(_ context.Context, name string, kind catalog.Kind) (catalog.Record, error) {
	for _, rec := range s.records {
		if rec.ID(kind) == name {
			return rec, nil
		}
	}
	return catalog.Record{}, errdefs.NotFoundf("no record %q", name)
}

func (s *stubCatalog) FetchAnalytics(context.Context, catalog.Kind) (map[string]uint64, error) {
	return map[string]uint64{"wget": 18248}, nil
}

type stubDoctor struct {
	report      string
	err         error
	updateCalls int
}

func (s *stubDoctor) Doctor(context.Context) (string, error) { return s.report, s.err }

func (s *stubDoctor) UpdateHomebrew(context.Context) (string, error) {
	s.updateCalls++
	return "Already up-to-date.", nil
}

type stubHealth struct{ err error }

func (s *stubHealth) Ping(context.Context) error { return s.err }

func catalogRecord(name, version, desc string) catalog.Record {
	return catalog.Record{
		Name:     catalog.NameField(name),
		Desc:     desc,
		Versions: catalog.Versions{Stable: version},
	}
}

func newTestApp(b *stubBrew, c *stubCatalog) *App {
	svc := deck.NewService(cache.New(cache.Config{}), b, c, zerolog.Nop())
	return &App{
		Version:   "test",
		Deck:      svc,
		Scheduler: prefetch.NewScheduler(svc, prefetch.DefaultConfig(), zerolog.Nop()),
		Doctor:    &stubDoctor{},
		Health:    &stubHealth{},
	}
}

// execute runs the root command with args and captures stdout.
func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd(app, nil)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func defaultApp() (*App, *stubBrew) {
	b := &stubBrew{installed: []string{"wget"}, outdated: []string{"wget"}}
	c := &stubCatalog{records: []catalog.Record{
		catalogRecord("wget", "1.24.5", "Internet file retriever"),
		catalogRecord("htop", "3.3.0", "Interactive process viewer"),
	}}
	return newTestApp(b, c), b
}

func TestListTable(t *testing.T) {
	app, _ := defaultApp()

	out, err := execute(t, app, "list", "--kind", "formula")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "wget")
	assert.Contains(t, out, "18,248")
	assert.Contains(t, out, "outdated")
}

func TestListJSON(t *testing.T) {
	app, _ := defaultApp()

	out, err := execute(t, app, "list", "--kind", "formula", "--output", "json")
	require.NoError(t, err)

	var packages []deck.Package
	require.NoError(t, json.Unmarshal([]byte(out), &packages))
	require.Len(t, packages, 2)
	assert.Equal(t, "wget", packages[0].Name, "sorted by downloads")
}

func TestListOutdatedFilter(t *testing.T) {
	app, _ := defaultApp()

	out, err := execute(t, app, "list", "--kind", "formula", "--outdated")
	require.NoError(t, err)
	assert.Contains(t, out, "wget")
	assert.NotContains(t, out, "htop")
}

func TestListRejectsUnknownKind(t *testing.T) {
	app, _ := defaultApp()

	_, err := execute(t, app, "list", "--kind", "keg")
	require.Error(t, err)
}

func TestSearchRecordsQuery(t *testing.T) {
	app, _ := defaultApp()

	out, err := execute(t, app, "search", "interactive")
	require.NoError(t, err)
	assert.Contains(t, out, "htop")
	assert.Contains(t, out, "1 results")

	assert.Equal(t, []string{"interactive"}, app.Scheduler.RecentQueries())
}

func TestInfoShowsWarnings(t *testing.T) {
	rec := catalogRecord("telnet", "0.17", "ancient client")
	rec.Deprecated = true
	b := &stubBrew{}
	app := newTestApp(b, &stubCatalog{records: []catalog.Record{rec}})

	out, err := execute(t, app, "info", "telnet")
	require.NoError(t, err)
	assert.Contains(t, out, "telnet")
	assert.Contains(t, out, "deprecated")
}

func TestInstall(t *testing.T) {
	app, b := defaultApp()

	out, err := execute(t, app, "install", "htop")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully installed htop")
	assert.Equal(t, "install htop", b.lastAction)
}

func TestInstallFailureExitsNonZero(t *testing.T) {
	app, b := defaultApp()
	b.mutateErr = errdefs.Executionf("already installed")

	out, err := execute(t, app, "install", "wget")
	require.Error(t, err)
	assert.Contains(t, out, "failed")
}

func TestInfoWarmsRelatedPackages(t *testing.T) {
	app, _ := defaultApp()
	app.Registry = tasks.New(context.Background(), zerolog.Nop())
	defer func() { _ = app.Registry.Shutdown() }()

	_, err := execute(t, app, "info", "wget")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return app.Scheduler.Stats().TotalRequests >= 1
	}, 2*time.Second, 10*time.Millisecond,
		"dependency warm-up runs in the background")
}

func TestInstallWarmsRelatedPackages(t *testing.T) {
	app, _ := defaultApp()
	app.Registry = tasks.New(context.Background(), zerolog.Nop())
	defer func() { _ = app.Registry.Shutdown() }()

	_, err := execute(t, app, "install", "wget")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return app.Scheduler.Stats().TotalRequests >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFailedInstallSkipsRelatedWarmup(t *testing.T) {
	app, b := defaultApp()
	b.mutateErr = errdefs.Executionf("no such package")
	app.Registry = tasks.New(context.Background(), zerolog.Nop())

	_, err := execute(t, app, "install", "ghost")
	require.Error(t, err)

	require.NoError(t, app.Registry.Shutdown())
	assert.Zero(t, app.Scheduler.Stats().TotalRequests)
}

func TestUninstallNonInteractiveAborts(t *testing.T) {
	app, b := defaultApp()

	out, err := execute(t, app, "uninstall", "wget")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")
	assert.Empty(t, b.lastAction)
}

func TestUninstallYes(t *testing.T) {
	app, b := defaultApp()

	out, err := execute(t, app, "uninstall", "wget", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully uninstalled wget")
	assert.Equal(t, "uninstall wget", b.lastAction)
}

func TestUpgradeAll(t *testing.T) {
	app, b := defaultApp()

	out, err := execute(t, app, "upgrade", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "updated all")
	assert.Equal(t, "update all", b.lastAction)
}

func TestUpgradeWithoutTargetFails(t *testing.T) {
	app, _ := defaultApp()

	_, err := execute(t, app, "upgrade")
	require.Error(t, err)
}

func TestDoctorHealthy(t *testing.T) {
	app, _ := defaultApp()

	out, err := execute(t, app, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "brew:    ok")
	assert.Contains(t, out, "catalog: ok")
}

func TestDoctorReportsProblems(t *testing.T) {
	app, _ := defaultApp()
	app.Health = &stubHealth{err: errdefs.Networkf("connection refused")}

	out, err := execute(t, app, "doctor")
	require.Error(t, err)
	assert.Contains(t, out, "catalog: unreachable")
}

func TestDoctorFixRunsUpdate(t *testing.T) {
	app, _ := defaultApp()
	doc := &stubDoctor{}
	app.Doctor = doc

	out, err := execute(t, app, "doctor", "--fix")
	require.NoError(t, err)
	assert.Contains(t, out, "update:  homebrew metadata refreshed")
	assert.Equal(t, 1, doc.updateCalls)
}

func TestDoctorFixSkippedWhenBrewUnavailable(t *testing.T) {
	app, _ := defaultApp()
	doc := &stubDoctor{err: errdefs.Executionf("brew not found")}
	app.Doctor = doc

	_, err := execute(t, app, "doctor", "--fix")
	require.Error(t, err)
	assert.Zero(t, doc.updateCalls)
}

func TestPrefetchStats(t *testing.T) {
	app, _ := defaultApp()

	out, err := execute(t, app, "prefetch", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total requests")
	assert.Contains(t, out, "hit rate")
}

func TestPrefetchConfigJSON(t *testing.T) {
	app, _ := defaultApp()

	out, err := execute(t, app, "prefetch", "config", "--output", "json")
	require.NoError(t, err)

	var cfg prefetch.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.MaxConcurrentRequests)
}
