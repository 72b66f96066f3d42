package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/maitred-run/maitred/internal/catalog"
	"github.com/maitred-run/maitred/internal/config"
	"github.com/maitred-run/maitred/internal/engine"
	"github.com/maitred-run/maitred/internal/entity"
	"github.com/maitred-run/maitred/internal/floorplan"
	"github.com/maitred-run/maitred/internal/journal"
	"github.com/maitred-run/maitred/internal/notify"
)

// App is the assembled runtime a command works against: journal loaded,
// store rebuilt, engine ready.
type App struct {
	Config   *config.Config
	Engine   *engine.Engine
	Journal  journal.Journal
	Notifier *notify.Notifier
	Events   []journal.Event

	relay *notify.AMQPRelay
}

// openApp loads configuration, opens the journal backend, replays the
// event log and wires the engine.
func openApp(ctx context.Context, opts *RootOptions) (*App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger := newLogger(opts.Verbose)

	jnl, err := openJournal(ctx, cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open journal", err)
	}

	loaded, err := jnl.LoadAll(ctx)
	if err != nil {
		jnl.Close()
		return nil, WrapExitError(ExitCommandError, "load journal", err)
	}

	notifier := notify.New(logger)

	app := &App{
		Config:   cfg,
		Journal:  jnl,
		Notifier: notifier,
		Events:   loaded.Events,
	}

	if cfg.AMQP.Enabled {
		relay, err := notify.DialAMQP(notify.AMQPConfig{
			Host:     cfg.AMQP.Host,
			Port:     cfg.AMQP.Port,
			User:     cfg.AMQP.User,
			Password: cfg.AMQP.Password,
			Exchange: cfg.AMQP.Exchange,
		}, logger)
		if err != nil {
			jnl.Close()
			return nil, WrapExitError(ExitCommandError, "connect event relay", err)
		}
		notifier.Subscribe("amqp-relay", relay.Handler())
		app.relay = relay
	}

	menu := buildMenu(cfg)

	engineOpts := []engine.Option{
		engine.WithClock(engine.NewClockAt(loaded.LastSeq)),
		engine.WithNotifier(notifier),
		engine.WithCatalog(menu),
		engine.WithLogger(logger),
	}
	if plan := cfg.FloorPlanDir; plan != "" {
		// Policy overrides live in the floor plan; the init command
		// loads them, day-to-day commands do too so checks agree.
		p, err := loadPolicy(plan)
		if err != nil {
			jnl.Close()
			return nil, err
		}
		engineOpts = append(engineOpts, engine.WithPolicy(p))
	}

	app.Engine = engine.New(loaded.Store, jnl, engineOpts...)
	return app, nil
}

// Close releases the journal and relay connections.
func (a *App) Close() {
	if a.relay != nil {
		a.relay.Close()
	}
	if a.Journal != nil {
		a.Journal.Close()
	}
}

func loadPolicy(dir string) (entity.Policy, error) {
	plan, err := floorplan.Load(dir)
	if err != nil {
		return entity.Policy{}, WrapExitError(ExitCommandError, "load floor plan", err)
	}
	return plan.Policy, nil
}

func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	return cfg, nil
}

func openJournal(ctx context.Context, cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Backend {
	case config.BackendSQLite:
		return journal.OpenSQLite(cfg.Journal.SQLitePath)
	case config.BackendPostgres:
		pg := cfg.Journal.Postgres
		return journal.OpenPostgres(ctx, journal.PostgresConfig{
			Host:     pg.Host,
			Port:     pg.Port,
			User:     pg.User,
			Password: pg.Password,
			Database: pg.Database,
		})
	case config.BackendMemory:
		return journal.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown journal backend %q", cfg.Journal.Backend)
	}
}

func buildMenu(cfg *config.Config) catalog.Catalog {
	entries := make([]catalog.Price, 0, len(cfg.Menu.Dishes))
	for _, d := range cfg.Menu.Dishes {
		entries = append(entries, catalog.Price{
			DishRef:   d.Ref,
			Name:      d.Name,
			Cents:     d.PriceCents,
			Available: d.DishAvailable(),
		})
	}
	return catalog.NewCached(catalog.NewStatic(entries), cfg.Menu.CacheTTL)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// formatter builds the output formatter for a command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
