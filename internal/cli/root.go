package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todostore/internal/config"
	"github.com/idilsaglam/todostore/internal/store"
	"github.com/idilsaglam/todostore/internal/store/backend"
	"github.com/idilsaglam/todostore/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	ConfigPath string
	Data       string
	Backend    string
	Theme      string
	Group      bool // list grouped by pending/done
	Verbose    bool
	NoColor    bool

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// app is the per-invocation state shared by subcommands.
type app struct {
	opts *Options
	cfg  config.Config
	log  *slog.Logger
}

// Run executes the CLI with args and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCommand(&Options{})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	ui.Fail(stderr, err.Error())
	var ee *ExitError
	if errors.As(err, &ee) {
		if ee.Hint != "" {
			ui.Hint(stderr, ee.Hint)
		}
	} else {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return exitCode(err)
}

// NewRootCommand builds the todo command tree.
func NewRootCommand(opts *Options) *cobra.Command {
	a := &app{opts: opts}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "todo - a tiny record store CLI",
		Long:          "Create, read, update, complete and delete todos addressed by their index.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/todo/config.yaml)")
	f.StringVar(&opts.Data, "data", "", "data file (default todos.json or todos.db in the current directory)")
	f.StringVar(&opts.Backend, "backend", "", "storage backend (json|sqlite)")
	f.StringVar(&opts.Theme, "theme", "", "color theme (classic|neon|mono)")
	f.BoolVar(&opts.Group, "group", false, "group output by pending/done")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging on stderr")
	f.BoolVar(&opts.NoColor, "no-color", false, "disable colors")

	cmd.AddCommand(
		newAddCommand(a),
		newGetCommand(a),
		newListCommand(a),
		newUpdateCommand(a),
		newDoneCommand(a),
		newRemoveCommand(a),
		newCountCommand(a),
		newUICommand(a),
	)
	return cmd
}

// setup resolves configuration: flags > environment > config file > defaults.
func (a *app) setup(cmd *cobra.Command) error {
	getenv := a.opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg, err := config.Load(a.opts.ConfigPath, getenv)
	if err != nil {
		return usagef("config: %v", err)
	}
	f := cmd.Flags()
	if f.Changed("data") {
		cfg.Data = a.opts.Data
	}
	if f.Changed("backend") {
		cfg.Backend = a.opts.Backend
	}
	if f.Changed("theme") {
		cfg.Theme = a.opts.Theme
	}
	if f.Changed("group") {
		cfg.Group = a.opts.Group
	}
	if err := cfg.Validate(); err != nil {
		return usagef("%v", err)
	}
	a.cfg = cfg

	if a.opts.NoColor || getenv("NO_COLOR") != "" {
		ui.DisableColor()
	}
	ui.SetTheme(cfg.Theme)

	level := slog.LevelInfo
	if a.opts.Verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.log.Debug("config resolved", "backend", cfg.Backend, "data", cfg.Data, "theme", cfg.Theme)
	return nil
}

// errUnchanged lets a withStore callback skip the save without failing.
var errUnchanged = errors.New("unchanged")

// withStore loads the store, runs fn and, when save is set and fn succeeded,
// writes the store back.
func (a *app) withStore(ctx context.Context, save bool, fn func(*store.Store) error) (retErr error) {
	b, err := backend.Open(ctx, a.cfg.Backend, a.cfg.Data)
	if err != nil {
		return failure(err)
	}
	defer func() {
		if err := b.Close(); err != nil && retErr == nil {
			retErr = failure(err)
		}
	}()

	snap, err := b.Load(ctx)
	if err != nil {
		return failure(err)
	}
	st := store.FromSnapshot(snap, store.WithLogger(a.log))
	a.log.Debug("store loaded", "count", st.Count())

	if err := fn(st); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	if !save {
		return nil
	}
	if err := b.Save(ctx, st.Snapshot()); err != nil {
		return failure(err)
	}
	a.log.Debug("store saved", "count", st.Count())
	return nil
}
