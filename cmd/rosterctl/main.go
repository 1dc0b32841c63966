// Command rosterctl manages the student roster from a terminal, against the
// same store the server uses.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stemsi/student-roster/internal/config"
	"github.com/stemsi/student-roster/internal/database"
	"github.com/stemsi/student-roster/internal/logger"
	"github.com/stemsi/student-roster/internal/service"
	"golang.org/x/term"
)

// app carries what every command needs. Tests swap open and the terminal
// hooks.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	// open returns a loaded service and a func that releases the store.
	open       func(ctx context.Context) (*service.RosterService, func(), error)
	stdin      io.Reader
	isTerminal func() bool

	force   bool
	verbose bool
}

func main() {
	cfg := config.Load()
	// Command output goes to stdout; logs stay on stderr and quiet unless
	// --verbose is given.
	log := logger.New(os.Stderr, zerolog.LevelWarnValue, "pretty")

	a := &app{
		cfg:        cfg,
		log:        log,
		stdin:      os.Stdin,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
	a.open = a.openStore

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "rosterctl",
		Short: "Manage student records",
		Long: `rosterctl adds, lists, edits and deletes student records.

Percentage and division are derived from the five marks:
  First  >= 60%
  Second >= 45%
  Third  >= 33%
  Fail   below 33%

The store is chosen by STORE_DRIVER (memory, file, sqlite, redis, postgres).`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if a.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&a.force, "force", false,
		"write even if the stored roster could not be read (replaces it)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log store activity to stderr")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newValidateCmd(a),
	)
	return root
}

// openStore connects the configured store and loads the roster.
func (a *app) openStore(ctx context.Context) (*service.RosterService, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	repo, closeStore, err := database.OpenRosterRepository(ctx, a.cfg, a.log)
	if err != nil {
		return nil, nil, err
	}

	svc := service.NewRosterService(repo, nil, a.log, a.serviceOptions()...)
	// A load failure leaves svc readable on an empty roster; writes are
	// refused by the service unless --force was given.
	_ = svc.Load(ctx)
	return svc, closeStore, nil
}

func (a *app) serviceOptions() []service.Option {
	return []service.Option{service.WithOverwriteUnreadable(a.force)}
}

// withService opens the roster for one command. Write commands stop before
// fn when the service would refuse the write anyway, so nothing is prompted
// for or looked up on a roster that cannot be changed.
func (a *app) withService(cmd *cobra.Command, write bool, fn func(*service.RosterService) error) error {
	svc, closeStore, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	if loadErr := svc.LoadError(); loadErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; showing an empty roster\n", loadErr)
	}
	if write {
		if err := svc.Writable(); err != nil {
			return describe(err)
		}
	}
	return fn(svc)
}
