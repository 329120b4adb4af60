package main

import (
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/identity"
	"alcyxob/fitness-tracker/internal/logging"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/mongo"
	"alcyxob/fitness-tracker/internal/repository/sqlite"
	"alcyxob/fitness-tracker/internal/service"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
)

type options struct {
	configDir string
	userID    string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "fitnessctl",
		Short: "Admin tool for the fitness tracker stores",
		Long: `Inspect and maintain the local SQLite store and, in remote mode,
the routine cache kept in front of MongoDB.

Configuration is read the same way the server reads it: config.yaml in
--config plus environment variables such as LOCAL_PATH or DATABASE_URI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config", ".", "directory holding config.yaml")
	root.PersistentFlags().StringVar(&opts.userID, "user", "", "user id to act as in remote mode")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log service activity to stderr")

	root.AddCommand(newSchemaCmd(opts), newRoutinesCmd(opts), newHistoryCmd(opts))
	return root
}

// app holds what a single command invocation needs.
type app struct {
	cfg      config.Config
	store    *sqlite.Store
	routines service.RoutineService
	history  service.HistoryService
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// openApp loads configuration, prepares the local store and connects to the
// remote store when the backend mode asks for it.
func openApp(ctx context.Context, cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var logger *log.Logger
	if opts.verbose {
		logger = logging.New(cmd.ErrOrStderr(), "fitnessctl")
	} else {
		logger = log.New(io.Discard, "", 0)
	}

	store := sqlite.NewStore(cfg.Local.Path)
	a := &app{cfg: cfg, store: store}
	a.closers = append(a.closers, func() { store.Close() })
	if err := store.EnsureSchema(ctx); err != nil {
		a.Close()
		return nil, err
	}

	var remote repository.RemoteRoutineStore
	if cfg.Backend.Mode == config.BackendRemote {
		client, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, func() { _ = mongo.DisconnectDB(client) })
		remote = mongo.NewMongoRoutineRepository(client.Database(cfg.Database.Name))
	}

	a.routines = service.NewRoutineService(sqlite.NewRoutineCache(store), remote, identity.Static(opts.userID), logger)
	a.history = service.NewHistoryService(sqlite.NewHistoryRepository(store), logger)
	return a, nil
}

func newSchemaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the local tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready at %s (%s mode)\n", a.store.Path(), a.routines.Mode())
			return nil
		},
	}
}
