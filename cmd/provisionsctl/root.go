package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dukerupert/provisions/internal/config"
	"github.com/dukerupert/provisions/internal/database"
	"github.com/dukerupert/provisions/internal/logging"
	"github.com/dukerupert/provisions/internal/notify"
	"github.com/dukerupert/provisions/internal/store"
	"github.com/spf13/cobra"
)

type options struct {
	dbPath     string
	storageKey string
	logLevel   string
	out        io.Writer
}

// openStore opens the database and the document store over it. The caller
// closes the returned db.
func (o *options) openStore() (*store.DocumentStore, *sql.DB, error) {
	db, err := database.Open(o.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	logger := logging.New(os.Stderr, o.logLevel)
	docs := store.NewDocumentStore(store.NewKVStore(db), o.storageKey, notify.NewLogger(logger), logger)
	if err := docs.Initialize(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return docs, db, nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{out: out}

	// Flags default to the same environment the server reads.
	defaults := config.Config{DBPath: "provisions.db", StorageKey: store.DefaultStorageKey, LogLevel: "warn"}
	if cfg, err := config.Load(); err == nil {
		defaults.DBPath = cfg.DBPath
		defaults.StorageKey = cfg.StorageKey
	} else {
		slog.Debug("config not loaded, using flag defaults", "error", err)
	}

	root := &cobra.Command{
		Use:           "provisionsctl",
		Short:         "Administer the hotel shopping data stored by provisions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.dbPath, "db", defaults.DBPath, "SQLite database path")
	root.PersistentFlags().StringVar(&opts.storageKey, "key", defaults.StorageKey, "storage key of the document")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "log level for diagnostics on stderr")

	root.AddCommand(
		newExportCmd(opts),
		newImportCmd(opts),
		newRangeCmd(opts),
		newCleanupCmd(opts),
		newItemsCmd(opts),
		newPoolCmd(opts),
		newSizeCmd(opts),
		newKeysCmd(opts),
	)
	return root
}
