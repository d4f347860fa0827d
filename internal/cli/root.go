// Package cli defines the cobra command tree for invest-compare.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/invest-compare/internal/client"
	"github.com/evcraddock/invest-compare/internal/config"
	"github.com/evcraddock/invest-compare/internal/db"
)

var (
	flagFormat string
	flagDB     string
	flagConfig string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ic",
		Short:         "Compare a rental property with an ETF investment",
		Long:          "A tool to compare buying a property to rent out with putting the same money into an ETF. Comparisons are stored on the server and can be browsed later.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: from server config or ~/.config/ic/comparisons.db)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "server config file (default: server.yaml in . or ~/.config/ic)")

	root.AddCommand(
		newCompareCmd(),
		newShowCmd(),
		newHistoryCmd(),
		newChartCmd(),
		newKeysCmd(),
		newServeCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the database for commands that work on it directly. The --db
// flag selects a SQLite file; otherwise the server config decides.
func openDB() (*sql.DB, db.Dialect, error) {
	if flagDB != "" {
		conn, err := db.Open(flagDB)
		return conn, db.SQLite, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, "", err
	}
	dialect, err := cfg.Database.Dialect()
	if err != nil {
		return nil, "", err
	}
	conn, err := db.Connect(dialect, cfg.Database.DSN)
	return conn, dialect, err
}

// newAPIClient creates an HTTP client for the invest-compare API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getAPIKey())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
