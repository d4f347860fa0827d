package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evcraddock/invest-compare/internal/auth"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
		Long:  "Create, list and delete the API keys the server accepts. Works directly on the server database.",
	}

	cmd.AddCommand(newKeysCreateCmd(), newKeysListCmd(), newKeysDeleteCmd())
	return cmd
}

// withKeyStore opens the database and runs fn against its API key store.
func withKeyStore(fn func(store *auth.APIKeyStore) error) error {
	database, dialect, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	return fn(auth.NewAPIKeyStore(database, dialect))
}

func newKeysCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKeyStore(func(store *auth.APIKeyStore) error {
				raw, key, err := store.Create(context.Background(), args[0])
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if isJSON() {
					return printJSON(w, map[string]interface{}{"key": raw, "api_key": key})
				}
				fmt.Fprintf(w, "API key #%d (%s) created:\n\n  %s\n\n", key.ID, key.Name, raw)
				fmt.Fprintln(w, "Store it now; it cannot be shown again.")
				return nil
			})
		},
	}
}

func newKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKeyStore(func(store *auth.APIKeyStore) error {
				keys, err := store.List(context.Background())
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if isJSON() {
					if keys == nil {
						keys = []auth.APIKey{}
					}
					return printJSON(w, keys)
				}
				if len(keys) == 0 {
					fmt.Fprintln(w, "No API keys.")
					return nil
				}

				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tPREFIX\tCREATED\tLAST USED")
				for _, k := range keys {
					lastUsed := "never"
					if k.LastUsedAt != nil {
						lastUsed = k.LastUsedAt.Local().Format("2006-01-02 15:04")
					}
					fmt.Fprintf(tw, "%d\t%s\t%s…\t%s\t%s\n",
						k.ID, k.Name, k.KeyPrefix, k.CreatedAt.Local().Format("2006-01-02 15:04"), lastUsed)
				}
				return tw.Flush()
			})
		},
	}
}

func newKeysDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseComparisonID(args[0])
			if err != nil {
				return fmt.Errorf("invalid key ID: %s", args[0])
			}

			return withKeyStore(func(store *auth.APIKeyStore) error {
				err := store.Delete(context.Background(), id)
				if errors.Is(err, auth.ErrKeyNotFound) {
					return fmt.Errorf("API key %d not found", id)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "API key %d deleted.\n", id)
				return nil
			})
		},
	}
}
