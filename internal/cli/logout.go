package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	var forgetServer bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		Long: "Removes the API key that `ic compare`, `ic show`, `ic history` and `ic chart` send to the comparison server. " +
			"The server URL is kept unless --forget-server is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.OutOrStdout(), forgetServer)
		},
	}

	cmd.Flags().BoolVar(&forgetServer, "forget-server", false, "also remove the stored server URL")

	return cmd
}

func runLogout(w io.Writer, forgetServer bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.APIKey == "" && (!forgetServer || cfg.ServerURL == "") {
		fmt.Fprintln(w, "Not logged in.")
		return nil
	}

	cfg.APIKey = ""
	if forgetServer {
		cfg.ServerURL = ""
	}

	// Nothing left to keep: drop the file instead of leaving an empty one.
	if cfg == (CLIConfig{}) {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing config: %w", err)
		}
	} else if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(w, "✓ Logged out of %s.\n", getServerURL())
	return nil
}
