package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/evcraddock/invest-compare/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the server and checks if the stored API key is accepted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.OutOrStdout())
		},
	}
}

func runStatus(w io.Writer) error {
	serverURL := getServerURL()
	apiKey := getAPIKey()

	fmt.Fprintf(w, "Server:  %s\n", serverURL)

	if apiKey == "" {
		fmt.Fprintln(w, "API Key: not configured")
	} else {
		prefix := apiKey
		if len(prefix) > 8 {
			prefix = prefix[:8]
		}
		fmt.Fprintf(w, "API Key: %s…\n", prefix)
	}

	c := client.New(serverURL, apiKey)
	if err := c.Health(); err != nil {
		fmt.Fprintf(w, "Status:  ✗ cannot reach server (%v)\n", err)
		return nil
	}

	_, err := c.ListComparisons(1, 0)
	var apiErr *client.APIError
	switch {
	case err == nil:
		fmt.Fprintln(w, "Status:  ✓ connected")
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		fmt.Fprintln(w, "Status:  ✗ API key required or rejected")
		fmt.Fprintln(w, "\nRun 'ic login' to store a valid key.")
	default:
		fmt.Fprintf(w, "Status:  ✗ unexpected response (%v)\n", err)
	}

	return nil
}
