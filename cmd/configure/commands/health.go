package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health command
func NewHealthCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the daemon and its dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The daemon answers 503 when any dependency is down, but the
			// body still carries per-component detail, so this command
			// reads the body regardless of status.
			client := &http.Client{Timeout: 10 * time.Second}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, *apiURL+"/healthz", nil)
			if err != nil {
				return fmt.Errorf("build request: %w", err)
			}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("is the daemon running? %w", err)
			}
			defer func() { _ = resp.Body.Close() }()

			var result struct {
				Status     string `json:"status"`
				Components map[string]struct {
					Status string `json:"status"`
					Error  string `json:"error,omitempty"`
				} `json:"components"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			fmt.Printf("Status: %s\n", result.Status)
			names := make([]string, 0, len(result.Components))
			for name := range result.Components {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				component := result.Components[name]
				if component.Error != "" {
					fmt.Printf("  %-10s %s (%s)\n", name, component.Status, component.Error)
				} else {
					fmt.Printf("  %-10s %s\n", name, component.Status)
				}
			}
			if result.Status != "healthy" {
				return fmt.Errorf("daemon is unhealthy")
			}
			return nil
		},
	}
}
