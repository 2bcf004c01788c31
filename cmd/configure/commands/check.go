package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command
func NewCheckCmd(apiURL *string) *cobra.Command {
	var ignoreGates bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one scheduling check now",
		Long:  "Trigger one engine tick immediately. With --force the work-hour and debounce gates are bypassed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*apiURL)
			payload := map[string]bool{"ignore_gates": ignoreGates}
			var result struct {
				Handled bool `json:"handled"`
			}
			if err := client.do(cmd.Context(), http.MethodPost, "/api/v1/check", payload, &result); err != nil {
				return fmt.Errorf("run check: %w", err)
			}
			if result.Handled {
				fmt.Println("Check ran; a notification check fired.")
			} else {
				fmt.Println("Check ran; nothing to notify.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ignoreGates, "force", false, "Bypass work-hour and debounce gates")
	return cmd
}
