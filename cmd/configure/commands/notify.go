package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// NewNotifyCmd creates the notify command with a test subcommand
func NewNotifyCmd(apiURL *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Notification utilities",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Send a test notification through the delivery pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*apiURL)
			if err := client.do(cmd.Context(), http.MethodPost, "/api/v1/notifications/test", nil, nil); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Println("Test notification sent.")
			return nil
		},
	})

	return cmd
}
