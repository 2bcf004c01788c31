package commands

import (
	"fmt"
	"net/http"

	"github.com/benvon/dayflow/internal/config"
	"github.com/spf13/cobra"
)

// NewSettingsCmd creates the settings command with show and set subcommands
func NewSettingsCmd(apiURL *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage engine settings",
		Long:  "Show or update the daemon's runtime settings. Updates take effect on the next tick.",
	}
	cmd.AddCommand(newSettingsShowCmd(apiURL))
	cmd.AddCommand(newSettingsSetCmd(apiURL))
	return cmd
}

func newSettingsShowCmd(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*apiURL)
			var settings config.Settings
			if err := client.do(cmd.Context(), http.MethodGet, "/api/v1/settings", nil, &settings); err != nil {
				return fmt.Errorf("get settings: %w", err)
			}
			printSettings(settings)
			return nil
		},
	}
}

func newSettingsSetCmd(apiURL *string) *cobra.Command {
	var (
		notifications bool
		workStart     string
		workEnd       string
		checkInterval int
		notifyBefore  int
		aiEnabled     bool
		aiPrompt      string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings",
		Long:  "Update one or more settings. Only flags you pass are changed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch config.Patch
			flags := cmd.Flags()
			if flags.Changed("notifications") {
				patch.NotificationsEnabled = &notifications
			}
			if flags.Changed("work-start") {
				patch.WorkStart = &workStart
			}
			if flags.Changed("work-end") {
				patch.WorkEnd = &workEnd
			}
			if flags.Changed("check-interval") {
				patch.CheckIntervalMinutes = &checkInterval
			}
			if flags.Changed("notify-before") {
				patch.NotifyBeforeMinutes = &notifyBefore
			}
			if flags.Changed("ai") {
				patch.AIEnabled = &aiEnabled
			}
			if flags.Changed("ai-prompt") {
				patch.AIReminderPrompt = &aiPrompt
			}
			if patch == (config.Patch{}) {
				return fmt.Errorf("nothing to change; pass at least one flag")
			}

			client := newAPIClient(*apiURL)
			var updated config.Settings
			if err := client.do(cmd.Context(), http.MethodPatch, "/api/v1/settings", patch, &updated); err != nil {
				return fmt.Errorf("update settings: %w", err)
			}
			fmt.Println("Settings updated.")
			printSettings(updated)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notifications, "notifications", true, "Enable or disable all notifications")
	cmd.Flags().StringVar(&workStart, "work-start", "", "Work hours lower bound (HH:MM)")
	cmd.Flags().StringVar(&workEnd, "work-end", "", "Work hours upper bound (HH:MM, or 24:00 for none)")
	cmd.Flags().IntVar(&checkInterval, "check-interval", 0, "Minutes between periodic checks")
	cmd.Flags().IntVar(&notifyBefore, "notify-before", 0, "Minutes of warning before a task starts or ends")
	cmd.Flags().BoolVar(&aiEnabled, "ai", false, "Enable or disable AI reminders")
	cmd.Flags().StringVar(&aiPrompt, "ai-prompt", "", "Custom AI reminder prompt (empty for the default)")
	return cmd
}

func printSettings(s config.Settings) {
	fmt.Printf("  Notifications:   %v\n", s.NotificationsEnabled)
	fmt.Printf("  Work hours:      %s - %s\n", s.WorkStart, s.WorkEnd)
	fmt.Printf("  Check interval:  %d min\n", s.CheckIntervalMinutes)
	fmt.Printf("  Notify before:   %d min\n", s.NotifyBeforeMinutes)
	fmt.Printf("  AI reminders:    %v\n", s.AIEnabled)
	if s.AIReminderPrompt != "" {
		fmt.Printf("  AI prompt:       custom (%d chars)\n", len(s.AIReminderPrompt))
	}
}
