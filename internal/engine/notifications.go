package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/benvon/dayflow/internal/models"
)

// noTaskWindow is how far ahead the no-task check looks for planned work
const noTaskWindow = 2 * time.Hour

// Notification texts. Localization is the delivery side's concern; the
// engine emits fixed English.
const (
	taskEndingTitle   = "Task ending soon"
	taskStartingTitle = "Task starting soon"
	noTaskTitle       = "Nothing planned"
	noTaskMessage     = "No tasks are scheduled for the next two hours. Pick something meaningful to work on."
	newTasksTitle     = "New recurring tasks"
	testTitle         = "Test notification"
	testMessage       = "Notifications are working."
)

// UpcomingTaskNotifications evaluates today's matters against the notify
// threshold. For each matter the end check takes precedence over the
// start check: a TaskEnd intent fires iff 0 < minutes-to-end <=
// notifyBeforeMinutes, a TaskStart intent iff 0 <= minutes-to-start <=
// notifyBeforeMinutes. All matching intents are returned in input order;
// the caller dispatches only the first.
func UpcomingTaskNotifications(now time.Time, matters []*models.Matter, notifyBeforeMinutes int) []models.Notification {
	var notifications []models.Notification

	for _, matter := range matters {
		minutesUntilEnd := minutesUntil(now, matter.EndTime)
		minutesUntilStart := minutesUntil(now, matter.StartTime)

		if minutesUntilEnd > 0 && minutesUntilEnd <= notifyBeforeMinutes {
			message := fmt.Sprintf("%q ends in %d minutes.", matter.Title, minutesUntilEnd)
			notifications = append(notifications,
				models.NewNotification(taskEndingTitle, message, models.NotificationTaskEnd, now))
		} else if minutesUntilStart >= 0 && minutesUntilStart <= notifyBeforeMinutes {
			message := fmt.Sprintf("%q starts in %d minutes.", matter.Title, minutesUntilStart)
			notifications = append(notifications,
				models.NewNotification(taskStartingTitle, message, models.NotificationTaskStart, now))
		}
	}

	return notifications
}

// minutesUntil floors toward negative infinity, so an instant that
// passed under a minute ago reads as -1, never as 0
func minutesUntil(now, t time.Time) int {
	return int(math.Floor(t.Sub(now).Minutes()))
}

// HasNoUpcomingOrRunningTasks reports whether nothing starts within the
// next two hours and nothing is currently in progress
func HasNoUpcomingOrRunningTasks(now time.Time, matters []*models.Matter) bool {
	windowEnd := now.Add(noTaskWindow)

	for _, matter := range matters {
		startsSoon := !matter.StartTime.Before(now) && !matter.StartTime.After(windowEnd)
		inProgress := !matter.StartTime.After(now) && !matter.EndTime.Before(now)
		if startsSoon || inProgress {
			return false
		}
	}
	return true
}
