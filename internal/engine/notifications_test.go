package engine

import (
	"testing"
	"time"

	"github.com/benvon/dayflow/internal/models"
	"github.com/google/uuid"
)

func matterAt(title string, start, end time.Time) *models.Matter {
	return &models.Matter{
		ID:        uuid.New(),
		Title:     title,
		StartTime: start,
		EndTime:   end,
	}
}

func TestUpcomingTaskNotifications(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)
	in := func(minutes int) time.Time { return now.Add(time.Duration(minutes) * time.Minute) }

	tests := []struct {
		name         string
		matters      []*models.Matter
		notifyBefore int
		wantKinds    []models.NotificationKind
	}{
		{
			name:         "start within threshold",
			matters:      []*models.Matter{matterAt("Standup", in(10), in(40))},
			notifyBefore: 15,
			wantKinds:    []models.NotificationKind{models.NotificationTaskStart},
		},
		{
			name:         "start exactly at threshold",
			matters:      []*models.Matter{matterAt("Standup", in(15), in(45))},
			notifyBefore: 15,
			wantKinds:    []models.NotificationKind{models.NotificationTaskStart},
		},
		{
			name:         "start just past threshold",
			matters:      []*models.Matter{matterAt("Standup", in(16), in(46))},
			notifyBefore: 15,
			wantKinds:    nil,
		},
		{
			name:         "start right now",
			matters:      []*models.Matter{matterAt("Standup", now, in(30))},
			notifyBefore: 15,
			wantKinds:    []models.NotificationKind{models.NotificationTaskStart},
		},
		{
			name:         "started moments ago stays silent",
			matters:      []*models.Matter{matterAt("Standup", now.Add(-30*time.Second), in(30))},
			notifyBefore: 15,
			wantKinds:    nil,
		},
		{
			name:         "starting within the next minute",
			matters:      []*models.Matter{matterAt("Standup", now.Add(30*time.Second), in(30))},
			notifyBefore: 15,
			wantKinds:    []models.NotificationKind{models.NotificationTaskStart},
		},
		{
			name:         "end within threshold wins over start",
			matters:      []*models.Matter{matterAt("Focus block", in(-50), in(10))},
			notifyBefore: 15,
			wantKinds:    []models.NotificationKind{models.NotificationTaskEnd},
		},
		{
			name:         "ending right now is not announced",
			matters:      []*models.Matter{matterAt("Focus block", in(-120), now)},
			notifyBefore: 15,
			wantKinds:    nil,
		},
		{
			name:         "already over",
			matters:      []*models.Matter{matterAt("Focus block", in(-120), in(-60))},
			notifyBefore: 15,
			wantKinds:    nil,
		},
		{
			name: "multiple matches keep input order",
			matters: []*models.Matter{
				matterAt("First", in(5), in(60)),
				matterAt("Second", in(-20), in(10)),
			},
			notifyBefore: 15,
			wantKinds: []models.NotificationKind{
				models.NotificationTaskStart,
				models.NotificationTaskEnd,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := UpcomingTaskNotifications(now, tt.matters, tt.notifyBefore)
			if len(got) != len(tt.wantKinds) {
				t.Fatalf("got %d notifications, want %d", len(got), len(tt.wantKinds))
			}
			for i, kind := range tt.wantKinds {
				if got[i].Kind != kind {
					t.Errorf("notification %d kind = %q, want %q", i, got[i].Kind, kind)
				}
			}
		})
	}
}

func TestHasNoUpcomingOrRunningTasks(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)
	in := func(minutes int) time.Time { return now.Add(time.Duration(minutes) * time.Minute) }

	tests := []struct {
		name    string
		matters []*models.Matter
		want    bool
	}{
		{name: "empty day", matters: nil, want: true},
		{
			name:    "matter in progress",
			matters: []*models.Matter{matterAt("Running", in(-30), in(30))},
			want:    false,
		},
		{
			name:    "matter starts within two hours",
			matters: []*models.Matter{matterAt("Soon", in(119), in(180))},
			want:    false,
		},
		{
			name:    "matter starts exactly at window edge",
			matters: []*models.Matter{matterAt("Edge", in(120), in(180))},
			want:    false,
		},
		{
			name:    "matter starts beyond two hours",
			matters: []*models.Matter{matterAt("Later", in(121), in(180))},
			want:    true,
		},
		{
			name:    "matter already finished",
			matters: []*models.Matter{matterAt("Done", in(-120), in(-30))},
			want:    true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := HasNoUpcomingOrRunningTasks(now, tt.matters); got != tt.want {
				t.Errorf("HasNoUpcomingOrRunningTasks = %v, want %v", got, tt.want)
			}
		})
	}
}
