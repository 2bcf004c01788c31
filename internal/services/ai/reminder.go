package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/benvon/dayflow/internal/models"
	"github.com/benvon/dayflow/internal/repeattime"
	"go.uber.org/zap"
)

// DefaultReminderPrompt is the instruction preamble used when the user
// has not configured their own
const DefaultReminderPrompt = `You are a personal productivity coach watching over the user's day.

You have the following abilities:

- A deep understanding of how human attention and focus work, and a genuine interest in the user's growth.
- Data analysis, time management and task prioritization skills; you can read CSV-formatted data.

Your workflow:

1. If the user has nothing scheduled right now, offer a constructive suggestion or point them at an open todo.
2. Watch the user's schedule and make sure some time each day goes to personal growth.
3. If prime focus hours hold no important task, or the day holds no self-improvement activity, compose a reminder.
4. Tailor reminders to the user's actual schedule and habits.

Reminders must be short and directly relevant. Provide exactly one reminder per reply.

Reply with JSON and nothing else:

{ "title": "<reminder title>", "description": "<reminder body>" }`

// Reminder is the parsed result of an AI reminder reply
type Reminder struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ReminderContext is the digest the composer renders into the system prompt
type ReminderContext struct {
	Now         time.Time
	Matters     []*models.Matter
	OpenTodos   []*models.Todo
	RepeatTasks []*models.RepeatTask
}

// ReminderComposer builds the schedule digest, asks the provider for one
// reminder, and parses the constrained JSON reply
type ReminderComposer struct {
	provider Provider
	logger   *zap.Logger
}

// NewReminderComposer creates a reminder composer
func NewReminderComposer(provider Provider, logger *zap.Logger) *ReminderComposer {
	return &ReminderComposer{provider: provider, logger: logger}
}

// Compose sends one reminder request. The returned error covers both
// transport failures and unparseable replies; callers treat any error as
// "no reminder this tick" and never surface partial output.
func (c *ReminderComposer) Compose(ctx context.Context, basePrompt string, rc ReminderContext) (*Reminder, error) {
	if basePrompt == "" {
		basePrompt = DefaultReminderPrompt
	}

	systemPrompt := BuildReminderSystemPrompt(basePrompt, rc)
	userMessage := fmt.Sprintf("The time is now %s. Compose one reminder for the user.",
		rc.Now.Format("2006-01-02 15:04:05"))

	reply, err := c.provider.SendPrompt(ctx, systemPrompt, userMessage)
	if err != nil {
		return nil, err
	}

	reminder, err := ParseReminder(reply)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("failed to parse AI reminder reply",
				zap.Error(err),
				zap.String("reply_preview", SanitizeResponse(reply, false)),
			)
		}
		return nil, err
	}

	return reminder, nil
}

// BuildReminderSystemPrompt renders the instruction preamble plus the
// schedule digest: today's matters, open todos, and active repeat tasks
func BuildReminderSystemPrompt(basePrompt string, rc ReminderContext) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Today's date is %s.", rc.Now.Format("2006-01-02")))
	b.WriteString("\n\n")

	b.WriteString("Today's schedule:\n")
	if len(rc.Matters) > 0 {
		b.WriteString("```csv\n")
		b.WriteString("start | end | title | tags\n")
		for _, matter := range rc.Matters {
			b.WriteString(fmt.Sprintf("%s | %s | %s | %s\n",
				matter.StartTime.Format("15:04"),
				matter.EndTime.Format("15:04"),
				matter.Title,
				matter.Tags,
			))
		}
		b.WriteString("```\n")
	} else {
		b.WriteString("Nothing scheduled today.\n")
	}

	if len(rc.OpenTodos) > 0 {
		b.WriteString("\nOpen todos:\n")
		b.WriteString("```csv\n")
		b.WriteString("title\n")
		for _, todo := range rc.OpenTodos {
			b.WriteString(todo.Title)
			b.WriteString("\n")
		}
		b.WriteString("```\n")
	}

	if len(rc.RepeatTasks) > 0 {
		b.WriteString("\nRecurring tasks:\n")
		b.WriteString("```csv\n")
		b.WriteString("title | tags | schedule\n")
		for _, task := range rc.RepeatTasks {
			schedule := task.RepeatTime
			if value, err := repeattime.Parse(task.RepeatTime); err == nil {
				schedule = fmt.Sprintf("%s, %s-%s", value.Describe(), value.Start, value.End)
			}
			b.WriteString(fmt.Sprintf("%s | %s | %s\n", task.Title, task.Tags, schedule))
		}
		b.WriteString("```\n")
	}

	return b.String()
}

// ParseReminder parses a model reply into a reminder. When the reply is
// not bare JSON the first balanced-looking object is extracted before
// giving up; anything unparseable is an error, never a partial result.
func ParseReminder(content string) (*Reminder, error) {
	var reminder Reminder
	raw := content
	if err := json.Unmarshal([]byte(raw), &reminder); err != nil {
		if len(raw) > 0 && raw[0] != '{' {
			start := bytes.Index([]byte(raw), []byte("{"))
			end := bytes.LastIndex([]byte(raw), []byte("}"))
			if start != -1 && end != -1 && end > start {
				raw = raw[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(raw), &reminder); err != nil {
			return nil, fmt.Errorf("failed to parse reminder reply: %w", err)
		}
	}

	if reminder.Title == "" {
		return nil, fmt.Errorf("reminder reply missing title")
	}

	return &reminder, nil
}
