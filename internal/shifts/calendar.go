// Package shifts serves the "my schedule" button: a static per-worker
// schedule blob plus a last-activity override. The schedule file is operator
// maintained, so it is schema-validated on load rather than trusted.
package shifts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type State string

const (
	StateWork   State = "work"
	StateClosed State = "closed"
	StateOff    State = "off"
)

// Label is the chat-facing name of the state.
func (s State) Label() string {
	switch s {
	case StateWork:
		return "смена"
	case StateClosed:
		return "закрыто"
	case StateOff:
		return "выходной"
	}
	return string(s)
}

const scheduleSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "propertyNames": {"pattern": "^\\d+$"},
  "additionalProperties": {
    "type": "object",
    "propertyNames": {"pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "additionalProperties": {"enum": ["work", "closed", "off"]}
  }
}`

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Day is one rendered calendar entry.
type Day struct {
	Date  time.Time
	State State
}

type Calendar struct {
	path     string
	activity *ActivityStore
	loc      *time.Location
	logger   *slog.Logger
	clock    Clock

	schedule map[string]map[string]State
}

type CalendarOption func(*Calendar)

func WithClock(c Clock) CalendarOption {
	return func(cal *Calendar) { cal.clock = c }
}

func NewCalendar(path string, activity *ActivityStore, loc *time.Location, logger *slog.Logger, opts ...CalendarOption) *Calendar {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	c := &Calendar{
		path:     path,
		activity: activity,
		loc:      loc,
		logger:   logger,
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads and validates the schedule blob. A missing file is not an
// error: the calendar just answers "no schedule" for everyone.
func (c *Calendar) Load() error {
	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		c.schedule = nil
		c.logger.Warn("shifts.schedule.missing", "path", c.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schedule: %w", err)
	}

	sch, err := jsonschema.CompileString("schedule.json", scheduleSchema)
	if err != nil {
		return fmt.Errorf("compile schedule schema: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse schedule: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	var schedule map[string]map[string]State
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return fmt.Errorf("parse schedule: %w", err)
	}
	c.schedule = schedule
	c.logger.Info("shifts.schedule.ok", "path", c.path, "workers", len(schedule))
	return nil
}

// Week is the worker's calendar from yesterday through five days ahead.
// Yesterday is forced to "closed" when the worker's last recorded activity
// fell on that date, so a finished shift never renders as still open.
func (c *Calendar) Week(workerID int64) ([]Day, error) {
	now := c.clock.Now().In(c.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
	yesterday := today.AddDate(0, 0, -1)

	entries := c.schedule[strconv.FormatInt(workerID, 10)]

	var lastActive time.Time
	var hasActivity bool
	if c.activity != nil {
		t, ok, err := c.activity.Last(workerID)
		if err != nil {
			return nil, err
		}
		lastActive, hasActivity = t, ok
	}

	days := make([]Day, 0, 7)
	for i := -1; i <= 5; i++ {
		date := today.AddDate(0, 0, i)
		state := StateOff
		if s, ok := entries[date.Format(DateLayout)]; ok {
			state = s
		}
		if date.Equal(yesterday) && hasActivity && lastActive.Format(DateLayout) == yesterday.Format(DateLayout) {
			state = StateClosed
		}
		days = append(days, Day{Date: date, State: state})
	}
	return days, nil
}

var weekdayShort = map[time.Weekday]string{
	time.Monday:    "пн",
	time.Tuesday:   "вт",
	time.Wednesday: "ср",
	time.Thursday:  "чт",
	time.Friday:    "пт",
	time.Saturday:  "сб",
	time.Sunday:    "вс",
}

// Render formats the week as chat text, one line per day.
func Render(days []Day) string {
	var b strings.Builder
	for _, d := range days {
		fmt.Fprintf(&b, "%s %s: %s\n", weekdayShort[d.Date.Weekday()], d.Date.Format("02.01"), d.State.Label())
	}
	return strings.TrimRight(b.String(), "\n")
}
