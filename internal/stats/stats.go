// Package stats computes read-only views over the shared ledger: the daily
// global summary and per-worker personal statistics. It never writes.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/scooterfleet/assetbot/constants"
	"github.com/scooterfleet/assetbot/internal/common"
	"github.com/scooterfleet/assetbot/internal/roster"
)

// Source is the full-table snapshot read. Every call rescans; the ledger is
// small enough that incremental indexing would be overhead, not savings.
type Source interface {
	AllValues(ctx context.Context) ([][]string, error)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// WorkerDay is one active worker's slice of today.
type WorkerDay struct {
	Name       string
	Last       string // timestamp of the latest submission today
	Total      int
	Duplicates int
}

// Summary is the global daily view: only workers who submitted today.
type Summary struct {
	Date       string
	Workers    []WorkerDay
	Total      int
	Duplicates int
	Active     int
}

// Personal is one worker's statistics.
type Personal struct {
	Name            string
	Today           int
	TodayDuplicates int
	LastToday       string
	WeekCount       int
	BestWeekday     time.Weekday
	BestWeekdayHits int
	AvgPerActiveDay float64
	FirstEver       string
	AllTime         int
	Rank            int
}

type Engine struct {
	src    Source
	roster *roster.Roster
	clock  Clock
	loc    *time.Location
	logger *slog.Logger
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func NewEngine(src Source, r *roster.Roster, loc *time.Location, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	e := &Engine{src: src, roster: r, clock: systemClock{}, loc: loc, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// entry is one parsed ledger row for a single worker.
type entry struct {
	number string
	raw    string // timestamp as written
	at     time.Time
}

// DailySummary scans the whole table once and reports, per worker with at
// least one submission today, the count, the duplicate count and the last
// timestamp, plus global totals.
func (e *Engine) DailySummary(ctx context.Context) (Summary, error) {
	rows, err := e.src.AllValues(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("read table: %w", err)
	}

	now := e.clock.Now().In(e.loc)
	today := now.Format("02.01")
	sum := Summary{Date: today}

	for _, w := range e.roster.Workers() {
		if !w.Mapped() {
			continue
		}
		var dayEntries []entry
		for _, en := range e.workerEntries(rows, w) {
			if en.at.Format("02.01") == today {
				dayEntries = append(dayEntries, en)
			}
		}
		if len(dayEntries) == 0 {
			continue
		}
		wd := WorkerDay{
			Name:       w.Name,
			Last:       dayEntries[len(dayEntries)-1].raw,
			Total:      len(dayEntries),
			Duplicates: duplicates(dayEntries),
		}
		sum.Workers = append(sum.Workers, wd)
		sum.Total += wd.Total
		sum.Duplicates += wd.Duplicates
	}
	sum.Active = len(sum.Workers)
	e.logger.Info("stats.summary.ok", "date", today, "active", sum.Active, "total", sum.Total)
	return sum, nil
}

// Personal computes the requesting worker's statistics: today, the trailing
// 7 days by wall-clock delta, first-ever submission and all-time rank.
func (e *Engine) Personal(ctx context.Context, workerID int64) (Personal, error) {
	w, ok := e.roster.ByID(workerID)
	if !ok {
		return Personal{}, fmt.Errorf("worker %d: %w", workerID, common.ErrNotFound)
	}
	if !w.Mapped() {
		return Personal{}, fmt.Errorf("worker %q: %w", w.Name, common.ErrUnmapped)
	}
	rows, err := e.src.AllValues(ctx)
	if err != nil {
		return Personal{}, fmt.Errorf("read table: %w", err)
	}

	now := e.clock.Now().In(e.loc)
	today := now.Format("02.01")
	entries := e.workerEntries(rows, w)

	p := Personal{Name: w.Name, AllTime: len(entries)}

	var todayEntries, weekEntries []entry
	for _, en := range entries {
		if en.at.Format("02.01") == today {
			todayEntries = append(todayEntries, en)
		}
		delta := now.Sub(en.at)
		if delta >= 0 && delta <= 7*24*time.Hour {
			weekEntries = append(weekEntries, en)
		}
	}
	p.Today = len(todayEntries)
	p.TodayDuplicates = duplicates(todayEntries)
	if len(todayEntries) > 0 {
		p.LastToday = todayEntries[len(todayEntries)-1].raw
	}

	p.WeekCount = len(weekEntries)
	byWeekday := make(map[time.Weekday]int)
	activeDays := make(map[string]struct{})
	for _, en := range weekEntries {
		byWeekday[en.at.Weekday()]++
		activeDays[en.at.Format("2006-01-02")] = struct{}{}
	}
	for wd, n := range byWeekday {
		if n > p.BestWeekdayHits || (n == p.BestWeekdayHits && wd < p.BestWeekday) {
			p.BestWeekday = wd
			p.BestWeekdayHits = n
		}
	}
	if len(activeDays) > 0 {
		p.AvgPerActiveDay = float64(p.WeekCount) / float64(len(activeDays))
	}

	// Lexicographic minimum over the raw DD.MM HH:MM strings, exactly as
	// recorded. Not chronological across a year boundary ("01.01 00:10"
	// sorts before "31.12 23:50"); kept as the historical behavior.
	for _, en := range entries {
		if p.FirstEver == "" || en.raw < p.FirstEver {
			p.FirstEver = en.raw
		}
	}

	p.Rank = e.rank(rows, w)
	return p, nil
}

// rank orders all mapped workers by all-time count, descending; ties keep
// roster declaration order.
func (e *Engine) rank(rows [][]string, self roster.Worker) int {
	type tally struct {
		id    int64
		total int
	}
	var tallies []tally
	for _, w := range e.roster.Workers() {
		if !w.Mapped() {
			continue
		}
		tallies = append(tallies, tally{id: w.ID, total: len(e.workerEntries(rows, w))})
	}
	sort.SliceStable(tallies, func(i, j int) bool { return tallies[i].total > tallies[j].total })
	for i, t := range tallies {
		if t.id == self.ID {
			return i + 1
		}
	}
	return 0
}

// workerEntries extracts the worker's parsed column pair from a full-table
// snapshot, skipping the header and rows whose timestamp does not parse.
func (e *Engine) workerEntries(rows [][]string, w roster.Worker) []entry {
	if len(rows) <= constants.HeaderRow {
		return nil
	}
	numIdx, tsIdx := w.NumberColumn-1, w.TimestampColumn-1
	wide := numIdx
	if tsIdx > wide {
		wide = tsIdx
	}
	var out []entry
	for _, row := range rows[constants.HeaderRow:] {
		if len(row) <= wide {
			continue
		}
		raw := strings.TrimSpace(row[tsIdx])
		if raw == "" {
			continue
		}
		at, ok := e.parseTimestamp(raw)
		if !ok {
			continue
		}
		out = append(out, entry{number: row[numIdx], raw: raw, at: at})
	}
	return out
}

// parseTimestamp accepts the current and the legacy layout. The written
// form carries no year, so the current year is assumed.
func (e *Engine) parseTimestamp(raw string) (time.Time, bool) {
	var t time.Time
	var err error
	for _, layout := range []string{constants.TimeLayout, constants.LegacyTimeLayout} {
		t, err = time.ParseInLocation(layout, raw, e.loc)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, false
	}
	now := e.clock.Now().In(e.loc)
	return time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, e.loc), true
}

func duplicates(entries []entry) int {
	counts := make(map[string]int)
	for _, en := range entries {
		counts[en.number]++
	}
	d := 0
	for _, n := range counts {
		if n > 1 {
			d += n - 1
		}
	}
	return d
}
