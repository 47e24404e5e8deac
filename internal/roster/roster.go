// Package roster holds the fixed worker configuration: who may talk to the
// bot, which display name a sender id maps to, and which column pair in the
// shared table that name owns. It is loaded once at startup and treated as
// immutable afterwards.
package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Worker is one allow-listed operator. NumberColumn/TimestampColumn are
// 1-based positions in the shared table; both zero means the worker may use
// the bot but has no ledger slot (appends for them are dropped).
type Worker struct {
	ID              int64  `yaml:"id"`
	Name            string `yaml:"name"`
	NumberColumn    int    `yaml:"number_column"`
	TimestampColumn int    `yaml:"timestamp_column"`
}

// Mapped reports whether the worker owns a column pair.
func (w Worker) Mapped() bool {
	return w.NumberColumn > 0 && w.TimestampColumn > 0
}

type file struct {
	AdminID    int64    `yaml:"admin_id"`
	SpecialIDs []int64  `yaml:"special_ids"`
	Workers    []Worker `yaml:"workers"`
}

// Roster is the immutable view handed to the ledger writer, the stats
// engine and the chat gateway.
type Roster struct {
	adminID  int64
	specials map[int64]struct{}
	byID     map[int64]Worker
	workers  []Worker // declaration order, used for summary and rank ties
}

// Load reads and validates a roster YAML file.
func Load(path string) (*Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return New(f.AdminID, f.SpecialIDs, f.Workers)
}

// New builds a roster from already-parsed parts. Exposed so tests can use
// synthetic rosters without touching the filesystem.
func New(adminID int64, specialIDs []int64, workers []Worker) (*Roster, error) {
	if adminID == 0 {
		return nil, fmt.Errorf("roster: admin_id is required")
	}
	r := &Roster{
		adminID:  adminID,
		specials: make(map[int64]struct{}, len(specialIDs)),
		byID:     make(map[int64]Worker, len(workers)),
		workers:  make([]Worker, 0, len(workers)),
	}
	usedCols := make(map[int]string)
	for _, w := range workers {
		if w.ID == 0 || w.Name == "" {
			return nil, fmt.Errorf("roster: worker entry needs id and name (got id=%d name=%q)", w.ID, w.Name)
		}
		if _, dup := r.byID[w.ID]; dup {
			return nil, fmt.Errorf("roster: duplicate worker id %d", w.ID)
		}
		if w.Mapped() {
			if w.NumberColumn == w.TimestampColumn {
				return nil, fmt.Errorf("roster: worker %q maps both values to column %d", w.Name, w.NumberColumn)
			}
			for _, col := range []int{w.NumberColumn, w.TimestampColumn} {
				if owner, taken := usedCols[col]; taken {
					return nil, fmt.Errorf("roster: column %d claimed by both %q and %q", col, owner, w.Name)
				}
				usedCols[col] = w.Name
			}
		} else if w.NumberColumn != 0 || w.TimestampColumn != 0 {
			return nil, fmt.Errorf("roster: worker %q has a partial column pair", w.Name)
		}
		r.byID[w.ID] = w
		r.workers = append(r.workers, w)
	}
	for _, id := range specialIDs {
		if _, ok := r.byID[id]; !ok {
			return nil, fmt.Errorf("roster: special id %d is not a worker", id)
		}
		r.specials[id] = struct{}{}
	}
	return r, nil
}

// Allowed reports whether the sender id is on the allow-list.
func (r *Roster) Allowed(id int64) bool {
	_, ok := r.byID[id]
	return ok
}

// Special reports whether the sender may use export/table commands.
func (r *Roster) Special(id int64) bool {
	_, ok := r.specials[id]
	return ok
}

// AdminID is the identity receiving alert notifications.
func (r *Roster) AdminID() int64 {
	return r.adminID
}

// ByID resolves a sender id to its worker entry.
func (r *Roster) ByID(id int64) (Worker, bool) {
	w, ok := r.byID[id]
	return w, ok
}

// Workers returns all workers in declaration order.
func (r *Roster) Workers() []Worker {
	return r.workers
}
