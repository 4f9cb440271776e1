package store

import (
	"time"

	"github.com/google/uuid"
)

const (
	TriggerReport = "report"
	TriggerFix    = "fix"
	TriggerReduce = "reduce"
)

// RunInput is what callers hand to SaveRun. ID and CreatedAt are filled in
// when empty.
type RunInput struct {
	ID        string
	Project   string
	Strategy  string
	Trigger   string
	CreatedAt time.Time
	Mean      float64
	Max       float64
	Entries   []Entry
}

type Entry struct {
	Room     string  `json:"room"`
	Category string  `json:"category"`
	Floor    int     `json:"floor"`
	Level    float64 `json:"level"`
	State    string  `json:"state"`
}

// Run is a stored report. ListRuns leaves Entries empty.
type Run struct {
	ID        string    `json:"id"`
	Project   string    `json:"project"`
	Strategy  string    `json:"strategy"`
	Trigger   string    `json:"trigger"`
	CreatedAt time.Time `json:"created_at"`
	Mean      float64   `json:"mean"`
	Max       float64   `json:"max"`
	Rooms     int       `json:"rooms"`
	Entries   []Entry   `json:"entries,omitempty"`
}

// RoomPoint is one room's classification within a stored run.
type RoomPoint struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Trigger   string    `json:"trigger"`
	Level     float64   `json:"level"`
	State     string    `json:"state"`
}

// Prepare fills the generated fields of a run before it is written.
func (r RunInput) Prepare() RunInput {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()
	if r.Trigger == "" {
		r.Trigger = TriggerReport
	}
	return r
}
