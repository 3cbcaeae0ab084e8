package monitor

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/rs/zerolog/log"

	"github.com/TomGlanzman/Perp/internal/models"
)

// The engine writes timestamps as local-naive strings with microsecond
// precision. Reports show them stripped to whole seconds.
const (
	engineTimeLayout = "2006-01-02 15:04:05.999999"
	stampLayout      = "2006-01-02 15:04:05"
)

// missingDurationWarnCap bounds how many missing-runtime anomalies are
// logged per invocation before the tail is summarized in one line.
const missingDurationWarnCap = 10

// Shaper turns raw read-model rows into presentation rows: sequential run
// numbers, normalized timestamps, computed durations, derived log
// directories. One Shaper per invocation so the anomaly cap spans a whole
// report.
type Shaper struct {
	index          *RunIndex
	missingRuntime int
}

// NewShaper returns a Shaper deriving run numbers through ix.
func NewShaper(ix *RunIndex) *Shaper {
	return &Shaper{index: ix}
}

// Shape rewrites rows in place.
func (sh *Shaper) Shape(rows []models.TaskRow) {
	for i := range rows {
		sh.shapeRow(&rows[i])
	}
}

func (sh *Shaper) shapeRow(row *models.TaskRow) {
	if num, ok := sh.index.IDToNum(row.RunID); ok {
		row.RunNum = num
	}

	row.WaitSec = DiffSeconds(row.Launched, row.Started)
	row.RunSec = DiffSeconds(row.Started, row.Returned)

	row.Timestamp = NormalizeStamp(row.Timestamp)
	row.Launched = NormalizeStamp(row.Launched)
	row.Started = NormalizeStamp(row.Started)
	row.Returned = NormalizeStamp(row.Returned)

	row.LogDir = logDir(row.Stdout)

	// A done task with no computable run-time is a monitoring-log
	// integrity anomaly: report it, keep the duration absent, carry on.
	if strings.Contains(row.Status, "done") && !row.RunSec.Valid {
		sh.missingRuntime++
		switch {
		case sh.missingRuntime < missingDurationWarnCap:
			log.Warn().
				Int64("task_id", row.TaskID).
				Str("function", row.Function).
				Str("status", row.Status).
				Msg("Completed task has no runtime")
		case sh.missingRuntime == missingDurationWarnCap:
			log.Warn().Msg("Too many tasks with no runtime, suppressing further warnings")
		}
	}
}

// MissingRuntimes returns how many done tasks lacked a computable runtime.
func (sh *Shaper) MissingRuntimes() int { return sh.missingRuntime }

// parseEngineTime parses one of the engine's timestamp strings.
func parseEngineTime(s string) (time.Time, bool) {
	for _, layout := range []string{engineTimeLayout, stampLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeStamp strips sub-second precision from a nullable timestamp.
// Null stays null; an unparseable value is passed through untouched.
func NormalizeStamp(s null.String) null.String {
	if !s.Valid {
		return s
	}
	t, ok := parseEngineTime(s.String)
	if !ok {
		return s
	}
	return null.StringFrom(t.Format(stampLayout))
}

// DiffSeconds returns the calendar difference end-start in whole seconds,
// or null when either endpoint is absent or unparseable. Absent is not
// zero: a task that never started has no wait time at all.
func DiffSeconds(start, end null.String) null.Int {
	if !start.Valid || !end.Valid {
		return null.Int{}
	}
	s, ok := parseEngineTime(start.String)
	if !ok {
		return null.Int{}
	}
	e, ok := parseEngineTime(end.String)
	if !ok {
		return null.Int{}
	}
	return null.IntFrom(int64(e.Sub(s) / time.Second))
}

// logDir derives the log directory from the task's stdout capture path by
// dropping the extension. A task without captured stdout reports the
// literal "None".
func logDir(stdout null.String) string {
	if !stdout.Valid {
		return "None"
	}
	return strings.TrimSuffix(stdout.String, filepath.Ext(stdout.String))
}
