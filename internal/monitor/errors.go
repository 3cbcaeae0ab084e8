package monitor

import "fmt"

// RunNotFoundError is returned when a requested run number falls outside
// the range the run index knows about. It is raised before any task-level
// query is issued, so the caller never sees a confusing empty report.
type RunNotFoundError struct {
	Requested int
	Min       int
	Max       int
}

func (e *RunNotFoundError) Error() string {
	if e.Max == 0 {
		return "run not found: the monitoring database contains no runs"
	}
	return fmt.Sprintf("run not found: requested run number %d is out of range (%d-%d)", e.Requested, e.Min, e.Max)
}
