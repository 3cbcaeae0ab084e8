package models

import (
	"github.com/guregu/null/v6"
)

// This file contains the models for the tables the workflow engine writes
// into the monitoring database. All of them are read-only from our side.

// TaskStatus is a lifecycle state name as recorded in the `status` table.
type TaskStatus string

const (
	TsPending       TaskStatus = "pending"
	TsLaunched      TaskStatus = "launched"
	TsRunning       TaskStatus = "running"
	TsJoining       TaskStatus = "joining"
	TsRunningEnded  TaskStatus = "running_ended"
	TsUnsched       TaskStatus = "unsched"
	TsUnknown       TaskStatus = "unknown"
	TsExecDone      TaskStatus = "exec_done"
	TsMemoDone      TaskStatus = "memo_done"
	TsFailed        TaskStatus = "failed"
	TsDepFail       TaskStatus = "dep_fail"
	TsFailRetryable TaskStatus = "fail_retryable"
)

// Workflow is a model representing the `workflow` table: one row per run.
// The run_id is the engine's opaque identifier; the small sequential run
// number is assigned by the run index, not stored here.
type Workflow struct {
	RunID          string      `db:"run_id"`
	Name           null.String `db:"workflow_name"`
	Version        null.String `db:"workflow_version"`
	TimeBegan      null.String `db:"time_began"`
	TimeCompleted  null.String `db:"time_completed"`
	Host           string      `db:"host"`
	User           string      `db:"user"`
	RunDir         string      `db:"rundir"`
	TasksFailed    int         `db:"tasks_failed_count"`
	TasksCompleted int         `db:"tasks_completed_count"`
}

// Task is a model representing the `task` table. The hashsum is the
// memoization fingerprint and is absent for undispatched tasks.
type Task struct {
	RunID     string      `db:"run_id"`
	TaskID    int64       `db:"task_id"`
	FuncName  string      `db:"task_func_name"`
	FailCount int         `db:"task_fail_count"`
	Hashsum   null.String `db:"task_hashsum"`
	Stdout    null.String `db:"task_stdout"`
	Depends   null.String `db:"task_depends"`
}

// Try is a model representing the `try` table: one execution attempt of a
// task. Each timestamp is independently nullable depending on how far the
// attempt got before the snapshot was taken.
type Try struct {
	RunID        string      `db:"run_id"`
	TaskID       int64       `db:"task_id"`
	TryID        int64       `db:"try_id"`
	Hostname     null.String `db:"hostname"`
	TimeLaunched null.String `db:"task_try_time_launched"`
	TimeRunning  null.String `db:"task_try_time_running"`
	TimeReturned null.String `db:"task_try_time_returned"`
}

// StatusEvent is a model representing the `status` table: one timestamped
// lifecycle transition for a (task, try) pair.
type StatusEvent struct {
	RunID     string `db:"run_id"`
	TaskID    int64  `db:"task_id"`
	TryID     int64  `db:"try_id"`
	Timestamp string `db:"timestamp"`
	Status    string `db:"task_status_name"`
}

// TaskRow is the denormalized presentation row produced by the task
// read-model: one row per task in summary mode, one row per status event in
// history mode. Raw timestamps and the derived fields are filled in by the
// monitor package's row shaping.
type TaskRow struct {
	RunID     string      `db:"run_id"`
	TaskID    int64       `db:"task_id"`
	TaskNum   int64       `db:"tasknum"`
	Function  string      `db:"function"`
	Status    string      `db:"status"`
	Timestamp null.String `db:"timestamp"`
	Fails     int         `db:"fails"`
	TryID     null.Int    `db:"try_id"`
	Hostname  null.String `db:"hostname"`
	Launched  null.String `db:"launched"`
	Started   null.String `db:"started"`
	Returned  null.String `db:"returned"`
	Stdout    null.String `db:"stdout"`

	// Derived by row shaping.
	RunNum  int      `db:"-"`
	WaitSec null.Int `db:"-"`
	RunSec  null.Int `db:"-"`
	LogDir  string   `db:"-"`
}
