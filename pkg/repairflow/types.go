// Package repairflow drives one attached device through a fixed
// initialize/scan/remediate/verify sequence, building a remediation plan
// from the scan and gating destructive steps behind caller confirmation.
package repairflow

import (
	"time"

	"github.com/devicerescue/devicerescue/pkg/chipset"
)

// Skip reasons recorded on a WorkflowActionResult.
const (
	ReasonNotRequired  = "not_required"
	ReasonUserDeclined = "user_declined"
)

// WorkflowAction is one named remediation step. Built fresh per run from the
// current scan; Commands run sequentially and all always attempt.
type WorkflowAction struct {
	Name     string
	Label    string
	Commands [][]string
	Enabled  bool
}

// ActionStep is the outcome of one command inside an action.
type ActionStep struct {
	Command string
	Success bool
	Detail  string
}

// WorkflowActionResult is the outcome of executing (or skipping) one action.
// Success is the logical AND of all step successes; Reason is set only when
// Skipped.
type WorkflowActionResult struct {
	Name    string
	Label   string
	Steps   []ActionStep
	Success bool
	Skipped bool
	Reason  string
}

// InitializeResult reports prerequisite checks and device location. The
// shape is identical whether the phase succeeded or not so callers branch on
// Success alone.
type InitializeResult struct {
	Success       bool
	Message       string
	Prerequisites map[string]bool
	Devices       []chipset.DeviceContext
	Errors        []string

	// Device and Mode describe the located target; zero when not found.
	Device chipset.DeviceContext
	Mode   string
}

// ScanResult aggregates the sub-scan outputs. Analyzer maps are opaque
// except for the keys the orchestrator reads to compute enabled flags and
// the verify summary.
type ScanResult struct {
	Success     bool
	Message     string
	Performance map[string]any
	Network     map[string]any
	Display     map[string]any
	SetupWizard map[string]any
	Partitions  []string
	// PartitionSource records which path listed partitions: "adb" or "edl".
	PartitionSource string
}

// RemediateResult is the executed action plan.
type RemediateResult struct {
	Success bool
	Skipped bool
	Message string
	Actions []WorkflowActionResult
}

// VerifyResult is the purely observational before/after summary.
type VerifyResult struct {
	Success          bool
	Message          string
	InterfacesBefore int
	InterfacesAfter  int
	ActionsApplied   int
	ActionsSkipped   int
	PartitionCount   int
	ScreenState      string
}

// Result is the aggregate outcome of one workflow run. Success mirrors
// Initialize: a run that located its device is a successful run even when
// individual phases report their own failures.
type Result struct {
	RunID      string
	DeviceID   string
	Success    bool
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time

	Initialize InitializeResult
	Scan       ScanResult
	Remediate  RemediateResult
	Verify     VerifyResult
}
