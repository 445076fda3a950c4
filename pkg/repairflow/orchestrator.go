package repairflow

import (
	"context"
	"fmt"
	"time"

	"github.com/devicerescue/devicerescue/pkg/chipset"
	"github.com/devicerescue/devicerescue/pkg/cmdexec"
	"github.com/devicerescue/devicerescue/pkg/tools"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// logCategory and logMethod key every workflow event written to the sink.
const (
	logCategory = "workflow"
	logMethod   = "repair-flow"
)

// requiredTool must resolve for scans and remediation to run.
const requiredTool = "adb"

// DeviceProvider enumerates attached devices. Errors are returned as
// human-readable records, not aborts: partial enumeration is still useful.
type DeviceProvider interface {
	DetectAll(ctx context.Context) (devices []chipset.DeviceContext, errors []string)
}

// Analyzer is one scan sub-collaborator. Output is treated opaquely except
// for the specific keys the orchestrator reads.
type Analyzer interface {
	Analyze(deviceID string) map[string]any
}

// ShellRunner executes a shell command on a device reachable over adb.
type ShellRunner interface {
	RunShell(serial string, args ...string) (string, error)
}

// PartitionReader lists partitions on a device in EDL/download mode.
// *edl.Toolkit satisfies this.
type PartitionReader interface {
	ReadPartitionTable(ctx chipset.DeviceContext, loaderPath string) chipset.ActionResult
}

// EventSink receives one structured record per phase transition and action
// execution. Persistence is the sink's concern.
type EventSink interface {
	Event(category, deviceID, method, level, message string)
}

// Config wires the orchestrator's collaborators. Runner and Provider are
// required; everything else degrades gracefully when nil.
type Config struct {
	Runner     cmdexec.Runner
	Provider   DeviceProvider
	Resolver   tools.Resolver
	Shell      ShellRunner
	Partitions PartitionReader
	Sink       EventSink

	Performance Analyzer
	Network     Analyzer
	Display     Analyzer
	SetupWizard Analyzer

	// LoaderPath is handed to the EDL partition reader for devices found
	// in a download mode.
	LoaderPath string

	// Confirm gates every enabled action. A nil callback means every
	// action is declined; the workflow never assumes consent.
	Confirm func(prompt string) bool
	// Emit and Progress are fire-and-forget side channels.
	Emit     func(message, level string)
	Progress func(message string)
}

// Orchestrator runs the four-phase repair workflow for one device at a time.
// Run is sequential and blocking; callers wanting cancellation must own an
// interruptible execution context and accept that in-flight subprocesses
// keep running.
type Orchestrator struct {
	cfg Config
}

func New(cfg Config) *Orchestrator {
	if cfg.Resolver == nil {
		cfg.Resolver = tools.PathResolver{}
	}
	return &Orchestrator{cfg: cfg}
}

// Run executes Initialize -> Scan -> Remediate -> Verify against deviceID.
// A failed Initialize short-circuits the remaining phases; the result is
// complete and well-shaped either way.
func (o *Orchestrator) Run(ctx context.Context, deviceID string) Result {
	result := Result{
		RunID:     uuid.NewString(),
		DeviceID:  deviceID,
		StartedAt: time.Now(),
	}

	o.phase(deviceID, "initialize")
	result.Initialize = o.initialize(ctx, deviceID)
	if !result.Initialize.Success {
		result.Success = false
		result.Message = result.Initialize.Message
		result.FinishedAt = time.Now()
		o.event(deviceID, "error", result.Message)
		return result
	}

	adbReady := result.Initialize.Prerequisites[requiredTool]

	o.phase(deviceID, "scan")
	result.Scan = o.scan(result.Initialize.Device, adbReady)

	o.phase(deviceID, "remediate")
	result.Remediate = o.remediate(result.Initialize, result.Scan, adbReady)

	o.phase(deviceID, "verify")
	result.Verify = o.verify(result.Initialize.Device, result.Scan, result.Remediate, adbReady)

	result.Success = true
	result.Message = fmt.Sprintf("repair workflow completed for %s", deviceID)
	result.FinishedAt = time.Now()
	o.event(deviceID, "info", result.Message)
	return result
}

func (o *Orchestrator) initialize(ctx context.Context, deviceID string) InitializeResult {
	res := InitializeResult{
		Prerequisites: make(map[string]bool),
		Mode:          chipset.ModeUnknown,
	}

	_, adbOK := o.cfg.Resolver.FindTool(requiredTool)
	res.Prerequisites[requiredTool] = adbOK

	var devices []chipset.DeviceContext
	var errs []string
	if o.cfg.Provider != nil {
		devices, errs = o.cfg.Provider.DetectAll(ctx)
	} else {
		errs = append(errs, "no device provider configured")
	}
	res.Devices = devices
	res.Errors = errs

	for _, dev := range devices {
		if dev.ID() == deviceID {
			res.Device = dev
			res.Mode = dev.Mode()
			break
		}
	}
	if res.Device == nil {
		res.Success = false
		res.Message = fmt.Sprintf("device %s not found among %d attached devices", deviceID, len(devices))
		return res
	}

	res.Success = true
	if adbOK {
		res.Message = fmt.Sprintf("device %s located in %s mode", deviceID, res.Mode)
	} else {
		res.Message = fmt.Sprintf("device %s located in %s mode, but %s is not installed", deviceID, res.Mode, requiredTool)
	}
	return res
}

func (o *Orchestrator) verify(device chipset.DeviceContext, scan ScanResult, remediate RemediateResult, adbReady bool) VerifyResult {
	if !adbReady {
		return VerifyResult{
			Success: false,
			Message: fmt.Sprintf("verification skipped: %s unavailable", requiredTool),
		}
	}

	deviceID := device.ID()
	after := o.analyze(o.cfg.Network, deviceID)
	display := o.analyze(o.cfg.Display, deviceID)
	o.analyze(o.cfg.Performance, deviceID)

	applied, skipped := 0, 0
	for _, action := range remediate.Actions {
		if action.Skipped {
			skipped++
		} else {
			applied++
		}
	}

	return VerifyResult{
		Success:          true,
		Message:          "verification scans completed",
		InterfacesBefore: interfaceCount(scan.Network),
		InterfacesAfter:  interfaceCount(after),
		ActionsApplied:   applied,
		ActionsSkipped:   skipped,
		PartitionCount:   len(scan.Partitions),
		ScreenState:      screenState(display),
	}
}

func (o *Orchestrator) analyze(a Analyzer, deviceID string) map[string]any {
	if a == nil {
		return nil
	}
	return a.Analyze(deviceID)
}

// phase records a phase transition on every side channel.
func (o *Orchestrator) phase(deviceID, name string) {
	o.event(deviceID, "info", "phase: "+name)
}

func (o *Orchestrator) event(deviceID, level, message string) {
	log.Info().Str("device_id", deviceID).Str("category", logCategory).Msg(message)
	if o.cfg.Sink != nil {
		o.cfg.Sink.Event(logCategory, deviceID, logMethod, level, message)
	}
	if o.cfg.Emit != nil {
		o.cfg.Emit(message, level)
	}
	if o.cfg.Progress != nil {
		o.cfg.Progress(message)
	}
}

// interfaceCount reads network.interfaces from an analyzer map, tolerating
// the list and numeric shapes different backends produce.
func interfaceCount(network map[string]any) int {
	if network == nil {
		return 0
	}
	switch v := network["interfaces"].(type) {
	case []string:
		return len(v)
	case []any:
		return len(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// wifiDisabled reads network.wifi.status, tolerating both the nested map and
// the flattened key shape.
func wifiDisabled(network map[string]any) bool {
	if network == nil {
		return false
	}
	status := ""
	if wifi, ok := network["wifi"].(map[string]any); ok {
		status, _ = wifi["status"].(string)
	}
	if status == "" {
		status, _ = network["wifi.status"].(string)
	}
	switch status {
	case "disabled", "off", "down":
		return true
	}
	return false
}

// screenState reads display.screen_state with display.power_state as the
// fallback key.
func screenState(display map[string]any) string {
	if display == nil {
		return ""
	}
	if state, ok := display["screen_state"].(string); ok && state != "" {
		return state
	}
	state, _ := display["power_state"].(string)
	return state
}
