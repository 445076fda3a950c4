package repairflow

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devicerescue/devicerescue/pkg/chipset"
	"github.com/devicerescue/devicerescue/pkg/cmdexec"
)

type stubProvider struct {
	devices []chipset.DeviceContext
	errs    []string
}

func (s *stubProvider) DetectAll(ctx context.Context) ([]chipset.DeviceContext, []string) {
	return s.devices, s.errs
}

type stubResolver struct {
	installed map[string]bool
}

func (s *stubResolver) FindTool(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if s.installed[c] {
			return c, true
		}
	}
	return "", false
}

type runSpy struct {
	mu       sync.Mutex
	calls    [][]string
	exitCode int
	stderr   string
}

func (s *runSpy) Run(argv []string, timeout time.Duration) cmdexec.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := make([]string, len(argv))
	copy(call, argv)
	s.calls = append(s.calls, call)
	return cmdexec.Result{ExitCode: s.exitCode, Stderr: s.stderr}
}

func (s *runSpy) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type mapAnalyzer struct {
	out map[string]any
}

func (m *mapAnalyzer) Analyze(deviceID string) map[string]any { return m.out }

type stubShell struct {
	output string
	err    error
}

func (s *stubShell) RunShell(serial string, args ...string) (string, error) {
	return s.output, s.err
}

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingSink) Event(category, deviceID, method, level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, category+"|"+deviceID+"|"+method+"|"+message)
}

func adbDevice(id string) chipset.DeviceContext {
	return chipset.DeviceContext{"id": id, "mode": "adb", "chipset": "qualcomm"}
}

func baseConfig(spy *runSpy) Config {
	return Config{
		Runner:      spy,
		Provider:    &stubProvider{devices: []chipset.DeviceContext{adbDevice("demo-1")}},
		Resolver:    &stubResolver{installed: map[string]bool{"adb": true}},
		Shell:       &stubShell{output: "boot\nsystem\nuserdata\n"},
		Performance: &mapAnalyzer{out: map[string]any{"cpu_load": "0.4"}},
		Network:     &mapAnalyzer{out: map[string]any{"interfaces": []string{"wlan0"}, "wifi": map[string]any{"status": "enabled"}}},
		Display:     &mapAnalyzer{out: map[string]any{"screen_state": "on"}},
		SetupWizard: &mapAnalyzer{out: map[string]any{"completed": "true"}},
	}
}

func TestHappyPathAllActionsApplied(t *testing.T) {
	spy := &runSpy{}
	cfg := baseConfig(spy)
	// Zero interfaces makes reset-network required.
	cfg.Network = &mapAnalyzer{out: map[string]any{"interfaces": []string{}}}
	cfg.Confirm = func(prompt string) bool { return true }
	sink := &recordingSink{}
	cfg.Sink = sink

	result := New(cfg).Run(context.Background(), "demo-1")
	if !result.Success {
		t.Fatalf("overall success expected: %s", result.Message)
	}
	if !result.Initialize.Success || result.Initialize.Mode != "adb" {
		t.Fatalf("initialize: %+v", result.Initialize)
	}
	if !result.Scan.Success || len(result.Scan.Partitions) != 3 || result.Scan.PartitionSource != "adb" {
		t.Fatalf("scan: %+v", result.Scan)
	}
	if len(result.Remediate.Actions) != 5 {
		t.Fatalf("expected 5 actions, got %d", len(result.Remediate.Actions))
	}
	for _, action := range result.Remediate.Actions {
		if action.Skipped || !action.Success {
			t.Fatalf("action %s: skipped=%v success=%v", action.Name, action.Skipped, action.Success)
		}
	}
	if !result.Verify.Success || result.Verify.ActionsApplied != 5 || result.Verify.PartitionCount != 3 {
		t.Fatalf("verify: %+v", result.Verify)
	}
	if len(sink.events) == 0 {
		t.Fatal("phase transitions must reach the sink")
	}
	for _, ev := range sink.events {
		if !strings.HasPrefix(ev, "workflow|demo-1|repair-flow|") {
			t.Fatalf("bad event keying: %s", ev)
		}
	}
}

func TestResetNetworkNotRequiredWhenHealthy(t *testing.T) {
	spy := &runSpy{}
	cfg := baseConfig(spy)
	cfg.Confirm = func(prompt string) bool { return true }

	result := New(cfg).Run(context.Background(), "demo-1")
	var reset *WorkflowActionResult
	for i := range result.Remediate.Actions {
		if result.Remediate.Actions[i].Name == "reset-network" {
			reset = &result.Remediate.Actions[i]
		}
	}
	if reset == nil {
		t.Fatal("reset-network missing from catalog")
	}
	if !reset.Skipped || reset.Reason != ReasonNotRequired {
		t.Fatalf("healthy network should skip reset: %+v", reset)
	}
}

func TestResetNetworkEnabledByDisabledWifi(t *testing.T) {
	spy := &runSpy{}
	cfg := baseConfig(spy)
	cfg.Network = &mapAnalyzer{out: map[string]any{
		"interfaces": []string{"wlan0"},
		"wifi":       map[string]any{"status": "disabled"},
	}}
	cfg.Confirm = func(prompt string) bool { return true }

	result := New(cfg).Run(context.Background(), "demo-1")
	for _, action := range result.Remediate.Actions {
		if action.Name == "reset-network" && action.Skipped {
			t.Fatalf("disabled wifi should enable reset-network: %+v", action)
		}
	}
}

func TestMissingToolStubsAllPhases(t *testing.T) {
	spy := &runSpy{}
	cfg := baseConfig(spy)
	cfg.Resolver = &stubResolver{} // adb missing
	cfg.Confirm = func(prompt string) bool { return true }

	result := New(cfg).Run(context.Background(), "demo-1")
	if !result.Success {
		t.Fatal("overall success must hold: the device was found")
	}
	if !result.Initialize.Success || result.Initialize.Prerequisites["adb"] {
		t.Fatalf("initialize: %+v", result.Initialize)
	}
	if result.Scan.Success || result.Remediate.Success || result.Verify.Success {
		t.Fatal("scan/remediate/verify must report their own failure")
	}
	if !result.Remediate.Skipped {
		t.Fatal("remediation must be skipped wholesale")
	}
	if spy.callCount() != 0 {
		t.Fatalf("no commands may run without adb, got %d", spy.callCount())
	}
}

func TestDeclinedConfirmationSkipsEverything(t *testing.T) {
	spy := &runSpy{}
	cfg := baseConfig(spy)
	cfg.Network = &mapAnalyzer{out: map[string]any{"interfaces": []string{}}}
	cfg.Confirm = func(prompt string) bool { return false }

	result := New(cfg).Run(context.Background(), "demo-1")
	for _, action := range result.Remediate.Actions {
		if !action.Skipped || action.Reason != ReasonUserDeclined {
			t.Fatalf("action %s: %+v", action.Name, action)
		}
	}
	if spy.callCount() != 0 {
		t.Fatalf("declined actions must run zero commands, got %d", spy.callCount())
	}
}

func TestNilConfirmMeansDecline(t *testing.T) {
	spy := &runSpy{}
	cfg := baseConfig(spy)
	cfg.Confirm = nil

	result := New(cfg).Run(context.Background(), "demo-1")
	for _, action := range result.Remediate.Actions {
		if !action.Skipped {
			t.Fatalf("nil callback must decline action %s", action.Name)
		}
	}
	if spy.callCount() != 0 {
		t.Fatalf("nil callback must run zero commands, got %d", spy.callCount())
	}
}

func TestDeviceNotFoundShortCircuits(t *testing.T) {
	spy := &runSpy{}
	cfg := baseConfig(spy)
	cfg.Provider = &stubProvider{devices: []chipset.DeviceContext{adbDevice("other-device")}}

	result := New(cfg).Run(context.Background(), "demo-1")
	if result.Success {
		t.Fatal("device not found must fail the run")
	}
	if !strings.Contains(result.Message, "demo-1") {
		t.Fatalf("message must name the identifier: %s", result.Message)
	}
	if spy.callCount() != 0 {
		t.Fatalf("zero commands expected, got %d", spy.callCount())
	}
	if result.Scan.Success || len(result.Remediate.Actions) != 0 {
		t.Fatal("later phases must not have run")
	}
}

func TestRemediateSkippedOutsideADBMode(t *testing.T) {
	spy := &runSpy{}
	cfg := baseConfig(spy)
	edlDevice := chipset.DeviceContext{"id": "demo-1", "mode": "edl", "usb_id": "05c6:9008"}
	cfg.Provider = &stubProvider{devices: []chipset.DeviceContext{edlDevice}}
	cfg.Partitions = &stubPartitionReader{output: "boot 64MB\nsystem 2GB\n"}
	cfg.Confirm = func(prompt string) bool { return true }

	result := New(cfg).Run(context.Background(), "demo-1")
	if !result.Remediate.Skipped || len(result.Remediate.Actions) != 0 {
		t.Fatalf("remediation must be skipped wholesale in edl mode: %+v", result.Remediate)
	}
	if result.Scan.PartitionSource != "edl" || len(result.Scan.Partitions) != 2 {
		t.Fatalf("edl partition listing expected: %+v", result.Scan)
	}
	if spy.callCount() != 0 {
		t.Fatalf("no remediation commands in edl mode, got %d", spy.callCount())
	}
}

type stubPartitionReader struct {
	output string
	fail   bool
}

func (s *stubPartitionReader) ReadPartitionTable(ctx chipset.DeviceContext, loaderPath string) chipset.ActionResult {
	if s.fail {
		return chipset.Fail("loader handshake failed")
	}
	return chipset.Succeed("read partition table", "output", s.output)
}

func TestActionCommandFailureDoesNotStopRemainingCommands(t *testing.T) {
	spy := &runSpy{exitCode: 1, stderr: "pm: not found"}
	cfg := baseConfig(spy)
	cfg.Confirm = func(prompt string) bool { return true }

	result := New(cfg).Run(context.Background(), "demo-1")
	var clear *WorkflowActionResult
	for i := range result.Remediate.Actions {
		if result.Remediate.Actions[i].Name == "clear-setup-wizard-data" {
			clear = &result.Remediate.Actions[i]
		}
	}
	if clear == nil || len(clear.Steps) != 2 {
		t.Fatalf("both commands must attempt: %+v", clear)
	}
	if clear.Success {
		t.Fatal("failed commands must fail the action")
	}
	for _, step := range clear.Steps {
		if step.Detail != "pm: not found" {
			t.Fatalf("raw stderr must be preserved: %+v", step)
		}
	}
	if result.Remediate.Success {
		t.Fatal("a failed action must fail the phase")
	}
	if !result.Success {
		t.Fatal("overall success still mirrors initialize")
	}
}
