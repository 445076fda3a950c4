package chipset

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devicerescue/devicerescue/pkg/cmdexec"
)

// stubResolver pretends a fixed set of tools is installed.
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

// runSpy records every invocation and replies with a canned result.
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

func TestQualcommDetectUSBBeatsTokens(t *testing.T) {
	h := NewQualcommHandler(&stubResolver{}, &runSpy{})
	ctx := DeviceContext{
		"usb_vid": "05c6", "usb_pid": "9008",
		"chipset": "mediatek mt6768",
	}
	det := h.Detect(ctx)
	if det == nil {
		t.Fatal("expected detection")
	}
	if det.Mode != ModeEDL || det.Confidence != ConfidenceUSBExact {
		t.Fatalf("got mode=%q confidence=%v", det.Mode, det.Confidence)
	}
	if det.Metadata["match"] != "usb_id" {
		t.Fatalf("usb evidence should win, got %v", det.Metadata)
	}
}

func TestQualcommDetectTokens(t *testing.T) {
	h := NewQualcommHandler(&stubResolver{}, &runSpy{})
	det := h.Detect(DeviceContext{"hardware": "Qualcomm Snapdragon 888"})
	if det == nil || det.Confidence != ConfidenceTokenStrong {
		t.Fatalf("got %+v", det)
	}
	det = h.Detect(DeviceContext{"bootloader": "sdm845-bootloader"})
	if det == nil || det.Confidence != ConfidenceToken {
		t.Fatalf("weak token: got %+v", det)
	}
	if det = h.Detect(DeviceContext{"hardware": "exynos990"}); det != nil {
		t.Fatalf("expected no detection, got %+v", det)
	}
}

func TestQualcommEnterEDLFromADB(t *testing.T) {
	spy := &runSpy{}
	h := NewQualcommHandler(&stubResolver{}, spy)
	res := h.EnterMode(DeviceContext{"id": "demo-1", "mode": "adb"}, "EDL")
	if !res.Success {
		t.Fatalf("expected success: %s", res.Message)
	}
	if got := strings.Join(spy.calls[0], " "); got != "adb -s demo-1 reboot edl" {
		t.Fatalf("unexpected command %q", got)
	}
	if res.Data["command"] == "" {
		t.Fatal("result should carry the command line")
	}
}

func TestQualcommEnterModeRejectsWrongState(t *testing.T) {
	spy := &runSpy{}
	h := NewQualcommHandler(&stubResolver{}, spy)
	res := h.EnterMode(DeviceContext{"id": "demo-1", "mode": "edl"}, "edl")
	if res.Success {
		t.Fatal("entering edl from edl should fail")
	}
	res = h.EnterMode(DeviceContext{"id": "demo-1", "mode": "adb"}, "download")
	if res.Success {
		t.Fatal("unsupported mode should fail, not panic")
	}
	if spy.callCount() != 0 {
		t.Fatalf("no commands expected, got %d", spy.callCount())
	}
}

func TestQualcommRecoverNamesTool(t *testing.T) {
	h := NewQualcommHandler(&stubResolver{installed: map[string]bool{"qdl": true}}, &runSpy{})
	res := h.Recover(DeviceContext{})
	if !res.Success || res.Data["tool"] != "qdl" {
		t.Fatalf("got %+v", res)
	}

	h = NewQualcommHandler(&stubResolver{}, &runSpy{})
	res = h.Recover(DeviceContext{})
	if res.Success {
		t.Fatal("expected failure with no tools installed")
	}
	if !strings.Contains(res.Message, "edl") || !strings.Contains(res.Message, "qdl") {
		t.Fatalf("failure should name the candidate set: %s", res.Message)
	}
}

func TestMediaTekDetectModes(t *testing.T) {
	h := NewMediaTekHandler(&stubResolver{}, &runSpy{})
	det := h.Detect(DeviceContext{"usb_id": "0e8d:0003"})
	if det == nil || det.Mode != ModeBootROM || det.Confidence != ConfidenceUSBExact {
		t.Fatalf("got %+v", det)
	}
	det = h.Detect(DeviceContext{"usb_id": "0e8d:2000"})
	if det == nil || det.Mode != ModePreloader {
		t.Fatalf("got %+v", det)
	}
	det = h.Detect(DeviceContext{"product": "Helio G99 handset"})
	if det == nil || det.Confidence != ConfidenceTokenStrong {
		t.Fatalf("got %+v", det)
	}
}

func TestMediaTekPreloaderNotCommandable(t *testing.T) {
	spy := &runSpy{}
	h := NewMediaTekHandler(&stubResolver{}, spy)
	res := h.EnterMode(DeviceContext{"id": "x", "mode": "adb"}, "preloader")
	if res.Success {
		t.Fatal("preloader entry must be a negative result")
	}
	if spy.callCount() != 0 {
		t.Fatal("no command should be issued")
	}
	res = h.EnterMode(DeviceContext{"id": "x", "mode": "adb"}, "fastboot")
	if !res.Success {
		t.Fatalf("fastboot should work from adb: %s", res.Message)
	}
}

func TestSamsungDetectManufacturerField(t *testing.T) {
	h := NewSamsungHandler(&stubResolver{}, &runSpy{})
	det := h.Detect(DeviceContext{"manufacturer": "Samsung Electronics"})
	if det == nil || det.Confidence != ConfidenceTokenStrong {
		t.Fatalf("got %+v", det)
	}
	det = h.Detect(DeviceContext{"usb_id": "04e8:685d"})
	if det == nil || det.Mode != ModeDownload || det.Confidence != ConfidenceUSBExact {
		t.Fatalf("got %+v", det)
	}
}

func TestSamsungEnterDownload(t *testing.T) {
	spy := &runSpy{}
	h := NewSamsungHandler(&stubResolver{}, spy)
	res := h.EnterMode(DeviceContext{"id": "s10", "mode": "adb"}, "Download")
	if !res.Success {
		t.Fatalf("expected success: %s", res.Message)
	}
	if got := strings.Join(spy.calls[0], " "); got != "adb -s s10 reboot download" {
		t.Fatalf("unexpected command %q", got)
	}
}

func TestGenericAlwaysMatchesNeverActs(t *testing.T) {
	h := NewGenericHandler()
	det := h.Detect(DeviceContext{"mode": "fastboot"})
	if det == nil || det.Confidence != ConfidenceGeneric || det.Mode != ModeFastboot {
		t.Fatalf("got %+v", det)
	}
	if h.EnterMode(DeviceContext{}, "edl").Success {
		t.Fatal("generic EnterMode must fail")
	}
	if h.Recover(DeviceContext{}).Success {
		t.Fatal("generic Recover must fail")
	}
}
