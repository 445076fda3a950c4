package chipset

import (
	"fmt"
	"strings"

	"github.com/devicerescue/devicerescue/internal/config"
	"github.com/devicerescue/devicerescue/pkg/cmdexec"
)

// Handler is the capability set every platform implementation provides.
// Implementations are stateless and safe for concurrent use.
type Handler interface {
	// Name is the stable platform name used for dispatch and overrides.
	Name() string
	// Detect inspects the context and returns one confidence-scored
	// classification, or nil when no evidence matches.
	Detect(ctx DeviceContext) *Detection
	// EnterMode attempts to switch the device into targetMode. An
	// unsupported transition is a normal negative result, not an error.
	EnterMode(ctx DeviceContext, targetMode string) ActionResult
	// Recover confirms vendor recovery tooling is installed. Execution of
	// the actual recovery is left to the EDL toolkit.
	Recover(ctx DeviceContext) ActionResult
}

// usbRule maps one VID/PID pair to the low-level mode it implies.
type usbRule struct {
	vid        string
	pid        string
	mode       string
	confidence float64
}

// tokenFields is the fixed ordered set of context fields scanned for
// platform keywords. Samsung additionally scans the manufacturer field.
var tokenFields = []string{KeyChipset, KeyHardware, KeyProduct, KeyDevice, KeyBootloader}

func matchUSB(ctx DeviceContext, rules []usbRule) *usbRule {
	vid, pid, ok := ctx.USBID()
	if !ok {
		return nil
	}
	for i := range rules {
		if rules[i].vid == vid && rules[i].pid == pid {
			return &rules[i]
		}
	}
	return nil
}

// matchTokens scans fields in order for any of the tokens (substring match,
// case-insensitive) and returns the first hit.
func matchTokens(ctx DeviceContext, fields, tokens []string) (field, token string, ok bool) {
	for _, f := range fields {
		value := strings.ToLower(ctx.Get(f))
		if value == "" {
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(value, tok) {
				return f, tok, true
			}
		}
	}
	return "", "", false
}

func usbDetection(name, vendor string, rule *usbRule) *Detection {
	return &Detection{
		Chipset:    name,
		Vendor:     vendor,
		Mode:       rule.mode,
		Confidence: rule.confidence,
		Notes:      []string{fmt.Sprintf("usb id %s:%s matches %s %s mode", rule.vid, rule.pid, vendor, rule.mode)},
		Metadata: map[string]string{
			"match":   "usb_id",
			"usb_vid": rule.vid,
			"usb_pid": rule.pid,
		},
	}
}

func tokenDetection(name, vendor string, ctx DeviceContext, field, token string, confidence float64) *Detection {
	return &Detection{
		Chipset:    name,
		Vendor:     vendor,
		Mode:       ctx.Mode(),
		Confidence: confidence,
		Notes:      []string{fmt.Sprintf("field %q contains platform token %q", field, token)},
		Metadata: map[string]string{
			"match": "token",
			"field": field,
			"token": token,
			"value": ctx.Get(field),
		},
	}
}

// adbReboot issues "adb reboot <target>" for a device reachable in a
// normal-OS mode. The adb binary itself may be absent; that surfaces as a
// failed Result, never as a panic.
func adbReboot(runner cmdexec.Runner, deviceID, target string) ActionResult {
	argv := []string{"adb"}
	if deviceID != "" {
		argv = append(argv, "-s", deviceID)
	}
	argv = append(argv, "reboot", target)
	cmdline := strings.Join(argv, " ")

	res := runner.Run(argv, config.TimeoutMedium())
	data := []string{
		"command", cmdline,
		"output", strings.TrimSpace(res.Stdout),
		"error", strings.TrimSpace(res.Stderr),
	}
	if !res.OK() {
		return Fail(fmt.Sprintf("reboot to %s failed: %s", target, strings.TrimSpace(res.Stderr)), data...)
	}
	return Succeed(fmt.Sprintf("requested reboot to %s", target), data...)
}

func requireADBMode(ctx DeviceContext, target string) *ActionResult {
	if ctx.Mode() == ModeADB {
		return nil
	}
	res := Fail(
		fmt.Sprintf("cannot enter %s from mode %q: device must be reachable over adb", target, ctx.Mode()),
		"mode", ctx.Mode(),
	)
	return &res
}
