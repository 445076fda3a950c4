package repairflow

import (
	"fmt"
	"strings"

	"github.com/devicerescue/devicerescue/internal/config"
	"github.com/devicerescue/devicerescue/pkg/chipset"
)

func (o *Orchestrator) remediate(init InitializeResult, scan ScanResult, adbReady bool) RemediateResult {
	if !adbReady {
		return RemediateResult{
			Success: false,
			Skipped: true,
			Message: fmt.Sprintf("remediation skipped: %s unavailable", requiredTool),
		}
	}
	if init.Mode != chipset.ModeADB {
		return RemediateResult{
			Success: false,
			Skipped: true,
			Message: fmt.Sprintf("remediation requires the device in %s mode, found %q; no partial remediation in other modes", chipset.ModeADB, init.Mode),
		}
	}

	deviceID := init.Device.ID()
	actions := buildActionCatalog(deviceID, scan)

	res := RemediateResult{Success: true, Message: "remediation plan executed"}
	for _, action := range actions {
		outcome := o.runAction(deviceID, action)
		res.Actions = append(res.Actions, outcome)
		if !outcome.Skipped && !outcome.Success {
			res.Success = false
		}
	}
	if !res.Success {
		res.Message = "one or more remediation actions failed"
	}
	return res
}

// buildActionCatalog returns the fixed ordered remediation plan. Only
// reset-network's enabled flag is computed from the scan; everything else is
// always on.
func buildActionCatalog(deviceID string, scan ScanResult) []WorkflowAction {
	adb := func(args ...string) []string {
		return append([]string{"adb", "-s", deviceID}, args...)
	}
	resetNetworkNeeded := interfaceCount(scan.Network) == 0 || wifiDisabled(scan.Network)

	return []WorkflowAction{
		{
			Name:     "reboot-to-recovery",
			Label:    "Reboot the device into recovery mode",
			Commands: [][]string{adb("reboot", "recovery")},
			Enabled:  true,
		},
		{
			Name:     "restart-daemon",
			Label:    "Restart the on-device adb daemon",
			Commands: [][]string{adb("shell", "setprop", "ctl.restart", "adbd")},
			Enabled:  true,
		},
		{
			Name:  "clear-setup-wizard-data",
			Label: "Clear setup wizard application data",
			Commands: [][]string{
				adb("shell", "pm", "clear", "com.google.android.setupwizard"),
				adb("shell", "pm", "clear", "com.android.provision"),
			},
			Enabled: true,
		},
		{
			Name:  "reset-network",
			Label: "Re-enable Wi-Fi and mobile data",
			Commands: [][]string{
				adb("shell", "svc", "wifi", "enable"),
				adb("shell", "svc", "data", "enable"),
			},
			Enabled: resetNetworkNeeded,
		},
		{
			Name:     "factory-reset",
			Label:    "Factory reset the device (destroys all user data)",
			Commands: [][]string{adb("shell", "am", "broadcast", "-a", "android.intent.action.FACTORY_RESET", "-p", "android")},
			Enabled:  true,
		},
	}
}

// runAction gates one action behind confirmation, then runs its commands
// sequentially. Every command always attempts; one failure does not stop the
// rest, and the action succeeds only when all of them did.
func (o *Orchestrator) runAction(deviceID string, action WorkflowAction) WorkflowActionResult {
	result := WorkflowActionResult{Name: action.Name, Label: action.Label}

	if !action.Enabled {
		result.Skipped = true
		result.Reason = ReasonNotRequired
		o.event(deviceID, "info", fmt.Sprintf("action %s skipped: not required", action.Name))
		return result
	}

	prompt := fmt.Sprintf("%s — apply to device %s?", action.Label, deviceID)
	if o.cfg.Confirm == nil || !o.cfg.Confirm(prompt) {
		result.Skipped = true
		result.Reason = ReasonUserDeclined
		o.event(deviceID, "info", fmt.Sprintf("action %s skipped: declined", action.Name))
		return result
	}

	result.Success = true
	for _, argv := range action.Commands {
		cmdline := strings.Join(argv, " ")
		run := o.cfg.Runner.Run(argv, config.TimeoutMedium())
		step := ActionStep{Command: cmdline, Success: run.OK()}
		if step.Success {
			step.Detail = strings.TrimSpace(run.Stdout)
		} else {
			step.Detail = strings.TrimSpace(run.Stderr)
			result.Success = false
		}
		result.Steps = append(result.Steps, step)
	}

	level := "info"
	verdict := "succeeded"
	if !result.Success {
		level = "error"
		verdict = "failed"
	}
	o.event(deviceID, level, fmt.Sprintf("action %s %s (%d commands)", action.Name, verdict, len(result.Steps)))
	return result
}
