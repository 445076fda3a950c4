package adb

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// The analyzers run read-only shell probes and return loosely typed maps.
// The orchestrator reads only a few well-known keys; everything else is
// carried through for reports.

// PerformanceAnalyzer samples load and memory pressure.
type PerformanceAnalyzer struct {
	Provider *Provider
}

func (a *PerformanceAnalyzer) Analyze(deviceID string) map[string]any {
	out := map[string]any{}
	if load, err := a.Provider.RunShell(deviceID, "cat", "/proc/loadavg"); err == nil {
		if fields := strings.Fields(load); len(fields) > 0 {
			out["cpu_load"] = fields[0]
		}
	} else {
		log.Debug().Err(err).Str("serial", deviceID).Msg("loadavg probe failed")
	}
	if mem, err := a.Provider.RunShell(deviceID, "cat", "/proc/meminfo"); err == nil {
		for _, line := range strings.Split(mem, "\n") {
			if strings.HasPrefix(line, "MemAvailable:") {
				out["mem_available"] = strings.TrimSpace(strings.TrimPrefix(line, "MemAvailable:"))
				break
			}
		}
	}
	return out
}

// NetworkAnalyzer lists non-loopback interfaces and the Wi-Fi toggle state.
type NetworkAnalyzer struct {
	Provider *Provider
}

func (a *NetworkAnalyzer) Analyze(deviceID string) map[string]any {
	out := map[string]any{}
	var interfaces []string
	if links, err := a.Provider.RunShell(deviceID, "ip", "-o", "link"); err == nil {
		for _, line := range strings.Split(links, "\n") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			name := strings.TrimSuffix(fields[1], ":")
			if name == "" || name == "lo" {
				continue
			}
			interfaces = append(interfaces, name)
		}
	}
	out["interfaces"] = interfaces

	wifi := map[string]any{"status": "unknown"}
	if state, err := a.Provider.RunShell(deviceID, "settings", "get", "global", "wifi_on"); err == nil {
		switch strings.TrimSpace(state) {
		case "1":
			wifi["status"] = "enabled"
		case "0":
			wifi["status"] = "disabled"
		}
	}
	out["wifi"] = wifi
	return out
}

// DisplayAnalyzer reports the screen power state.
type DisplayAnalyzer struct {
	Provider *Provider
}

func (a *DisplayAnalyzer) Analyze(deviceID string) map[string]any {
	out := map[string]any{"screen_state": "unknown"}
	power, err := a.Provider.RunShell(deviceID, "dumpsys", "power")
	if err != nil {
		return out
	}
	switch {
	case strings.Contains(power, "mWakefulness=Awake"):
		out["screen_state"] = "on"
	case strings.Contains(power, "mWakefulness=Asleep"), strings.Contains(power, "mWakefulness=Dozing"):
		out["screen_state"] = "off"
	}
	return out
}

// SetupWizardAnalyzer reports whether initial device setup finished.
type SetupWizardAnalyzer struct {
	Provider *Provider
}

func (a *SetupWizardAnalyzer) Analyze(deviceID string) map[string]any {
	out := map[string]any{"completed": "unknown"}
	state, err := a.Provider.RunShell(deviceID, "settings", "get", "secure", "user_setup_complete")
	if err != nil {
		return out
	}
	switch strings.TrimSpace(state) {
	case "1":
		out["completed"] = "true"
	case "0", "null":
		out["completed"] = "false"
	}
	return out
}
