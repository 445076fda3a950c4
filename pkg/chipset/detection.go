// Package chipset classifies USB-attached mobile devices by hardware
// platform and routes low-level mode and recovery requests to the matching
// vendor handler.
package chipset

// Low-level device modes reported by detections. Free-form lower-case; these
// are the values the built-in handlers emit.
const (
	ModeADB       = "adb"
	ModeFastboot  = "fastboot"
	ModeEDL       = "edl"
	ModePreloader = "preloader"
	ModeBootROM   = "bootrom"
	ModeDownload  = "download"
	ModeUnknown   = "unknown"
)

// Confidence constants. These rank detections relative to each other and are
// not probabilities; the literal values are load-bearing for handler
// ordering and are asserted in tests.
const (
	// ConfidenceUSBExact is reported for a VID/PID pair that identifies
	// both the platform and the low-level mode.
	ConfidenceUSBExact = 0.95
	// ConfidenceUSB is reported for a VID/PID pair that identifies the
	// platform only.
	ConfidenceUSB = 0.9
	// ConfidenceTokenStrong is reported for a vendor-name token match.
	ConfidenceTokenStrong = 0.65
	// ConfidenceToken is reported for an SoC model-prefix token match.
	ConfidenceToken = 0.55
	// ConfidenceGeneric is the unconditional fallback guess.
	ConfidenceGeneric = 0.1
)

// Detection is one handler's classification of a device. Immutable; built
// by Detect and discarded after dispatch.
type Detection struct {
	Chipset    string
	Vendor     string
	Mode       string
	Confidence float64
	Notes      []string
	Metadata   map[string]string
}

// ActionResult is the uniform outcome of every handler and toolkit
// operation. Message is human-readable on its own; Data carries structured
// diagnostics (resolved tool, exact command line, raw stderr) for
// programmatic consumers.
type ActionResult struct {
	Success bool
	Message string
	Data    map[string]string
}

// Succeed builds a successful ActionResult with optional key/value pairs.
func Succeed(message string, kv ...string) ActionResult {
	return ActionResult{Success: true, Message: message, Data: pairsToMap(kv)}
}

// Fail builds a failed ActionResult with optional key/value pairs.
func Fail(message string, kv ...string) ActionResult {
	return ActionResult{Success: false, Message: message, Data: pairsToMap(kv)}
}

func pairsToMap(kv []string) map[string]string {
	data := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		data[kv[i]] = kv[i+1]
	}
	return data
}
