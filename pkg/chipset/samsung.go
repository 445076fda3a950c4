package chipset

import (
	"fmt"
	"strings"

	"github.com/devicerescue/devicerescue/pkg/cmdexec"
	"github.com/devicerescue/devicerescue/pkg/tools"
)

const samsungName = "Samsung"

var samsungRecoveryTools = []string{"heimdall", "odin4"}

var samsungUSBRules = []usbRule{
	{vid: "04e8", pid: "685d", mode: ModeDownload, confidence: ConfidenceUSBExact},
	{vid: "04e8", pid: "6601", mode: ModeDownload, confidence: ConfidenceUSB},
	{vid: "04e8", pid: "6860", mode: ModeADB, confidence: ConfidenceUSB},
}

var (
	samsungStrongTokens = []string{"exynos", "samsung"}
	samsungWeakTokens   = []string{"universal", "s5e"}
)

// samsungTokenFields extends the shared scan order with the manufacturer
// field, which Samsung firmware populates reliably.
var samsungTokenFields = append(append([]string{}, tokenFields...), KeyManufacturer)

// SamsungHandler recognizes Exynos-family devices and their Odin download
// mode.
type SamsungHandler struct {
	resolver tools.Resolver
	runner   cmdexec.Runner
}

func NewSamsungHandler(resolver tools.Resolver, runner cmdexec.Runner) *SamsungHandler {
	return &SamsungHandler{resolver: resolver, runner: runner}
}

func (h *SamsungHandler) Name() string { return samsungName }

func (h *SamsungHandler) Detect(ctx DeviceContext) *Detection {
	if rule := matchUSB(ctx, samsungUSBRules); rule != nil {
		return usbDetection(samsungName, "Samsung", rule)
	}
	if field, token, ok := matchTokens(ctx, samsungTokenFields, samsungStrongTokens); ok {
		return tokenDetection(samsungName, "Samsung", ctx, field, token, ConfidenceTokenStrong)
	}
	if field, token, ok := matchTokens(ctx, samsungTokenFields, samsungWeakTokens); ok {
		return tokenDetection(samsungName, "Samsung", ctx, field, token, ConfidenceToken)
	}
	return nil
}

// EnterMode supports the Odin download target, issued over adb from a
// normal-OS mode.
func (h *SamsungHandler) EnterMode(ctx DeviceContext, targetMode string) ActionResult {
	switch strings.ToLower(strings.TrimSpace(targetMode)) {
	case ModeDownload:
		if fail := requireADBMode(ctx, ModeDownload); fail != nil {
			return *fail
		}
		return adbReboot(h.runner, ctx.ID(), "download")
	default:
		return Fail(
			fmt.Sprintf("Samsung handler cannot switch the device into mode %q", targetMode),
			"supported_modes", ModeDownload,
		)
	}
}

func (h *SamsungHandler) Recover(ctx DeviceContext) ActionResult {
	tool, ok := h.resolver.FindTool(samsungRecoveryTools...)
	if !ok {
		return Fail(
			fmt.Sprintf("no Samsung recovery tool installed (tried %s)", strings.Join(samsungRecoveryTools, ", ")),
			"candidates", strings.Join(samsungRecoveryTools, ","),
		)
	}
	return Succeed(
		fmt.Sprintf("Samsung recovery tooling available: %s", tool),
		"tool", tool,
	)
}
