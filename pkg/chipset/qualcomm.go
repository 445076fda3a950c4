package chipset

import (
	"fmt"
	"strings"

	"github.com/devicerescue/devicerescue/pkg/cmdexec"
	"github.com/devicerescue/devicerescue/pkg/tools"
)

const qualcommName = "Qualcomm"

// qualcommRecoveryTools are probed in order; the first installed wins.
var qualcommRecoveryTools = []string{"edl", "qdl", "emmcdl"}

var qualcommUSBRules = []usbRule{
	{vid: "05c6", pid: "9008", mode: ModeEDL, confidence: ConfidenceUSBExact},
	{vid: "05c6", pid: "900e", mode: ModeEDL, confidence: ConfidenceUSB},
	{vid: "05c6", pid: "9025", mode: ModeADB, confidence: ConfidenceUSB},
}

var (
	qualcommStrongTokens = []string{"qualcomm", "snapdragon", "qcom"}
	qualcommWeakTokens   = []string{"msm", "sdm", "sm8", "sm7", "sm6", "apq", "sdx"}
)

// QualcommHandler recognizes Snapdragon-family devices and their 9008 EDL
// emergency mode.
type QualcommHandler struct {
	resolver tools.Resolver
	runner   cmdexec.Runner
}

func NewQualcommHandler(resolver tools.Resolver, runner cmdexec.Runner) *QualcommHandler {
	return &QualcommHandler{resolver: resolver, runner: runner}
}

func (h *QualcommHandler) Name() string { return qualcommName }

func (h *QualcommHandler) Detect(ctx DeviceContext) *Detection {
	if rule := matchUSB(ctx, qualcommUSBRules); rule != nil {
		return usbDetection(qualcommName, "Qualcomm", rule)
	}
	if field, token, ok := matchTokens(ctx, tokenFields, qualcommStrongTokens); ok {
		return tokenDetection(qualcommName, "Qualcomm", ctx, field, token, ConfidenceTokenStrong)
	}
	if field, token, ok := matchTokens(ctx, tokenFields, qualcommWeakTokens); ok {
		return tokenDetection(qualcommName, "Qualcomm", ctx, field, token, ConfidenceToken)
	}
	return nil
}

// EnterMode supports edl and fastboot targets, both issued over adb from a
// normal-OS mode.
func (h *QualcommHandler) EnterMode(ctx DeviceContext, targetMode string) ActionResult {
	switch strings.ToLower(strings.TrimSpace(targetMode)) {
	case ModeEDL:
		if fail := requireADBMode(ctx, ModeEDL); fail != nil {
			return *fail
		}
		return adbReboot(h.runner, ctx.ID(), "edl")
	case ModeFastboot:
		if fail := requireADBMode(ctx, ModeFastboot); fail != nil {
			return *fail
		}
		return adbReboot(h.runner, ctx.ID(), "bootloader")
	default:
		return Fail(
			fmt.Sprintf("Qualcomm handler cannot switch the device into mode %q", targetMode),
			"supported_modes", ModeEDL+","+ModeFastboot,
		)
	}
}

func (h *QualcommHandler) Recover(ctx DeviceContext) ActionResult {
	tool, ok := h.resolver.FindTool(qualcommRecoveryTools...)
	if !ok {
		return Fail(
			fmt.Sprintf("no Qualcomm recovery tool installed (tried %s)", strings.Join(qualcommRecoveryTools, ", ")),
			"candidates", strings.Join(qualcommRecoveryTools, ","),
		)
	}
	return Succeed(
		fmt.Sprintf("Qualcomm recovery tooling available: %s", tool),
		"tool", tool,
	)
}
