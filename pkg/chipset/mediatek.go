package chipset

import (
	"fmt"
	"strings"

	"github.com/devicerescue/devicerescue/pkg/cmdexec"
	"github.com/devicerescue/devicerescue/pkg/tools"
)

const mediatekName = "MediaTek"

var mediatekRecoveryTools = []string{"mtk", "mtkclient", "flash_tool"}

var mediatekUSBRules = []usbRule{
	{vid: "0e8d", pid: "0003", mode: ModeBootROM, confidence: ConfidenceUSBExact},
	{vid: "0e8d", pid: "2000", mode: ModePreloader, confidence: ConfidenceUSBExact},
	{vid: "0e8d", pid: "2001", mode: ModePreloader, confidence: ConfidenceUSB},
	{vid: "0e8d", pid: "201c", mode: ModeADB, confidence: ConfidenceUSB},
}

var (
	mediatekStrongTokens = []string{"mediatek", "mtk", "helio", "dimensity"}
	mediatekWeakTokens   = []string{"mt6", "mt8"}
)

// MediaTekHandler recognizes MTK-family devices and their BROM/preloader
// download states.
type MediaTekHandler struct {
	resolver tools.Resolver
	runner   cmdexec.Runner
}

func NewMediaTekHandler(resolver tools.Resolver, runner cmdexec.Runner) *MediaTekHandler {
	return &MediaTekHandler{resolver: resolver, runner: runner}
}

func (h *MediaTekHandler) Name() string { return mediatekName }

func (h *MediaTekHandler) Detect(ctx DeviceContext) *Detection {
	if rule := matchUSB(ctx, mediatekUSBRules); rule != nil {
		return usbDetection(mediatekName, "MediaTek", rule)
	}
	if field, token, ok := matchTokens(ctx, tokenFields, mediatekStrongTokens); ok {
		return tokenDetection(mediatekName, "MediaTek", ctx, field, token, ConfidenceTokenStrong)
	}
	if field, token, ok := matchTokens(ctx, tokenFields, mediatekWeakTokens); ok {
		return tokenDetection(mediatekName, "MediaTek", ctx, field, token, ConfidenceToken)
	}
	return nil
}

// EnterMode supports fastboot only. Preloader and bootrom require a
// power-cycle with the volume keys held, which no host command can trigger.
func (h *MediaTekHandler) EnterMode(ctx DeviceContext, targetMode string) ActionResult {
	switch strings.ToLower(strings.TrimSpace(targetMode)) {
	case ModeFastboot:
		if fail := requireADBMode(ctx, ModeFastboot); fail != nil {
			return *fail
		}
		return adbReboot(h.runner, ctx.ID(), "bootloader")
	case ModePreloader, ModeBootROM:
		return Fail(
			fmt.Sprintf("MediaTek %s mode cannot be entered by host command: power the device off, then plug in USB while holding both volume keys", targetMode),
			"supported_modes", ModeFastboot,
		)
	default:
		return Fail(
			fmt.Sprintf("MediaTek handler cannot switch the device into mode %q", targetMode),
			"supported_modes", ModeFastboot,
		)
	}
}

func (h *MediaTekHandler) Recover(ctx DeviceContext) ActionResult {
	tool, ok := h.resolver.FindTool(mediatekRecoveryTools...)
	if !ok {
		return Fail(
			fmt.Sprintf("no MediaTek recovery tool installed (tried %s)", strings.Join(mediatekRecoveryTools, ", ")),
			"candidates", strings.Join(mediatekRecoveryTools, ","),
		)
	}
	return Succeed(
		fmt.Sprintf("MediaTek recovery tooling available: %s", tool),
		"tool", tool,
	)
}
