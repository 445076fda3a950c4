package edl

import (
	"fmt"
	"strings"

	"github.com/devicerescue/devicerescue/pkg/chipset"
)

// ChecklistItem is one recovery precondition with a human-readable verdict.
type ChecklistItem struct {
	Name   string
	OK     bool
	Detail string
}

// RecoveryChecklist evaluates the preconditions an operator should clear
// before attempting EDL recovery. Purely observational; no commands run.
func (t *Toolkit) RecoveryChecklist(ctx chipset.DeviceContext) []ChecklistItem {
	var items []ChecklistItem

	det := t.dispatcher.DetectChipset(ctx)
	switch {
	case det == nil:
		items = append(items, ChecklistItem{Name: "chipset", Detail: "no chipset detected"})
	case det.Chipset != "Qualcomm":
		items = append(items, ChecklistItem{
			Name:   "chipset",
			Detail: fmt.Sprintf("detected %s; EDL requires Qualcomm", det.Chipset),
		})
	default:
		items = append(items, ChecklistItem{
			Name: "chipset", OK: true,
			Detail: fmt.Sprintf("Qualcomm detected in %s mode (confidence %.2f)", det.Mode, det.Confidence),
		})
	}

	if tool, ok := t.resolver.FindTool(supportedTools...); ok {
		items = append(items, ChecklistItem{Name: "edl-tool", OK: true, Detail: tool + " installed"})
	} else {
		items = append(items, ChecklistItem{
			Name:   "edl-tool",
			Detail: fmt.Sprintf("none of %s installed", strings.Join(supportedTools, ", ")),
		})
	}

	if tool, ok := t.resolver.FindTool("adb"); ok {
		items = append(items, ChecklistItem{Name: "adb-tool", OK: true, Detail: tool + " installed"})
	} else {
		items = append(items, ChecklistItem{Name: "adb-tool", Detail: "adb not installed"})
	}

	return items
}
