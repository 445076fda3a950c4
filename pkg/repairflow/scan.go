package repairflow

import (
	"fmt"
	"strings"

	"github.com/devicerescue/devicerescue/pkg/chipset"
	"github.com/devicerescue/devicerescue/pkg/edl"
)

func (o *Orchestrator) scan(device chipset.DeviceContext, adbReady bool) ScanResult {
	if !adbReady {
		return ScanResult{
			Success: false,
			Message: fmt.Sprintf("scan skipped: %s unavailable", requiredTool),
		}
	}

	deviceID := device.ID()
	res := ScanResult{
		Success:     true,
		Message:     "device scan completed",
		Performance: o.analyze(o.cfg.Performance, deviceID),
		Network:     o.analyze(o.cfg.Network, deviceID),
		Display:     o.analyze(o.cfg.Display, deviceID),
		SetupWizard: o.analyze(o.cfg.SetupWizard, deviceID),
	}
	res.Partitions, res.PartitionSource = o.listPartitions(device)
	return res
}

// listPartitions branches on the device mode: adb devices are queried over
// the filesystem, download-mode devices through the EDL partition reader.
func (o *Orchestrator) listPartitions(device chipset.DeviceContext) ([]string, string) {
	switch device.Mode() {
	case chipset.ModeADB:
		if o.cfg.Shell == nil {
			return nil, ""
		}
		output, err := o.cfg.Shell.RunShell(device.ID(), "ls", "/dev/block/by-name")
		if err != nil {
			o.event(device.ID(), "warn", fmt.Sprintf("partition listing failed: %v", err))
			return nil, "adb"
		}
		return splitLines(output), "adb"
	case chipset.ModeEDL, chipset.ModeDownload:
		if o.cfg.Partitions == nil {
			return nil, ""
		}
		res := o.cfg.Partitions.ReadPartitionTable(device, o.cfg.LoaderPath)
		if !res.Success {
			o.event(device.ID(), "warn", "partition table read failed: "+res.Message)
			return nil, "edl"
		}
		return edl.PartitionNames(res.Data["output"]), "edl"
	default:
		return nil, ""
	}
}

func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
