// Package edl builds and executes low-level Qualcomm emergency-download
// operations (flash, dump, partition table reads) on top of whichever
// supported host tool is installed.
package edl

import (
	"fmt"
	"strings"

	"github.com/devicerescue/devicerescue/internal/config"
	"github.com/devicerescue/devicerescue/pkg/chipset"
	"github.com/devicerescue/devicerescue/pkg/cmdexec"
	"github.com/devicerescue/devicerescue/pkg/tools"
	"github.com/rs/zerolog/log"
)

// supportedTools are probed in order. Each exposes the same logical
// operations behind a different flag convention.
var supportedTools = []string{"edl", "qdl", "emmcdl"}

// convention maps one host tool to its command-line shapes.
type convention struct {
	flashArgs func(loader, partition, image string) []string
	dumpArgs  func(loader, partition, out string) []string
	gptArgs   func(loader string) []string
}

var conventions = map[string]convention{
	"edl": {
		flashArgs: func(loader, partition, image string) []string {
			return []string{"edl", "w", partition, image, "--loader", loader}
		},
		dumpArgs: func(loader, partition, out string) []string {
			return []string{"edl", "r", partition, out, "--loader", loader}
		},
		gptArgs: func(loader string) []string {
			return []string{"edl", "printgpt", "--loader", loader}
		},
	},
	"qdl": {
		flashArgs: func(loader, partition, image string) []string {
			return []string{"qdl", "--loader", loader, "--storage", partition, image}
		},
		dumpArgs: func(loader, partition, out string) []string {
			return []string{"qdl", "--loader", loader, "--storage", partition, "--read", out}
		},
		gptArgs: func(loader string) []string {
			return []string{"qdl", "--loader", loader, "--print-gpt"}
		},
	},
	"emmcdl": {
		flashArgs: func(loader, partition, image string) []string {
			return []string{"emmcdl", "-f", loader, "-i", image, "-b", partition}
		},
		dumpArgs: func(loader, partition, out string) []string {
			return []string{"emmcdl", "-f", loader, "-d", partition, "-o", out}
		},
		gptArgs: func(loader string) []string {
			return []string{"emmcdl", "-f", loader, "-g"}
		},
	},
}

// Toolkit executes EDL operations. Each public operation runs at most one
// external command, bounded by a timeout tier, and never retries.
type Toolkit struct {
	dispatcher *chipset.Dispatcher
	resolver   tools.Resolver
	runner     cmdexec.Runner
}

func NewToolkit(dispatcher *chipset.Dispatcher, resolver tools.Resolver, runner cmdexec.Runner) *Toolkit {
	return &Toolkit{dispatcher: dispatcher, resolver: resolver, runner: runner}
}

// requireQualcomm gates EDL-specific operations on the detected or declared
// chipset. A mismatch is a normal failure naming what was detected, and
// guarantees zero external commands ran.
func (t *Toolkit) requireQualcomm(ctx chipset.DeviceContext) *chipset.ActionResult {
	det := t.dispatcher.DetectChipset(ctx)
	if det == nil || det.Chipset != "Qualcomm" {
		detected := "none"
		if det != nil {
			detected = det.Chipset
		}
		res := chipset.Fail(
			fmt.Sprintf("EDL operations require a Qualcomm device, detected chipset: %s", detected),
			"detected_chipset", detected,
		)
		return &res
	}
	return nil
}

func (t *Toolkit) resolveTool() (string, *chipset.ActionResult) {
	tool, ok := t.resolver.FindTool(supportedTools...)
	if !ok {
		res := chipset.Fail(
			fmt.Sprintf("no EDL host tool installed (tried %s)", strings.Join(supportedTools, ", ")),
			"candidates", strings.Join(supportedTools, ","),
		)
		return "", &res
	}
	return tool, nil
}

// execute runs the single external command for an operation and folds its
// outcome into the uniform ActionResult shape. Data always carries the tool
// name and the exact command line for auditability.
func (t *Toolkit) execute(tool string, argv []string, okMessage string) chipset.ActionResult {
	cmdline := strings.Join(argv, " ")
	log.Info().Str("tool", tool).Str("cmd", cmdline).Msg("edl operation")
	res := t.runner.Run(argv, config.TimeoutLong())
	data := []string{
		"tool", tool,
		"command", cmdline,
		"output", strings.TrimSpace(res.Stdout),
		"error", strings.TrimSpace(res.Stderr),
	}
	if !res.OK() {
		return chipset.Fail(
			fmt.Sprintf("%s failed (exit %d): %s", tool, res.ExitCode, strings.TrimSpace(res.Stderr)),
			data...,
		)
	}
	return chipset.Succeed(okMessage, data...)
}

// Flash writes an image onto one partition through the EDL loader.
func (t *Toolkit) Flash(ctx chipset.DeviceContext, partition, imagePath, loaderPath string) chipset.ActionResult {
	if fail := t.requireQualcomm(ctx); fail != nil {
		return *fail
	}
	tool, fail := t.resolveTool()
	if fail != nil {
		return *fail
	}
	argv := conventions[tool].flashArgs(loaderPath, partition, imagePath)
	return t.execute(tool, argv, fmt.Sprintf("flashed %s onto partition %s", imagePath, partition))
}

// Dump reads one partition into a local file through the EDL loader.
func (t *Toolkit) Dump(ctx chipset.DeviceContext, partition, outPath, loaderPath string) chipset.ActionResult {
	if fail := t.requireQualcomm(ctx); fail != nil {
		return *fail
	}
	tool, fail := t.resolveTool()
	if fail != nil {
		return *fail
	}
	argv := conventions[tool].dumpArgs(loaderPath, partition, outPath)
	return t.execute(tool, argv, fmt.Sprintf("dumped partition %s to %s", partition, outPath))
}

// ReadPartitionTable prints the device GPT through the EDL loader. The raw
// tool output is preserved in Data["output"].
func (t *Toolkit) ReadPartitionTable(ctx chipset.DeviceContext, loaderPath string) chipset.ActionResult {
	if fail := t.requireQualcomm(ctx); fail != nil {
		return *fail
	}
	tool, fail := t.resolveTool()
	if fail != nil {
		return *fail
	}
	argv := conventions[tool].gptArgs(loaderPath)
	return t.execute(tool, argv, "read partition table")
}

// PartitionNames extracts partition names from raw partition-table output,
// one per line, skipping obvious header or separator lines.
func PartitionNames(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "gpt") || strings.Contains(lower, "lun") || strings.HasPrefix(lower, "name") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}
