package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	adbprovider "github.com/devicerescue/devicerescue/internal/providers/adb"
	"github.com/devicerescue/devicerescue/pkg/chipset"
	"github.com/devicerescue/devicerescue/pkg/cmdexec"
	"github.com/devicerescue/devicerescue/pkg/tools"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newDispatcher() *chipset.Dispatcher {
	return chipset.NewDefaultDispatcher(tools.PathResolver{}, cmdexec.ExecRunner{})
}

// buildContext assembles a DeviceContext for one-off commands: live adb
// enumeration when --id matches an attached device, overlaid with any
// explicit --set key=value pairs.
func buildContext(cmd *cobra.Command, deviceID string, extra []string) (chipset.DeviceContext, error) {
	dctx := chipset.DeviceContext{}
	if deviceID != "" {
		dctx[chipset.KeyID] = deviceID
		if provider, err := adbprovider.NewDefault(); err == nil {
			devices, _ := provider.DetectAll(cmd.Context())
			for _, dev := range devices {
				if dev.ID() == deviceID {
					dctx = dev
					break
				}
			}
		}
	}
	for _, pair := range extra {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, errors.Errorf("invalid --set %q, expected key=value", pair)
		}
		dctx[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if len(dctx) == 0 {
		return nil, errors.New("empty device context: pass --id or --set key=value")
	}
	return dctx, nil
}

func printActionResult(res chipset.ActionResult) {
	status := "OK"
	if !res.Success {
		status = "FAILED"
	}
	fmt.Printf("%s: %s\n", status, res.Message)
	for key, value := range res.Data {
		if value != "" {
			fmt.Printf("  %s: %s\n", key, value)
		}
	}
}

// promptConfirm asks the operator on stdin. Used by the repair command when
// --yes is not passed.
func promptConfirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
