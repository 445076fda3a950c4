// Package adb implements device enumeration and on-device scans over the
// adb server using gadb.
package adb

import (
	"context"
	"fmt"
	"strings"

	"github.com/devicerescue/devicerescue/pkg/chipset"
	"github.com/httprunner/httprunner/v5/pkg/gadb"
	"github.com/pkg/errors"
)

// Provider enumerates attached devices and runs shell commands through gadb.
type Provider struct {
	client gadb.Client
}

// New creates a Provider backed by the given gadb client.
func New(client gadb.Client) *Provider {
	return &Provider{client: client}
}

// NewDefault creates a Provider using a default gadb client.
func NewDefault() (*Provider, error) {
	client, err := gadb.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "init adb client for provider")
	}
	return New(client), nil
}

// DetectAll snapshots every device the adb server currently sees into a
// fresh DeviceContext. Enumeration problems become error records, not
// aborts: a partial list is still worth repairing against.
func (p *Provider) DetectAll(ctx context.Context) ([]chipset.DeviceContext, []string) {
	if p == nil {
		return nil, []string{"adb provider is nil"}
	}
	devs, err := p.client.DeviceList()
	if err != nil {
		return nil, []string{fmt.Sprintf("list adb devices: %v", err)}
	}

	var contexts []chipset.DeviceContext
	var errRecords []string
	for _, dev := range devs {
		if dev == nil {
			continue
		}
		serial := strings.TrimSpace(dev.Serial())
		if serial == "" {
			continue
		}
		dctx := chipset.DeviceContext{
			chipset.KeyID:   serial,
			chipset.KeyMode: modeFromState(dev),
		}
		if dctx[chipset.KeyMode] == chipset.ModeADB {
			p.fillBuildProps(dev, dctx, &errRecords)
		}
		contexts = append(contexts, dctx)
	}
	return contexts, errRecords
}

// RunShell executes a shell command on the given device serial.
func (p *Provider) RunShell(serial string, args ...string) (string, error) {
	if p == nil {
		return "", errors.New("adb provider is nil")
	}
	if len(args) == 0 {
		return "", errors.New("adb provider: empty shell command")
	}
	dev, err := p.findDevice(serial)
	if err != nil {
		return "", err
	}
	if dev == nil {
		return "", errors.Errorf("device %s not found", serial)
	}
	return dev.RunShellCommand(args[0], args[1:]...)
}

func (p *Provider) findDevice(serial string) (*gadb.Device, error) {
	devs, err := p.client.DeviceList()
	if err != nil {
		return nil, errors.Wrap(err, "list adb devices")
	}
	target := strings.TrimSpace(serial)
	for _, d := range devs {
		if d != nil && strings.TrimSpace(d.Serial()) == target {
			return d, nil
		}
	}
	return nil, nil
}

func modeFromState(dev *gadb.Device) string {
	state, err := dev.State()
	if err != nil {
		return chipset.ModeUnknown
	}
	switch string(state) {
	case "device":
		return chipset.ModeADB
	case "":
		return chipset.ModeUnknown
	default:
		return strings.ToLower(string(state))
	}
}

// buildPropKeys maps Android build properties onto detection context fields.
var buildPropKeys = map[string]string{
	"ro.hardware":             chipset.KeyHardware,
	"ro.board.platform":       chipset.KeyChipset,
	"ro.product.manufacturer": chipset.KeyManufacturer,
	"ro.product.name":         chipset.KeyProduct,
	"ro.product.device":       chipset.KeyDevice,
	"ro.bootloader":           chipset.KeyBootloader,
}

func (p *Provider) fillBuildProps(dev *gadb.Device, dctx chipset.DeviceContext, errRecords *[]string) {
	for prop, key := range buildPropKeys {
		output, err := dev.RunShellCommand("getprop", prop)
		if err != nil {
			*errRecords = append(*errRecords, fmt.Sprintf("%s: getprop %s: %v", dctx[chipset.KeyID], prop, err))
			continue
		}
		if value := strings.TrimSpace(output); value != "" {
			dctx[key] = value
		}
	}
}
