package chipset

import "strings"

// DeviceContext is the flat string snapshot of a device's currently known
// attributes, supplied fresh per operation by the enumeration layer. Handlers
// read only the keys they understand and never mutate the map.
type DeviceContext map[string]string

// Well-known context keys. Enumeration backends may add arbitrary extras.
const (
	KeyID           = "id"
	KeyMode         = "mode"
	KeyUSBVID       = "usb_vid"
	KeyUSBPID       = "usb_pid"
	KeyUSBID        = "usb_id"
	KeyUSB          = "usb"
	KeyChipset      = "chipset"
	KeyHardware     = "hardware"
	KeyProduct      = "product"
	KeyDevice       = "device"
	KeyBootloader   = "bootloader"
	KeyManufacturer = "manufacturer"
)

// Get returns the trimmed value for key, or "" when absent.
func (c DeviceContext) Get(key string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c[key])
}

// ID returns the device identifier (adb serial, USB address, ...).
func (c DeviceContext) ID() string {
	return c.Get(KeyID)
}

// Mode returns the lower-cased device mode, or ModeUnknown when absent.
func (c DeviceContext) Mode() string {
	mode := strings.ToLower(c.Get(KeyMode))
	if mode == "" {
		return ModeUnknown
	}
	return mode
}

// USBID extracts the normalized lower-case hex VID/PID pair. Both the split
// usb_vid/usb_pid form and the joined "vvvv:pppp" usb_id/usb form are
// accepted.
func (c DeviceContext) USBID() (vid, pid string, ok bool) {
	vid = normalizeHexID(c.Get(KeyUSBVID))
	pid = normalizeHexID(c.Get(KeyUSBPID))
	if vid != "" && pid != "" {
		return vid, pid, true
	}
	joined := c.Get(KeyUSBID)
	if joined == "" {
		joined = c.Get(KeyUSB)
	}
	parts := strings.SplitN(joined, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	vid = normalizeHexID(parts[0])
	pid = normalizeHexID(parts[1])
	if vid == "" || pid == "" {
		return "", "", false
	}
	return vid, pid, true
}

func normalizeHexID(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	raw = strings.TrimPrefix(raw, "0x")
	if raw == "" {
		return ""
	}
	for _, r := range raw {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return ""
		}
	}
	// USB IDs are 16-bit; pad to the canonical four digits.
	for len(raw) < 4 {
		raw = "0" + raw
	}
	return raw
}
