package chipset

const genericName = "Generic"

// GenericHandler is the unconditional fallback so dispatch always has a
// handler to return. It can never act on a device.
type GenericHandler struct{}

func NewGenericHandler() *GenericHandler { return &GenericHandler{} }

func (GenericHandler) Name() string { return genericName }

// Detect always matches at the fallback confidence so ranking prefers any
// vendor-specific evidence over it.
func (GenericHandler) Detect(ctx DeviceContext) *Detection {
	return &Detection{
		Chipset:    genericName,
		Vendor:     "unknown",
		Mode:       ctx.Mode(),
		Confidence: ConfidenceGeneric,
		Notes:      []string{"no platform-specific evidence found"},
		Metadata:   map[string]string{"match": "fallback"},
	}
}

func (GenericHandler) EnterMode(ctx DeviceContext, targetMode string) ActionResult {
	return Fail("unknown platform: mode switching requires vendor tooling for the specific chipset")
}

func (GenericHandler) Recover(ctx DeviceContext) ActionResult {
	return Fail("unknown platform: recovery requires vendor tooling for the specific chipset")
}
