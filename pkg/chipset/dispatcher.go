package chipset

import (
	"strings"

	"github.com/devicerescue/devicerescue/pkg/cmdexec"
	"github.com/devicerescue/devicerescue/pkg/tools"
	"github.com/rs/zerolog/log"
)

// Dispatcher owns the ordered, immutable handler list and resolves the best
// handler for a device either by detection ranking or by explicit override.
// Safe for concurrent use against different devices.
type Dispatcher struct {
	handlers []Handler
}

// NewDispatcher registers handlers in the given order. Order matters:
// detection ties keep the earlier-registered handler.
func NewDispatcher(handlers ...Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// NewDefaultDispatcher wires the built-in handlers in their canonical order:
// Qualcomm, MediaTek, Samsung, Generic.
func NewDefaultDispatcher(resolver tools.Resolver, runner cmdexec.Runner) *Dispatcher {
	return NewDispatcher(
		NewQualcommHandler(resolver, runner),
		NewMediaTekHandler(resolver, runner),
		NewSamsungHandler(resolver, runner),
		NewGenericHandler(),
	)
}

// Handlers returns the registered handlers in dispatch order.
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, len(d.handlers))
	copy(out, d.handlers)
	return out
}

// DetectChipset runs every handler's Detect in registration order and keeps
// the detection with the strictly highest confidence; ties keep the first
// seen. Returns nil only if every handler abstains.
func (d *Dispatcher) DetectChipset(ctx DeviceContext) *Detection {
	var best *Detection
	for _, h := range d.handlers {
		det := h.Detect(ctx)
		if det == nil {
			continue
		}
		if best == nil || det.Confidence > best.Confidence {
			best = det
		}
	}
	if best != nil {
		log.Debug().
			Str("chipset", best.Chipset).
			Str("mode", best.Mode).
			Float64("confidence", best.Confidence).
			Msg("chipset detected")
	}
	return best
}

// Resolve picks the handler for a device. A non-empty override matches
// handler names case-insensitively and short-circuits detection entirely;
// an unknown override falls back to Generic, as does a missing detection.
func (d *Dispatcher) Resolve(ctx DeviceContext, override string) Handler {
	if name := strings.TrimSpace(override); name != "" {
		for _, h := range d.handlers {
			if strings.EqualFold(h.Name(), name) {
				return h
			}
		}
		log.Warn().Str("override", name).Msg("unknown chipset override, using generic handler")
		return d.generic()
	}
	if det := d.DetectChipset(ctx); det != nil {
		for _, h := range d.handlers {
			if h.Name() == det.Chipset {
				return h
			}
		}
	}
	return d.generic()
}

// EnterChipsetMode resolves the handler and delegates the mode switch.
func (d *Dispatcher) EnterChipsetMode(ctx DeviceContext, targetMode, override string) ActionResult {
	return d.Resolve(ctx, override).EnterMode(ctx, targetMode)
}

// RecoverChipsetDevice resolves the handler and delegates the recovery
// tooling probe.
func (d *Dispatcher) RecoverChipsetDevice(ctx DeviceContext, override string) ActionResult {
	return d.Resolve(ctx, override).Recover(ctx)
}

func (d *Dispatcher) generic() Handler {
	for _, h := range d.handlers {
		if h.Name() == genericName {
			return h
		}
	}
	// Callers always register Generic last; tolerate odd wiring anyway.
	if len(d.handlers) > 0 {
		return d.handlers[len(d.handlers)-1]
	}
	return NewGenericHandler()
}
