package edl

import (
	"fmt"

	"github.com/devicerescue/devicerescue/pkg/chipset"
)

var sparseTools = []string{"simg2img"}

// ConvertSparseImage unpacks an Android sparse image into a raw image by
// shelling out to simg2img. The sparse format itself is never parsed here.
func (t *Toolkit) ConvertSparseImage(sparsePath, rawPath string) chipset.ActionResult {
	tool, ok := t.resolver.FindTool(sparseTools...)
	if !ok {
		return chipset.Fail(
			"sparse image conversion requires simg2img on PATH",
			"candidates", "simg2img",
		)
	}
	argv := []string{tool, sparsePath, rawPath}
	return t.execute(tool, argv, fmt.Sprintf("converted %s to raw image %s", sparsePath, rawPath))
}
