package edl

import (
	"fmt"
	"os"

	"github.com/devicerescue/devicerescue/pkg/chipset"
)

// BackupPartition dumps a partition to outPath, refusing to overwrite an
// existing file so a bad run cannot destroy a previous backup.
func (t *Toolkit) BackupPartition(ctx chipset.DeviceContext, partition, outPath, loaderPath string) chipset.ActionResult {
	if _, err := os.Stat(outPath); err == nil {
		return chipset.Fail(
			fmt.Sprintf("backup destination %s already exists, refusing to overwrite", outPath),
			"path", outPath,
		)
	}
	return t.Dump(ctx, partition, outPath, loaderPath)
}

// RestorePartition flashes a previously dumped image back onto a partition.
// The image must exist and be non-empty before any command is issued.
func (t *Toolkit) RestorePartition(ctx chipset.DeviceContext, partition, imagePath, loaderPath string) chipset.ActionResult {
	info, err := os.Stat(imagePath)
	if err != nil {
		return chipset.Fail(
			fmt.Sprintf("restore image %s is not readable: %v", imagePath, err),
			"path", imagePath,
		)
	}
	if info.Size() == 0 {
		return chipset.Fail(
			fmt.Sprintf("restore image %s is empty", imagePath),
			"path", imagePath,
		)
	}
	return t.Flash(ctx, partition, imagePath, loaderPath)
}
