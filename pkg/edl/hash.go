package edl

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devicerescue/devicerescue/pkg/chipset"
)

// hashChunkSize bounds memory while hashing multi-gigabyte partition dumps.
const hashChunkSize = 1 << 20

// VerifyHash streams the file through SHA-256 in fixed-size chunks. When
// expected is non-empty it is compared case-insensitively and the result
// carries Data["match"]; a mismatch is a failure.
func VerifyHash(path, expected string) chipset.ActionResult {
	f, err := os.Open(path)
	if err != nil {
		return chipset.Fail(
			fmt.Sprintf("cannot open %s: %v", path, err),
			"path", path,
		)
	}
	defer f.Close()

	digest := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(digest, f, buf); err != nil {
		return chipset.Fail(
			fmt.Sprintf("read %s failed: %v", path, err),
			"path", path,
		)
	}
	sum := hex.EncodeToString(digest.Sum(nil))

	data := []string{
		"path", path,
		"algorithm", "sha256",
		"digest", sum,
	}
	if expected == "" {
		return chipset.Succeed(fmt.Sprintf("sha256(%s) = %s", path, sum), data...)
	}
	match := strings.EqualFold(sum, strings.TrimSpace(expected))
	data = append(data, "expected", expected, "match", fmt.Sprintf("%t", match))
	if !match {
		return chipset.Fail(
			fmt.Sprintf("digest mismatch for %s: got %s, expected %s", path, sum, expected),
			data...,
		)
	}
	return chipset.Succeed(fmt.Sprintf("digest verified for %s", path), data...)
}
