// Package tools locates vendor recovery binaries on the process search path.
package tools

import (
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// FindTool probes PATH for each candidate in order and returns the first one
// found. No caching: every call reflects the live environment.
func FindTool(candidates ...string) (string, bool) {
	for _, name := range candidates {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := exec.LookPath(name); err == nil {
			log.Debug().Str("tool", name).Msg("resolved external tool")
			return name, true
		}
	}
	return "", false
}

// FindToolPath behaves like FindTool but returns the resolved absolute path.
func FindToolPath(candidates ...string) (string, bool) {
	for _, name := range candidates {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// Resolver is the lookup contract handlers and the EDL toolkit depend on, so
// tests can substitute a fixed tool set.
type Resolver interface {
	FindTool(candidates ...string) (string, bool)
}

// PathResolver resolves against the real process PATH.
type PathResolver struct{}

func (PathResolver) FindTool(candidates ...string) (string, bool) {
	return FindTool(candidates...)
}
