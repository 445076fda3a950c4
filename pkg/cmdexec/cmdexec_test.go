package cmdexec

import (
	"strings"
	"testing"
	"time"
)

func TestRunEmptyCommand(t *testing.T) {
	res := ExecRunner{}.Run(nil, time.Second)
	if res.ExitCode != -1 {
		t.Fatalf("expected exit -1 for empty argv, got %d", res.ExitCode)
	}
}

func TestRunCapturesStdout(t *testing.T) {
	res := ExecRunner{}.Run([]string{"echo", "hello"}, 5*time.Second)
	if !res.OK() {
		t.Fatalf("echo failed: %+v", res)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Fatalf("unexpected stdout %q", res.Stdout)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	res := ExecRunner{}.Run([]string{"false"}, 5*time.Second)
	if res.OK() {
		t.Fatal("false should not report success")
	}
	if res.ExitCode != 1 {
		t.Fatalf("expected exit 1, got %d", res.ExitCode)
	}
}

func TestRunTimeout(t *testing.T) {
	res := ExecRunner{}.Run([]string{"sleep", "5"}, 50*time.Millisecond)
	if res.ExitCode != -1 {
		t.Fatalf("expected exit -1 on timeout, got %d", res.ExitCode)
	}
	if res.Stderr != "Timeout" {
		t.Fatalf("expected stderr Timeout, got %q", res.Stderr)
	}
}

func TestRunSpawnFailure(t *testing.T) {
	res := ExecRunner{}.Run([]string{"definitely-not-a-binary-437291"}, time.Second)
	if res.ExitCode != -1 {
		t.Fatalf("expected exit -1 for missing binary, got %d", res.ExitCode)
	}
	if res.Stderr == "" {
		t.Fatal("expected error text in stderr")
	}
}
