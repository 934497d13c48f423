package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhouzirui/pirate-chat/internal/config"
)

func TestResolvePersonaDefault(t *testing.T) {
	p, err := resolvePersona(config.ChatConfig{PersonaID: "pirate"})
	if err != nil {
		t.Fatalf("resolvePersona err: %v", err)
	}
	if p.ReplyLabel() != "Pirate Bot" {
		t.Fatalf("unexpected label %q", p.ReplyLabel())
	}
}

func TestResolvePersonaUnknown(t *testing.T) {
	if _, err := resolvePersona(config.ChatConfig{PersonaID: "kraken"}); err == nil {
		t.Fatal("expected error for unknown persona")
	}
}

func TestResolvePersonaFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crew.yaml")
	doc := "personas:\n  - id: kraken\n    name: Kraken\n    label: Kraken\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	p, err := resolvePersona(config.ChatConfig{PersonaID: "kraken", PersonaFile: path})
	if err != nil {
		t.Fatalf("resolvePersona err: %v", err)
	}
	if p.ReplyLabel() != "Kraken" {
		t.Fatalf("unexpected label %q", p.ReplyLabel())
	}
}

func TestRunWithEchoBackend(t *testing.T) {
	t.Setenv("AI_PROVIDER", "echo")
	t.Setenv("CHAT_PERSONA", "pirate")
	t.Setenv("CHAT_PERSONA_FILE", "")
	t.Setenv("CHAT_MAX_NEW_TOKENS", "")
	t.Chdir(t.TempDir())

	stdin := writeInput(t, "Hello\nquit\n")
	stdout := filepath.Join(t.TempDir(), "stdout")
	out, err := os.Create(stdout)
	if err != nil {
		t.Fatalf("create stdout: %v", err)
	}
	defer out.Close()

	if code := run(t.Context(), stdin, out); code != exitSuccess {
		t.Fatalf("expected exit 0, got %d", code)
	}

	got, err := os.ReadFile(stdout)
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	want := "🏴‍☠️ Pirate Chat! (type ‘exit’ to quit)\nPirate Bot: Echo: Hello\n"
	if string(got) != want {
		t.Fatalf("unexpected output\n got %q\nwant %q", got, want)
	}
}

func TestRunEndOfInputFails(t *testing.T) {
	t.Setenv("AI_PROVIDER", "echo")
	t.Setenv("CHAT_PERSONA", "pirate")
	t.Setenv("CHAT_PERSONA_FILE", "")
	t.Chdir(t.TempDir())

	stdin := writeInput(t, "Hello\n")
	out, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	if err != nil {
		t.Fatalf("create stdout: %v", err)
	}
	defer out.Close()

	if code := run(t.Context(), stdin, out); code != exitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestRunCancelledContextExitsWithSignalCode(t *testing.T) {
	t.Setenv("AI_PROVIDER", "echo")
	t.Setenv("CHAT_PERSONA", "pirate")
	t.Setenv("CHAT_PERSONA_FILE", "")
	t.Chdir(t.TempDir())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	stdin := writeInput(t, "Hello\nquit\n")
	stdout := filepath.Join(t.TempDir(), "stdout")
	out, err := os.Create(stdout)
	if err != nil {
		t.Fatalf("create stdout: %v", err)
	}
	defer out.Close()

	if code := run(ctx, stdin, out); code != exitSignal {
		t.Fatalf("expected exit %d, got %d", exitSignal, code)
	}

	got, err := os.ReadFile(stdout)
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if strings.Contains(string(got), "Pirate Bot:") {
		t.Fatalf("no turn should run after cancellation, got %q", got)
	}
}

func writeInput(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open stdin: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}
