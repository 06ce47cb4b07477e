package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPrompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.txt")
	content := "# warmups\nask  dad\n\n  the cat sat  \n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write prompts: %v", err)
	}
	prompts, err := LoadPrompts(path)
	if err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	if len(prompts) != 2 || prompts[0] != "ask dad" || prompts[1] != "the cat sat" {
		t.Fatalf("unexpected prompts %q", prompts)
	}
}

func TestLoadPromptsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n# nothing\n"), 0o600); err != nil {
		t.Fatalf("write prompts: %v", err)
	}
	if _, err := LoadPrompts(path); err == nil {
		t.Fatalf("expected error for empty prompt list")
	}
	if _, err := LoadPrompts(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
