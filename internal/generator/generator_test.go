package generator

import (
	"strings"
	"testing"
)

func TestPromptFromCategory(t *testing.T) {
	g := NewWithSeed(1)
	for i := 0; i < 20; i++ {
		p := g.Prompt(HomeRow)
		if !contains(homeRowPrompts, p) {
			t.Fatalf("prompt %q not in home row catalog", p)
		}
	}
	if p := g.Prompt("unknown"); !contains(beginnerPrompts, p) {
		t.Fatalf("unknown category should fall back to beginner, got %q", p)
	}
}

func TestCustomPromptsReplaceCatalog(t *testing.T) {
	g := NewWithSeed(1)
	g.UseCustom([]string{"only this"})
	if p := g.Prompt(Advanced); p != "only this" {
		t.Fatalf("expected custom prompt, got %q", p)
	}
	g.UseCustom(nil)
	if p := g.Prompt(Advanced); !contains(advancedPrompts, p) {
		t.Fatalf("expected built-in prompt, got %q", p)
	}
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a, b := NewWithSeed(42), NewWithSeed(42)
	for i := 0; i < 10; i++ {
		if a.Word(Medium) != b.Word(Medium) {
			t.Fatalf("same seed must produce the same words")
		}
	}
}

func TestTargets(t *testing.T) {
	g := NewWithSeed(7)
	for i := 0; i < 50; i++ {
		if l := g.Target(Easy); !contains(homeRowLetters, l) {
			t.Fatalf("easy target %q is not a home row key", l)
		}
		tgt := g.Target(Hard)
		if !contains(mediumWords, tgt) && !contains(allLetters, tgt) {
			t.Fatalf("unexpected hard target %q", tgt)
		}
	}
	if len(allLetters) != 30 {
		t.Fatalf("expected 30 letters, got %d", len(allLetters))
	}
}

func TestLessonsStayOnHomeRow(t *testing.T) {
	ls := Lessons()
	if len(ls) != 5 || ls[0].Keys != "asdf jkl;" {
		t.Fatalf("unexpected lessons %+v", ls)
	}
	for _, l := range ls {
		for _, r := range strings.ReplaceAll(l.Keys, " ", "") {
			if !strings.ContainsRune("asdfghjkl;", r) {
				t.Fatalf("lesson %q uses %q", l.Name, r)
			}
		}
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("numbers"); err != nil || c != Numbers {
		t.Fatalf("unexpected parse result %q %v", c, err)
	}
	if _, err := ParseCategory("poetry"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
