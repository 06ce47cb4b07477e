// Package generator picks prompts, words and letters for the games.
package generator

import (
	"fmt"
	"math/rand"
	"time"
)

// Category selects a prompt catalog.
type Category string

// Prompt categories.
const (
	HomeRow      Category = "home_row"
	Beginner     Category = "beginner"
	Intermediate Category = "intermediate"
	Advanced     Category = "advanced"
	Punctuation  Category = "punctuation"
	Numbers      Category = "numbers"
)

// Categories lists every prompt category.
var Categories = []Category{HomeRow, Beginner, Intermediate, Advanced, Punctuation, Numbers}

// ParseCategory validates a category name.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// Difficulty tunes the arcade games.
type Difficulty string

// Difficulties.
const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Row selects a keyboard row for letter targets.
type Row string

// Keyboard rows.
const (
	RowHome   Row = "home"
	RowTop    Row = "top"
	RowBottom Row = "bottom"
	RowAll    Row = "all"
)

// Lesson is one step of the home-row course.
type Lesson struct {
	Name        string
	Keys        string
	Description string
}

// Generator produces randomized prompts.
type Generator struct {
	rnd    *rand.Rand
	custom []string
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// UseCustom replaces the built-in prompt catalogs with prompts.
// An empty slice restores the built-in catalogs.
func (g *Generator) UseCustom(prompts []string) {
	g.custom = append([]string(nil), prompts...)
}

// Rand exposes the generator's random source.
func (g *Generator) Rand() *rand.Rand {
	return g.rnd
}

// Prompt returns a random prompt from the category, or from the custom
// prompts when set. Unknown categories fall back to beginner prompts.
func (g *Generator) Prompt(category Category) string {
	if len(g.custom) > 0 {
		return g.pick(g.custom)
	}
	prompts, ok := promptCatalog[category]
	if !ok {
		prompts = beginnerPrompts
	}
	return g.pick(prompts)
}

// Word returns a random short word. Medium and hard use the longer pool.
func (g *Generator) Word(d Difficulty) string {
	if d == Easy || d == "" {
		return g.pick(easyWords)
	}
	return g.pick(mediumWords)
}

// Letter returns a random key from the row.
func (g *Generator) Letter(row Row) string {
	switch row {
	case RowTop:
		return g.pick(topRowLetters)
	case RowBottom:
		return g.pick(bottomRowLetters)
	case RowAll:
		return g.pick(allLetters)
	default:
		return g.pick(homeRowLetters)
	}
}

// Target returns an alien defense target: home-row letters on easy, and an
// even mix of words and letters from every row otherwise.
func (g *Generator) Target(d Difficulty) string {
	if d == Easy || d == "" {
		return g.Letter(RowHome)
	}
	if g.rnd.Float64() > 0.5 {
		if d == Hard {
			return g.Word(Medium)
		}
		return g.Word(Easy)
	}
	return g.Letter(RowAll)
}

// Lessons returns the home-row course in order.
func Lessons() []Lesson {
	return append([]Lesson(nil), lessons...)
}

func (g *Generator) pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[g.rnd.Intn(len(items))]
}
