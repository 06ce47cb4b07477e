// Package wordlist provides prompt filtering helpers.
package wordlist

import "strings"

// FilterFunc returns true when a prompt should be kept.
type FilterFunc func(string) bool

const homeRowKeys = "asdfghjkl; "

// FilterForCategory returns a category-specific filter for custom prompts.
func FilterForCategory(category string) FilterFunc {
	switch strings.ToLower(category) {
	case "home_row":
		return filterHomeRow
	default:
		return func(string) bool { return true }
	}
}

func filterHomeRow(prompt string) bool {
	if strings.TrimSpace(prompt) == "" {
		return false
	}
	for _, r := range strings.ToLower(prompt) {
		if !strings.ContainsRune(homeRowKeys, r) {
			return false
		}
	}
	return true
}

// Apply keeps the prompts accepted by filter.
func Apply(prompts []string, filter FilterFunc) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		if filter(p) {
			out = append(out, p)
		}
	}
	return out
}
