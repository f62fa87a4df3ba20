package analysis

import (
	"regexp"
	"strings"
)

var (
	// "  - [x] Tests added" → groups: ["  ", "x", "Tests added"]
	checkboxPattern = regexp.MustCompile(`(?m)^(\s*)[-*] \[([ xX])\] (.+)$`)
	fencedCode      = regexp.MustCompile("(?s)```.*?```")
	inlineCode      = regexp.MustCompile("`[^`]+`")
)

// Checkbox is one task-list item of a pull request description.
type Checkbox struct {
	Checked bool
	Text    string
}

// ChecklistStats summarizes the task list of a pull request description.
type ChecklistStats struct {
	Total     int
	Completed int
	Progress  float64 // 0-100
}

// Pending returns the number of unchecked items.
func (s ChecklistStats) Pending() int {
	return s.Total - s.Completed
}

// ParseCheckboxes extracts the task-list items of a markdown body.
// Checkboxes inside code are examples, not tasks, and are skipped.
func ParseCheckboxes(body string) []Checkbox {
	sanitized := fencedCode.ReplaceAllString(body, "")
	sanitized = inlineCode.ReplaceAllString(sanitized, "")

	matches := checkboxPattern.FindAllStringSubmatch(sanitized, -1)
	boxes := make([]Checkbox, 0, len(matches))
	for _, m := range matches {
		boxes = append(boxes, Checkbox{
			Checked: strings.EqualFold(m[2], "x"),
			Text:    strings.TrimSpace(m[3]),
		})
	}
	return boxes
}

// ChecklistOf computes the task-list progress of a markdown body.
func ChecklistOf(body string) ChecklistStats {
	boxes := ParseCheckboxes(body)
	if len(boxes) == 0 {
		return ChecklistStats{}
	}

	stats := ChecklistStats{Total: len(boxes)}
	for _, b := range boxes {
		if b.Checked {
			stats.Completed++
		}
	}
	stats.Progress = float64(stats.Completed) / float64(stats.Total) * 100
	return stats
}
