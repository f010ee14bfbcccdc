package bot

import (
	"regexp"
	"strings"
)

var (
	osLineRe      = regexp.MustCompile(`\* OS:.*?\n`)
	bugFixLineRe  = regexp.MustCompile(`\* Bug fix:.*?\n`)
	typeLineRe    = regexp.MustCompile(`\* Type:.*?\n`)
	typeLineNames = []string{"doc", "performance", "scripts", "tests", "wheels", "new-api", "new-platform"}
)

// Template holds the issue/PR template lines found in a body. A field is empty
// when its line is absent. Lines keep their "* Field:" prefix and trailing newline.
type Template struct {
	OS     string
	BugFix string
	Type   string
}

// ParseTemplate extracts the first "* OS:", "* Bug fix:" and "* Type:" lines of body.
// A line only counts when it ends with a line break.
func ParseTemplate(body string) Template {
	return Template{
		OS:     osLineRe.FindString(body),
		BugFix: bugFixLineRe.FindString(body),
		Type:   typeLineRe.FindString(body),
	}
}

// BugFixLabel maps a "* Bug fix:" line to exactly one of "bug" or "enhancement".
func BugFixLabel(line string) string {
	if strings.Contains(strings.ToLower(line), "yes") {
		return "bug"
	}
	return "enhancement"
}

// TypeLabels returns one label per type name mentioned in a "* Type:" line.
// Names are not exclusive: "doc, tests" yields both.
func TypeLabels(line string) []string {
	lower := strings.ToLower(line)
	var labels []string
	for _, name := range typeLineNames {
		if strings.Contains(lower, name) {
			labels = append(labels, name)
		}
	}
	return labels
}
