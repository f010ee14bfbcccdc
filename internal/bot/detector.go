package bot

import (
	"strings"

	"github.com/danielolaszy/issuebot/pkg/models"
)

var (
	missingHeaderPhrases = []string{
		"missing python.h",
		"python.h: no such file or directory",
	}

	// What gcc prints under a failing include once blanks are stripped.
	missingHeaderCompilerOutput = []string{
		"#include<Python.h>\n^~~~",
		"#include<Python.h>\r\n^~~~",
	}

	blanks = strings.NewReplacer(" ", "", "\t", "")
)

// MissingPythonHeaders reports whether the item complains about a missing
// Python.h, either in words or by pasting the compiler error.
func MissingPythonHeaders(item *models.Item) bool {
	title := strings.ToLower(item.Title)
	body := strings.ToLower(item.Body)
	for _, phrase := range missingHeaderPhrases {
		if strings.Contains(title, phrase) || strings.Contains(body, phrase) {
			return true
		}
	}

	stripped := blanks.Replace(item.Body)
	for _, signature := range missingHeaderCompilerOutput {
		if strings.Contains(stripped, signature) {
			return true
		}
	}
	return false
}
