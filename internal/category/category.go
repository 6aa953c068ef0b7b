// Package category derives category folder names from file names.
package category

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultOthersLabel is the folder used for files without an extension.
const DefaultOthersLabel = "Others"

// Extension returns the text after the final dot of name, without the dot.
// Leading dots do not start an extension, so ".bashrc" and "..." have none,
// and a trailing dot ("notes.") yields an empty extension.
func Extension(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	idx := strings.LastIndexByte(trimmed, '.')
	if idx < 0 {
		return ""
	}
	return trimmed[idx+1:]
}

// Classifier maps file names to category labels.
type Classifier struct {
	OthersLabel string
}

// New returns a Classifier that falls back to othersLabel, or
// DefaultOthersLabel when it is blank.
func New(othersLabel string) Classifier {
	othersLabel = strings.TrimSpace(othersLabel)
	if othersLabel == "" {
		othersLabel = DefaultOthersLabel
	}
	return Classifier{OthersLabel: othersLabel}
}

// Category returns the uppercased extension of name, or the others label.
func (c Classifier) Category(name string) string {
	ext := Extension(name)
	if ext == "" {
		return c.others()
	}
	return upper(ext)
}

// IsCategoryFolder reports whether a directory name looks like a folder this
// classifier would produce.
func (c Classifier) IsCategoryFolder(name string) bool {
	if name == "" {
		return false
	}
	if name == c.others() {
		return true
	}
	if strings.ContainsAny(name, `./\`) {
		return false
	}
	return upper(name) == name
}

func (c Classifier) others() string {
	if c.OthersLabel == "" {
		return DefaultOthersLabel
	}
	return c.OthersLabel
}

// upper applies full Unicode case mapping ("ß" becomes "SS").
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}
