package tree

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var separatorRun = regexp.MustCompile(`[-_]+`)

// FormatTitle derives a display title from a raw path segment:
// "my-cool_page.md" becomes "My Cool Page". An index marker yields "".
func FormatTitle(name string) string {
	// Same rule as the transformer: markers match exactly, so "index.MD" is
	// an ordinary page titled "Index".
	if IsIndexMarker(name) || (!strings.Contains(name, ".") && IsIndexMarker(name+ContentExt)) {
		return ""
	}
	stem := name
	if IsContentFile(stem) {
		stem = stem[:len(stem)-len(ContentExt)]
	}

	stem = separatorRun.ReplaceAllString(stem, " ")
	// NoLower keeps the tail of each word as written ("API-docs" stays "API Docs").
	title := cases.Title(language.Und, cases.NoLower).String(stem)
	return strings.TrimSpace(title)
}
