package excel

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/example/livedict/pkg/models"
)

// ErrMalformedLine is returned for text lines that aren't "foreign - native"
var ErrMalformedLine = errors.New("expected \"foreign - native\"")

// ParseLine parses a "foreign - native" line. A spaced dash separates the
// words; a single bare dash is accepted too, so "rojo-red" works but
// "well-known-conocido" does not.
func ParseLine(line string) (models.Translation, error) {
	line = strings.TrimSpace(line)

	var foreign, native string
	if i := strings.Index(line, " - "); i >= 0 {
		foreign, native = line[:i], line[i+3:]
	} else if strings.Count(line, "-") == 1 {
		foreign, native, _ = strings.Cut(line, "-")
	} else {
		return models.Translation{}, errors.Wrapf(ErrMalformedLine, "line %q", line)
	}

	foreign, native = cleanWord(foreign), cleanWord(native)
	if foreign == "" || native == "" {
		return models.Translation{}, errors.Wrapf(ErrMalformedLine, "line %q", line)
	}
	return models.NewTranslation(foreign, native), nil
}

// FormatLine is the inverse of ParseLine
func FormatLine(t models.Translation) string {
	return t.String()
}

// isSkippable reports blank lines and # comments
func isSkippable(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || strings.HasPrefix(line, "#")
}

// cleanWord trims whitespace and surrounding quotes
func cleanWord(word string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(word), `"`))
}
