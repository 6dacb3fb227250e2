package date

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidFormat = errors.New("invalid datetime format")

var allowedFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"02 Jan 2006 15:04:05Z07:00",
	"02 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

func ParseTime(input string) (time.Time, error) {
	t, _, err := ParseTimeWithFormat(input)
	return t, err
}

func ParseTimeWithFormat(input string) (time.Time, string, error) {
	input = strings.TrimSpace(input)
	for _, format := range allowedFormats {
		t, err := time.Parse(format, input)
		if err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", ErrInvalidFormat
}

// ParseValue accepts the shapes a date can take after front matter decoding:
// a time.Time for YAML timestamps or a string for quoted values.
func ParseValue(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		if val == nil {
			return time.Time{}, ErrInvalidFormat
		}
		return *val, nil
	case string:
		return ParseTime(val)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidFormat, v)
	}
}

// IsDate reports whether v can be parsed by ParseValue.
func IsDate(v any) bool {
	_, err := ParseValue(v)
	return err == nil
}

var pythonFormatReplacer = strings.NewReplacer(
	"%Y", "2006",
	"%y", "06",
	"%m", "01",
	"%d", "02",
	"%H", "15",
	"%M", "04",
	"%S", "05",
	"%z", "-0700",
	"%Z", "MST",
	"%a", "Mon",
	"%A", "Monday",
	"%b", "Jan",
	"%B", "January",
	"%%", "%",
)

// ConvertPythonDateFormatToGolang translates strftime directives to a Go
// layout so templates can keep the familiar syntax.
func ConvertPythonDateFormatToGolang(pythonFormat string) string {
	return pythonFormatReplacer.Replace(pythonFormat)
}
