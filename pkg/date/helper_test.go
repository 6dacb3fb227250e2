package date

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			input:    "2023-03-16 10:30:00",
			expected: time.Date(2023, 0o3, 16, 10, 30, 0, 0, time.UTC),
		},
		{
			input:    "2023-03-16",
			expected: time.Date(2023, 0o3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			input:    "  2024-11-02  ",
			expected: time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			input:    "Jul 4, 2024",
			expected: time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			input:    "2023/03/16",
			expected: time.Time{},
			wantErr:  true,
		},
		{
			input:    "yesterday",
			expected: time.Time{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			actual, err := ParseTime(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		input   any
		want    time.Time
		wantErr bool
	}{
		{name: "time value", input: ts, want: ts},
		{name: "time pointer", input: &ts, want: ts},
		{name: "rfc3339 string", input: "2025-01-02T03:04:05Z", want: ts},
		{name: "number", input: 20250102, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseValue(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, IsDate(tt.input))
				return
			}

			assert.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
			assert.True(t, IsDate(tt.input))
		})
	}
}

func TestConvertPythonDateFormatToGolang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "%Y-%m-%d", expected: "2006-01-02"},
		{input: "%Y/%m/%d %H:%M:%S", expected: "2006/01/02 15:04:05"},
		{input: "%b %d, %Y", expected: "Jan 02, 2006"},
		{input: "%A %B", expected: "Monday January"},
		{input: "100%%", expected: "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, ConvertPythonDateFormatToGolang(tt.input))
		})
	}
}
