package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/withsy/sitekit/pkg/config"
)

func TestURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		font    config.Font
		want    string
		wantErr string
	}{
		{
			name: "roboto from google",
			font: config.Font{Provider: "google", Name: "Roboto", Weights: []int{700, 400}},
			want: "https://fonts.googleapis.com/css2?family=Roboto:wght@400;700&display=swap",
		},
		{
			name: "family with spaces from bunny",
			font: config.Font{Provider: "bunny", Name: "Fira Code", Weights: []int{400}, Display: "optional"},
			want: "https://fonts.bunny.net/css2?family=Fira+Code:wght@400&display=optional",
		},
		{
			name: "italic and normal",
			font: config.Font{Provider: "google", Name: "Inter", Weights: []int{400, 700}, Styles: []string{"normal", "italic"}},
			want: "https://fonts.googleapis.com/css2?family=Inter:ital,wght@0,400;0,700;1,400;1,700&display=swap",
		},
		{
			name: "italic only",
			font: config.Font{Provider: "google", Name: "Inter", Weights: []int{400}, Styles: []string{"italic"}},
			want: "https://fonts.googleapis.com/css2?family=Inter:ital,wght@1,400&display=swap",
		},
		{
			name:    "unknown provider",
			font:    config.Font{Provider: "adobe", Name: "Roboto", Weights: []int{400}},
			wantErr: "unsupported font provider 'adobe'",
		},
		{
			name:    "no weights",
			font:    config.Font{Provider: "google", Name: "Roboto"},
			wantErr: "font 'Roboto' has no weights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := URL(tt.font)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStylesheet(t *testing.T) {
	t.Parallel()

	got, err := Stylesheet(config.Default().Experimental.Fonts)
	require.NoError(t, err)
	assert.Equal(t, `@import url("https://fonts.googleapis.com/css2?family=Roboto:wght@400;700&display=swap");

:root {
  --font-roboto: "Roboto", sans-serif;
}
`, got)
}

func TestStylesheet_Fallbacks(t *testing.T) {
	t.Parallel()

	got, err := Stylesheet([]config.Font{
		{Provider: "google", Name: "Roboto", CSSVariable: "--font-roboto", Weights: []int{400}},
		{Provider: "bunny", Name: "Fira Code", CSSVariable: "--font-code", Weights: []int{400}, Fallbacks: []string{"Menlo", "monospace"}},
	})
	require.NoError(t, err)
	assert.Contains(t, got, `  --font-code: "Fira Code", "Menlo", monospace;`)
	assert.Contains(t, got, `@import url("https://fonts.bunny.net/css2?family=Fira+Code:wght@400&display=swap");`)
}

func TestStylesheet_Errors(t *testing.T) {
	t.Parallel()

	empty, err := Stylesheet(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = Stylesheet([]config.Font{
		{Provider: "google", Name: "Roboto", CSSVariable: "--font", Weights: []int{400}},
		{Provider: "google", Name: "Inter", CSSVariable: "--font", Weights: []int{400}},
	})
	require.Error(t, err)
	assert.Equal(t, "css variable '--font' is declared by both 'Roboto' and 'Inter'", err.Error())
}
