package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		markup  string
		wantErr bool
	}{
		{name: "plain svg", markup: `<svg viewBox="0 0 24 24"><path d="M0 0h24"/></svg>`},
		{name: "with prolog", markup: `<?xml version="1.0"?><!-- x --><svg><g/></svg>`},
		{name: "empty", markup: "   ", wantErr: true},
		{name: "html", markup: `<div><svg/></div>`, wantErr: true},
		{name: "not xml", markup: `just some text`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.markup)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotSVG)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseViewBox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ViewBox
		wantErr bool
	}{
		{input: "0 0 24 24", want: ViewBox{Width: 24, Height: 24}},
		{input: "-1,2.5, 48 32", want: ViewBox{Left: -1, Top: 2.5, Width: 48, Height: 32}},
		{input: "0 0 24", wantErr: true},
		{input: "0 0 0 24", wantErr: true},
		{input: "0 0 a 24", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseViewBox(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildAndBody(t *testing.T) {
	t.Parallel()

	body := `<path d="M1 1h10v10H1z"/><use xlink:href="#a"/>`
	s, err := Build(body, ViewBox{Left: 0, Top: 0, Width: 32, Height: 16})
	require.NoError(t, err)

	vb, ok := s.ViewBox()
	require.True(t, ok)
	assert.Equal(t, ViewBox{Width: 32, Height: 16}, vb)
	assert.Equal(t, body, s.Body())
	assert.Contains(t, s.String(), `xmlns:xlink="http://www.w3.org/1999/xlink"`)
}
