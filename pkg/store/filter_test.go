package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Collection: "blog", ID: "go-tips", Data: `{"title":"Go tips","pubDate":"2024-03-01","tags":["go"]}`},
		{Collection: "blog", ID: "astro", Data: `{"title":"Astro","pubDate":"2023-11-20","tags":["web","astro"]}`},
		{Collection: "notes", ID: "todo", Data: `{"title":"Todo","pubDate":"2022-01-05"}`},
	}

	tests := []struct {
		name    string
		where   string
		want    []string
		wantErr bool
	}{
		{name: "no filter", where: "", want: []string{"go-tips", "astro", "todo"}},
		{name: "tag membership", where: `"go" in tags`, want: []string{"go-tips"}},
		{name: "date comparison", where: `pubDate >= "2024-01-01"`, want: []string{"go-tips"}},
		{name: "entry fields", where: `collection == "notes"`, want: []string{"todo"}},
		{name: "missing fields are nil", where: `tags == nil`, want: []string{"todo"}},
		{name: "not a boolean", where: `title`, wantErr: true},
		{name: "syntax error", where: `tags in (`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Filter(entries, tt.where)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
