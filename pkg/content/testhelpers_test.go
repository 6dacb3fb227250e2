package content

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}

	return fs
}

const validPost = `---
title: Hello
description: First post
pubDate: 2024-05-01
tags: [go, web]
---
# Hello

Some text.
`
