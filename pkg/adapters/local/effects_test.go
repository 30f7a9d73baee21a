package local

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)

	require.NoError(t, b.Play(context.Background(), "chirp"))
	assert.Equal(t, "\a", buf.String())

	assert.Error(t, b.Play(context.Background(), "fanfare"))
	assert.Equal(t, "\a", buf.String())
}

func TestDownloader(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "downloads")
	require.NoError(t, os.WriteFile(filepath.Join(src, "cv.pdf"), []byte("%PDF-1.4"), 0o644))

	d := NewDownloader(src, dest, nil)
	require.NoError(t, d.Download(context.Background(), "cv.pdf"))

	data, err := os.ReadFile(filepath.Join(dest, "cv.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestDownloader_Errors(t *testing.T) {
	d := NewDownloader(t.TempDir(), t.TempDir(), nil)
	ctx := context.Background()

	assert.Error(t, d.Download(ctx, "missing.pdf"))
	for _, name := range []string{"", ".", "..", "../cv.pdf", "sub/cv.pdf"} {
		assert.Error(t, d.Download(ctx, name), name)
	}
}

func TestNavigator(t *testing.T) {
	var buf bytes.Buffer
	n := NewNavigator(&buf, "#contact", "#skills")
	ctx := context.Background()

	require.NoError(t, n.ScrollToAnchor(ctx, "#skills"))
	assert.Equal(t, "-> #skills\n", buf.String())

	err := n.ScrollToAnchor(ctx, "#blog")
	assert.ErrorIs(t, err, domain.ErrAnchorNotFound)
}

func TestNavigator_NoAnchorsAcceptsAll(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	require.NoError(t, NewNavigator(&buf).ScrollToAnchor(ctx, "#blog"))
	require.NoError(t, NewNavigator(&buf, []string{}...).ScrollToAnchor(ctx, "#contact"))
	assert.Equal(t, "-> #blog\n-> #contact\n", buf.String())
}
