package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/nova/internal/runtime"
	"github.com/aretw0/nova/pkg/ports"
	"github.com/aretw0/nova/pkg/registry"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlainPresenter() (*Presenter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewPresenter(&buf, termenv.WithProfile(termenv.Ascii)), &buf
}

func TestPresenter_TypesTextThenOptions(t *testing.T) {
	p, buf := newPlainPresenter()
	ctx := context.Background()

	p.ShowText(ctx, "Hi!")
	p.Reveal(ctx, "H")
	p.Reveal(ctx, "Hi")
	p.Reveal(ctx, "Hi!")
	p.ShowOptions(ctx, []ports.OptionView{{Label: "Next"}, {Label: "Back"}})

	assert.Equal(t, "Nova: Hi!\n  [1] Next\n  [2] Back\n", buf.String())
	assert.True(t, p.Open())
	assert.Len(t, p.Options(), 2)
}

func TestPresenter_InterruptedText(t *testing.T) {
	p, buf := newPlainPresenter()
	ctx := context.Background()

	p.ShowText(ctx, "Hello there")
	p.Reveal(ctx, "Hel")
	p.ShowText(ctx, "Bye")
	p.Reveal(ctx, "Bye")
	p.Close(ctx)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Nova: Hel", lines[0])
	assert.Equal(t, "Nova: Bye", lines[1])
	assert.Contains(t, lines[2], "dialog closed")
	assert.False(t, p.Open())
	assert.Empty(t, p.Options())
}

func TestPresenter_WithEngine(t *testing.T) {
	p, buf := newPlainPresenter()
	eng := runtime.NewEngine(registry.Default(), runtime.WithPresenter(p), runtime.WithAvatar(p))

	require.NoError(t, eng.Activate(context.Background()))
	assert.Equal(t, "*\nNova: Hi! I'm Nova, your virtual assistant.\n  [1] Next\n", buf.String())

	opts := p.Options()
	require.Len(t, opts, 1)
	opts[0].Select()
	assert.Equal(t, "engagement", string(eng.State().CurrentStep))
	assert.Len(t, p.Options(), 3)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "v0.1.0")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Commands\n\n- `1`..`4` pick an option\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands")
	assert.Contains(t, out, "pick an option")
}
