package local

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/nova/pkg/ports"
)

// Bell plays cues on the terminal bell.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

var _ ports.SoundCue = (*Bell)(nil)

// NewBell creates a bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play rings once for the chirp cue.
func (b *Bell) Play(ctx context.Context, cue string) error {
	if cue != "chirp" {
		return fmt.Errorf("unknown sound cue %q", cue)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, "\a")
	return err
}
