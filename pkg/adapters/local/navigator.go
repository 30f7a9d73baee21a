package local

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/ports"
)

// Navigator stands in for the host page: it knows a fixed set of anchors and
// reports each navigation on w. Without anchors every id is accepted.
type Navigator struct {
	mu      sync.Mutex
	w       io.Writer
	anchors map[string]bool
}

var _ ports.Navigator = (*Navigator)(nil)

// NewNavigator creates a navigator over anchors such as "#contact".
func NewNavigator(w io.Writer, anchors ...string) *Navigator {
	n := &Navigator{w: w}
	if len(anchors) == 0 {
		return n
	}
	n.anchors = make(map[string]bool, len(anchors))
	for _, a := range anchors {
		n.anchors[a] = true
	}
	return n
}

// ScrollToAnchor fails with domain.ErrAnchorNotFound for ids outside a
// non-empty anchor set.
func (n *Navigator) ScrollToAnchor(ctx context.Context, id string) error {
	if n.anchors != nil && !n.anchors[id] {
		return fmt.Errorf("%w: %s", domain.ErrAnchorNotFound, id)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, "-> %s\n", id)
	return err
}
