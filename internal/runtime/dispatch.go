package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/nova/pkg/domain"
)

// Dispatch interprets an option's action.
func (e *Engine) Dispatch(ctx context.Context, action domain.Action) error {
	if err := action.Validate(); err != nil {
		return err
	}
	if e.hooks.OnAction != nil {
		e.hooks.OnAction(ctx, &domain.ActionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventAction},
			Step:      e.state.CurrentStep,
			Action:    action,
		})
	}

	switch action.Kind {
	case domain.ActionGoToStep:
		return e.GoToStep(ctx, action.Step)
	case domain.ActionGoBack:
		return e.GoBack(ctx)
	case domain.ActionDownloadAsset:
		e.download(ctx)
	case domain.ActionNavigateTo:
		e.navigate(ctx, action.Anchor)
	case domain.ActionSubmitFeedback:
		return e.HandleFeedback(ctx, action.Rating)
	case domain.ActionDismiss:
		e.Hide(ctx)
	}
	return nil
}

// download triggers the resume download and confirms it. A blocked download
// is logged only; the confirmation is still spoken.
func (e *Engine) download(ctx context.Context) {
	if err := e.downloader.Download(ctx, e.assetName); err != nil {
		e.logger.Warn("asset download failed", "asset", e.assetName, "err", err)
	}
	e.announce(ctx, DownloadAnnouncement)
}

// navigate scrolls to anchor and names the destination. Nothing is spoken
// when the page has no such anchor.
func (e *Engine) navigate(ctx context.Context, anchor string) {
	if err := e.navigator.ScrollToAnchor(ctx, anchor); err != nil {
		if errors.Is(err, domain.ErrAnchorNotFound) {
			e.logger.Debug("navigation target missing", "anchor", anchor)
		} else {
			e.logger.Warn("navigation failed", "anchor", anchor, "err", err)
		}
		return
	}
	e.announce(ctx, NavigationAnnouncement(anchor))
}

// NavigationAnnouncement is the sentence spoken after scrolling to anchor.
func NavigationAnnouncement(anchor string) string {
	return fmt.Sprintf("Navigating to %s section.", strings.TrimPrefix(anchor, "#"))
}
