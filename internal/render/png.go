package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// viewportHeight is only the initial height; the screenshot covers the full document.
const viewportHeight = 800

// PNG loads doc into a headless Chrome tab and captures the full page. The viewport is
// layout.Width/layout.Zoom CSS pixels wide at a device scale of layout.Zoom, so the
// image is layout.Width pixels wide with the content shrunk by Zoom.
func (r *Renderer) PNG(ctx context.Context, doc []byte, layout Layout) ([]byte, error) {
	zoom := layout.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	cssWidth := int64(float64(layout.Width) / zoom)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if r.cfg.ScreenshotTimeout > 0 {
		tabCtx, cancel = context.WithTimeout(tabCtx, r.cfg.ScreenshotTimeout)
		defer cancel()
	}

	start := time.Now()
	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(cssWidth, viewportHeight, chromedp.EmulateScale(zoom)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(doc)).Do(ctx)
		}),
		chromedp.WaitReady("table.duty-grid", chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}

	r.logger.Debug("png rendered",
		zap.Int("width", layout.Width),
		zap.Float64("zoom", zoom),
		zap.Int("bytes", len(buf)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return buf, nil
}
