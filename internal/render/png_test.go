package render

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"duty-calendar/internal/config"
)

func chromePath(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("no Chrome binary found")
	return ""
}

func TestPNG(t *testing.T) {
	cfg := config.Default().Render
	cfg.ChromePath = chromePath(t)
	cfg.NoSandbox = true
	cfg.ScreenshotTimeout = 30 * time.Second
	r := New(cfg, nil)

	grid := testGrid(t)
	doc, err := r.HTML(grid, testMeta)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	img, err := r.PNG(context.Background(), doc, r.LayoutFor(grid))
	if err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("output is not a PNG (first bytes %q)", img[:min(8, len(img))])
	}
}
