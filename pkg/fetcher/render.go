package fetcher

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

var browserBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

func browserAvailable() bool {
	for _, name := range browserBinaries {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// render loads pageURL in a headless browser and returns the fully rendered
// markup. There is no retry loop: any rendering error is final.
func (f *Fetcher) render(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(f.userAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()
	timeoutCtx, timeoutCancel := context.WithTimeout(taskCtx, f.timeout)
	defer timeoutCancel()

	var markup string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &markup),
	)
	if err != nil {
		f.logger.Error("failed to render page",
			zap.String("url", pageURL),
			zap.Error(err))
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}
	return markup, nil
}
