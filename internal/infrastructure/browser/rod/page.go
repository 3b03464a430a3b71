package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"browser-automation/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

const maxScreenshotWidth = 1024

// Snapshot captures URL, title, full document HTML and a screenshot. A
// failed screenshot is logged and left nil.
func (b *BrowserAdapter) Snapshot(ctx context.Context) (*entity.PageSnapshot, error) {
	p, err := b.pageCtx(ctx)
	if err != nil {
		return nil, err
	}

	info, err := p.Info()
	if err != nil {
		return nil, fmt.Errorf("page info failed: %w", err)
	}

	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTML: %w", err)
	}

	shot, err := b.Screenshot(ctx)
	if err != nil {
		b.logger.Warn("Screenshot failed", "url", info.URL, "error", err)
		shot = nil
	}

	return &entity.PageSnapshot{
		URL:        info.URL,
		Title:      info.Title,
		HTML:       html,
		Screenshot: shot,
	}, nil
}

// Screenshot returns a full-page JPEG no wider than maxScreenshotWidth.
func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	p, err := b.pageCtx(ctx)
	if err != nil {
		return nil, err
	}

	imgBytes, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// HasElement reports whether selector matches right now, without waiting.
func (b *BrowserAdapter) HasElement(ctx context.Context, selector string) bool {
	sel, err := normalizeSelector(selector)
	if err != nil {
		return false
	}
	p, err := b.pageCtx(ctx)
	if err != nil {
		return false
	}
	els, err := findElements(p, sel)
	return err == nil && len(els) > 0
}

// WaitVisible blocks until selector is visible or ctx ends.
func (b *BrowserAdapter) WaitVisible(ctx context.Context, selector string) error {
	sel, err := normalizeSelector(selector)
	if err != nil {
		return err
	}
	p, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}
	el, err := findElement(p, sel)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element not visible: %s: %w", selector, err)
	}
	return nil
}

// Texts returns the trimmed, non-empty text of every match.
func (b *BrowserAdapter) Texts(ctx context.Context, selector string) ([]string, error) {
	sel, err := normalizeSelector(selector)
	if err != nil {
		return nil, err
	}
	p, err := b.pageCtx(ctx)
	if err != nil {
		return nil, err
	}
	els, err := findElements(p, sel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSelector, selector, err)
	}

	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// WaitNavigation blocks until the next load event or ctx ends.
func (b *BrowserAdapter) WaitNavigation(ctx context.Context) error {
	p, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}
	p.WaitNavigation(proto.PageLifecycleEventNameLoad)()
	return ctx.Err()
}

// WaitIdle blocks until no request has been in flight for idleWindow.
func (b *BrowserAdapter) WaitIdle(ctx context.Context) error {
	p, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}
	p.WaitRequestIdle(idleWindow, nil, nil, nil)()
	return ctx.Err()
}

// Cookies returns every cookie of the browser, across domains.
func (b *BrowserAdapter) Cookies(ctx context.Context) ([]entity.Cookie, error) {
	if !b.IsReady() {
		return nil, ErrBrowserClosed
	}

	raw, err := b.browser.Context(ctx).GetCookies()
	if err != nil {
		return nil, fmt.Errorf("get cookies failed: %w", err)
	}

	cookies := make([]entity.Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, entity.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return cookies, nil
}
