package rod

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

const defaultTextScope = `button, [role="button"], input[type="submit"], input[type="button"], a`

const roleScope = `button, [role="button"], input[type="submit"], input[type="button"], input[type="image"]`

// hasTextPattern matches the text pseudo-selector emitted by the form
// extractor: `button:has-text("Sign in")`.
var hasTextPattern = regexp.MustCompile(`^(.*?):has-text\((".*")\)$`)

const submitClosestFormJS = `function() {
	const form = this.form || this.closest('form');
	if (!form) return false;
	try {
		if (typeof form.requestSubmit === 'function') {
			form.requestSubmit();
			return true;
		}
	} catch (e) {}
	form.submit();
	return true;
}`

const submitFirstRenderedFormJS = `() => {
	for (const form of document.querySelectorAll('form')) {
		const r = form.getBoundingClientRect();
		if (r.width > 0 && r.height > 0) {
			try {
				if (typeof form.requestSubmit === 'function') {
					form.requestSubmit();
					return true;
				}
			} catch (e) {}
			form.submit();
			return true;
		}
	}
	return false;
}`

const accessibleNameJS = `function() {
	const label = this.getAttribute('aria-label');
	if (label) return label.trim();
	const labelledBy = this.getAttribute('aria-labelledby');
	if (labelledBy) {
		const ref = document.getElementById(labelledBy);
		if (ref) return ref.textContent.trim();
	}
	return (this.innerText || this.value || this.title || '').trim();
}`

// SubmitClosestForm submits the form owning the element at fieldSelector.
func (b *BrowserAdapter) SubmitClosestForm(ctx context.Context, fieldSelector string) (bool, error) {
	sel, err := normalizeSelector(fieldSelector)
	if err != nil {
		return false, err
	}
	p, err := b.pageCtx(ctx)
	if err != nil {
		return false, err
	}

	els, err := findElements(p, sel)
	if err != nil {
		return false, err
	}
	if len(els) == 0 {
		return false, nil
	}

	res, err := els.First().Eval(submitClosestFormJS)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

// ClickVisible clicks the first visible, enabled match of selector.
func (b *BrowserAdapter) ClickVisible(ctx context.Context, selector string) (bool, error) {
	sel, err := normalizeSelector(selector)
	if err != nil {
		return false, err
	}
	if scope, text, ok := parseHasText(sel); ok {
		return b.ClickByText(ctx, scope, text)
	}

	p, err := b.pageCtx(ctx)
	if err != nil {
		return false, err
	}
	els, err := findElements(p, sel)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidSelector, selector, err)
	}

	for _, el := range els {
		if !usable(el) {
			continue
		}
		return clickElement(el)
	}
	return false, nil
}

// ClickByRole clicks the first visible, enabled button whose accessible name
// matches name.
func (b *BrowserAdapter) ClickByRole(ctx context.Context, name *regexp.Regexp) (bool, error) {
	p, err := b.pageCtx(ctx)
	if err != nil {
		return false, err
	}
	els, err := p.Elements(roleScope)
	if err != nil {
		return false, err
	}

	for _, el := range els {
		res, err := el.Eval(accessibleNameJS)
		if err != nil || !name.MatchString(res.Value.Str()) {
			continue
		}
		if !usable(el) {
			continue
		}
		return clickElement(el)
	}
	return false, nil
}

// ClickByText clicks the first visible, enabled element in scope whose
// visible text contains text, ignoring case. An empty scope means any
// clickable control.
func (b *BrowserAdapter) ClickByText(ctx context.Context, scope, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	if scope == "" {
		scope = defaultTextScope
	}

	p, err := b.pageCtx(ctx)
	if err != nil {
		return false, err
	}
	els, err := findElements(p, scope)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidSelector, scope, err)
	}

	for _, el := range els {
		if !containsText(elementText(el), text) {
			continue
		}
		if !usable(el) {
			continue
		}
		return clickElement(el)
	}
	return false, nil
}

// PressEnterOn focuses the element and types Enter into it.
func (b *BrowserAdapter) PressEnterOn(ctx context.Context, selector string) (bool, error) {
	sel, err := normalizeSelector(selector)
	if err != nil {
		return false, err
	}
	p, err := b.pageCtx(ctx)
	if err != nil {
		return false, err
	}

	els, err := findElements(p, sel)
	if err != nil {
		return false, err
	}
	if len(els) == 0 {
		return false, nil
	}

	el := els.First()
	if err := el.Focus(); err != nil {
		return false, err
	}
	if err := el.Type(input.Enter); err != nil {
		return false, err
	}
	return true, nil
}

// SubmitFirstRenderedForm submits the first form with a non-zero box.
func (b *BrowserAdapter) SubmitFirstRenderedForm(ctx context.Context) (bool, error) {
	p, err := b.pageCtx(ctx)
	if err != nil {
		return false, err
	}
	res, err := p.Eval(submitFirstRenderedFormJS)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func usable(el *rod.Element) bool {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false
	}
	disabled, err := el.Property("disabled")
	if err == nil && disabled.Bool() {
		return false
	}
	return true
}

func clickElement(el *rod.Element) (bool, error) {
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, err
	}
	return true, nil
}

func elementText(el *rod.Element) string {
	text, err := el.Text()
	if err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	if v, err := el.Attribute("value"); err == nil && v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

// containsText matches like :has-text(): a case-insensitive substring of the
// trimmed text.
func containsText(have, want string) bool {
	return strings.Contains(strings.ToLower(have), strings.ToLower(strings.TrimSpace(want)))
}

func parseHasText(selector string) (scope, text string, ok bool) {
	m := hasTextPattern.FindStringSubmatch(selector)
	if m == nil {
		return "", "", false
	}
	text, err := unquoteCSS(m[2])
	if err != nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), text, true
}

// unquoteCSS reverses the double-quoted form produced by the form
// extractor (backslash escapes for quote and backslash).
func unquoteCSS(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", strconv.ErrSyntax
	}
	body := s[1 : len(s)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(body) {
			return "", strconv.ErrSyntax
		}
		i++
		sb.WriteByte(body[i])
	}
	return sb.String(), nil
}
