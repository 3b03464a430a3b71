package output

import "browser-automation/internal/domain/entity"

type FormExtractor interface {
	Extract(markup string) []entity.ExtractedForm
}

type CookieWriter interface {
	Save(cookies []entity.Cookie) (string, error)
}

// PageTextRenderer turns page markup into the readable text shown to the oracle.
type PageTextRenderer interface {
	Render(markup, pageURL string) string
}
