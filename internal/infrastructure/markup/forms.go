package markup

import (
	"fmt"
	"regexp"
	"strings"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
)

var _ output.FormExtractor = (*FormExtractor)(nil)

const maxTextSelectorLen = 40

var cssIdent = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

type FormExtractor struct{}

func NewFormExtractor() *FormExtractor {
	return &FormExtractor{}
}

// Extract describes every <form> in markup, in document order. Markup that
// cannot be parsed yields no forms.
func (e *FormExtractor) Extract(markup string) []entity.ExtractedForm {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(CleanHTML(markup, nil)))
	if err != nil {
		return nil
	}

	forms := make([]entity.ExtractedForm, 0)
	doc.Find("form").Each(func(i int, form *goquery.Selection) {
		ef := entity.ExtractedForm{
			Index:           i,
			Action:          form.AttrOr("action", ""),
			Method:          strings.ToLower(form.AttrOr("method", "get")),
			ID:              form.AttrOr("id", ""),
			Name:            form.AttrOr("name", ""),
			Fields:          make([]entity.ExtractedField, 0),
			SubmitSelectors: make([]string, 0),
		}

		form.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
			ef.Fields = append(ef.Fields, extractField(doc, s))
		})

		ef.SubmitSelectors = submitSelectors(form)
		forms = append(forms, ef)
	})

	return forms
}

func extractField(doc *goquery.Document, s *goquery.Selection) entity.ExtractedField {
	tag := goquery.NodeName(s)
	id := s.AttrOr("id", "")
	name := s.AttrOr("name", "")
	typ := s.AttrOr("type", "")
	placeholder := s.AttrOr("placeholder", "")
	_, required := s.Attr("required")

	sel := newSelectorSet()
	if id != "" {
		sel.add(idSelector(id))
	}
	if name != "" && typ != "" {
		sel.add(fmt.Sprintf("%s[name=%s][type=%s]", tag, quote(name), quote(typ)))
	}
	if name != "" {
		sel.add(fmt.Sprintf("%s[name=%s]", tag, quote(name)))
	}
	if placeholder != "" {
		sel.add(fmt.Sprintf("%s[placeholder=%s]", tag, quote(placeholder)))
	}
	if typ != "" {
		sel.add(fmt.Sprintf("%s[type=%s]", tag, quote(typ)))
	}
	sel.add(tag)

	return entity.ExtractedField{
		Tag:          entity.FieldTag(tag),
		Type:         strings.ToLower(typ),
		Name:         name,
		ID:           id,
		Placeholder:  placeholder,
		Autocomplete: strings.ToLower(strings.TrimSpace(s.AttrOr("autocomplete", ""))),
		Label:        fieldLabel(doc, s, id),
		Required:     required,
		Selectors:    sel.list(),
	}
}

// fieldLabel prefers <label for=id> and falls back to the enclosing <label>.
func fieldLabel(doc *goquery.Document, s *goquery.Selection, id string) string {
	if id != "" {
		if label := doc.Find("label[for=" + quote(id) + "]").First(); label.Length() > 0 {
			return collapse(label.Text())
		}
	}
	label := s.Closest("label")
	if label.Length() == 0 {
		return ""
	}
	label = label.Clone()
	label.Find("select, textarea, option").Remove()
	return collapse(label.Text())
}

func submitSelectors(form *goquery.Selection) []string {
	scope := "form"
	if id := form.AttrOr("id", ""); id != "" {
		scope = idSelector(id)
	} else if name := form.AttrOr("name", ""); name != "" {
		scope = "form[name=" + quote(name) + "]"
	}

	sel := newSelectorSet()
	form.Find(`button, input[type="submit"], input[type="image"]`).Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		typ, hasType := s.Attr("type")
		if tag == "button" && hasType && !strings.EqualFold(typ, "submit") {
			return
		}

		if id := s.AttrOr("id", ""); id != "" {
			sel.add(idSelector(id))
		}
		if name := s.AttrOr("name", ""); name != "" {
			sel.add(fmt.Sprintf("%s[name=%s]", tag, quote(name)))
		}

		typeSel := fmt.Sprintf("%s[type=%s]", tag, quote(typ))
		if !hasType {
			typeSel = tag + ":not([type])"
		}
		sel.add(typeSel)
		sel.add(scope + " " + typeSel)

		switch tag {
		case "button":
			if text := collapse(s.Text()); text != "" && len(text) <= maxTextSelectorLen {
				sel.add(fmt.Sprintf("button:has-text(%s)", quote(text)))
			}
		case "input":
			if value := strings.TrimSpace(s.AttrOr("value", "")); value != "" {
				sel.add(fmt.Sprintf("%s[value=%s]", typeSel, quote(value)))
			}
		}
	})

	return sel.list()
}

func idSelector(id string) string {
	if cssIdent.MatchString(id) {
		return "#" + id
	}
	return "[id=" + quote(id) + "]"
}

// quote renders s as a double-quoted CSS string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type selectorSet struct {
	seen  map[string]bool
	items []string
}

func newSelectorSet() *selectorSet {
	return &selectorSet{seen: make(map[string]bool)}
}

func (s *selectorSet) add(selector string) {
	if selector == "" || s.seen[selector] {
		return
	}
	s.seen[selector] = true
	s.items = append(s.items, selector)
}

func (s *selectorSet) list() []string {
	if s.items == nil {
		return []string{}
	}
	return s.items
}
