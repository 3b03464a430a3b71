package markup

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `
<html><body>
  <form id="login" action="/session" method="POST">
    <label for="email">Email address</label>
    <input id="email" name="email" type="email" placeholder="you@example.com" required>
    <label>Password <input name="password" type="password"></label>
    <input type="checkbox" name="remember">
    <select name="region"><option>EU</option><option>US</option></select>
    <textarea></textarea>
    <input type="hidden" name="csrf" value="abc" data-x="1">
    <button id="go" type="submit">  Sign
      in </button>
    <button type="button">Show password</button>
  </form>
  <form name="search">
    <input name="q" placeholder="Search">
    <button>Go</button>
  </form>
</body></html>`

func TestExtract_FormsInDocumentOrder(t *testing.T) {
	forms := NewFormExtractor().Extract(loginPage)
	require.Len(t, forms, 2)

	login := forms[0]
	assert.Equal(t, 0, login.Index)
	assert.Equal(t, "/session", login.Action)
	assert.Equal(t, "post", login.Method)
	assert.Equal(t, "login", login.ID)
	require.Len(t, login.Fields, 6)

	email := login.Fields[0]
	assert.Equal(t, "input", string(email.Tag))
	assert.Equal(t, "email", email.Type)
	assert.Equal(t, "Email address", email.Label)
	assert.True(t, email.Required)
	assert.Equal(t, []string{
		"#email",
		`input[name="email"][type="email"]`,
		`input[name="email"]`,
		`input[placeholder="you@example.com"]`,
		`input[type="email"]`,
		"input",
	}, email.Selectors)

	password := login.Fields[1]
	assert.Equal(t, "Password", password.Label)
	assert.Equal(t, `input[name="password"][type="password"]`, password.PrimarySelector())

	assert.Equal(t, "select", string(login.Fields[3].Tag))
	assert.Equal(t, []string{"textarea"}, login.Fields[4].Selectors)

	search := forms[1]
	assert.Equal(t, 1, search.Index)
	assert.Equal(t, "get", search.Method)
	assert.Equal(t, "search", search.Name)
	assert.Contains(t, search.SubmitSelectors, `form[name="search"] button:not([type])`)
	assert.Contains(t, search.SubmitSelectors, `button:has-text("Go")`)
}

func TestExtract_SubmitCandidates(t *testing.T) {
	forms := NewFormExtractor().Extract(loginPage)
	require.NotEmpty(t, forms)

	assert.Equal(t, []string{
		"#go",
		`button[type="submit"]`,
		`#login button[type="submit"]`,
		`button:has-text("Sign in")`,
	}, forms[0].SubmitSelectors)
}

func TestExtract_SubmitCandidatesAreUnique(t *testing.T) {
	page := `<form>
	  <input type="submit" value="Log in">
	  <input type="submit" value="Log in">
	  <button type="submit">Next</button>
	  <button type="submit">Next</button>
	  <input type="image" name="go">
	</form>`

	forms := NewFormExtractor().Extract(page)
	require.Len(t, forms, 1)

	seen := make(map[string]bool)
	for _, s := range forms[0].SubmitSelectors {
		assert.False(t, seen[s], "duplicate selector %s", s)
		seen[s] = true
	}
	assert.Contains(t, forms[0].SubmitSelectors, `input[type="submit"][value="Log in"]`)
	assert.Contains(t, forms[0].SubmitSelectors, `input[name="go"]`)
}

// Every candidate must resolve back to the field it was built for.
func TestExtract_SelectorsRoundTrip(t *testing.T) {
	pages := []string{
		loginPage,
		`<form><input id="user.name" name="user[name]"><input placeholder='Say "hi"'><input></form>`,
		`<form><div><label>Code<input type="text" name="otp"></label></div></form>`,
	}

	for _, page := range pages {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		require.NoError(t, err)

		for _, form := range NewFormExtractor().Extract(page) {
			scope := doc.Find("form").Eq(form.Index)
			fieldNodes := scope.Find("input, select, textarea")
			require.Equal(t, len(form.Fields), fieldNodes.Length())

			for i, field := range form.Fields {
				want := fieldNodes.Get(i)
				for _, sel := range field.Selectors {
					matched := scope.Find(sel)
					require.Greater(t, matched.Length(), 0, "selector %s matched nothing", sel)
					assert.True(t, matched.IndexOfNode(want) >= 0, "selector %s misses field %d", sel, i)
				}
			}
		}
	}
}

func TestExtract_Empty(t *testing.T) {
	forms := NewFormExtractor().Extract("<div>no forms here</div>")
	assert.NotNil(t, forms)
	assert.Empty(t, forms)

	forms = NewFormExtractor().Extract(`<form></form>`)
	require.Len(t, forms, 1)
	assert.NotNil(t, forms[0].Fields)
	assert.NotNil(t, forms[0].SubmitSelectors)
}

func TestIDSelector(t *testing.T) {
	assert.Equal(t, "#email", idSelector("email"))
	assert.Equal(t, `[id="user.name"]`, idSelector("user.name"))
	assert.Equal(t, `[id="1st"]`, idSelector("1st"))
}

func TestPageText(t *testing.T) {
	text := PageText(`<html><head><title>x</title></head><body><h1>Welcome back</h1><script>var a=1</script><p>Please sign in.</p></body></html>`, "https://example.com")

	assert.Contains(t, text, "Welcome back")
	assert.Contains(t, text, "Please sign in.")
	assert.NotContains(t, text, "var a")
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))

	out := truncateText(strings.Repeat("é", 10), 5)
	assert.True(t, strings.HasSuffix(out, truncatedMarker))
	assert.Equal(t, "éé", strings.TrimSuffix(out, truncatedMarker))
}
