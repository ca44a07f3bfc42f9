package markdown

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldPattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*]+)\*`)

	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-z ]+$`)).OnElements("a")
	p.AllowElements("strong", "em", "br")

	return p
}

// ToHTML converts links, bold, italic and line breaks, in that order, and
// sanitizes the result. Nothing else is recognised.
func ToHTML(text string) string {
	text = linkPattern.ReplaceAllString(text, `<a href="${2}" target="_blank" rel="noopener noreferrer">${1}</a>`)
	text = boldPattern.ReplaceAllString(text, `<strong>${1}</strong>`)

	// Runs of asterisks consumed above are gone, so this only sees single ones
	text = italicPattern.ReplaceAllString(text, `<em>${1}</em>`)
	text = strings.ReplaceAll(text, "\n", "<br>")

	return Sanitize(text)
}

// Sanitize strips everything but the elements ToHTML produces.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// PlainText returns the text content of an HTML fragment, the way a DOM
// element's textContent would. Markup, including <br>, contributes nothing.
func PlainText(fragment string) string {
	var sb strings.Builder

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}
