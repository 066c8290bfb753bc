package service

import (
	"strings"

	"golang.org/x/net/html"
)

// entityEscaper matches htmlspecialchars with ENT_QUOTES, so values stored
// by earlier deployments and new ones render the same.
var entityEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#039;",
	"<", "&lt;",
	">", "&gt;",
)

// sanitize trims s, removes markup tags and HTML-escapes what is left.
// Passwords never go through it.
func sanitize(s string) string {
	return entityEscaper.Replace(stripTags(strings.TrimSpace(s)))
}

// stripTags keeps only the text tokens of s. A '<' that does not open a tag
// ("a < b", "<3") is text. A tag left open at the end of input is dropped.
func stripTags(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

// present reports whether an optional field was supplied with a non-blank value.
func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
