// Package sanitizer cleans user supplied strings before they reach templates
// or storage. HTML policies are backed by bluemonday.
package sanitizer

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicy   *bluemonday.Policy
	markupPolicy *bluemonday.Policy
	policiesOnce sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policiesOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()

		markupPolicy = bluemonday.NewPolicy()
		markupPolicy.AllowStandardURLs()
		markupPolicy.AllowElements(
			"p", "br", "hr",
			"strong", "b", "em", "i", "u",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"h2", "h3", "h4",
		)
		markupPolicy.AllowAttrs("href").OnElements("a")
		markupPolicy.RequireNoFollowOnLinks(true)
		markupPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return textPolicy, markupPolicy
}

// StripHTML removes every tag and returns trimmed plain text.
// Script and style bodies are dropped together with their tags.
func StripHTML(s string) string {
	text, _ := policies()
	return strings.TrimSpace(text.Sanitize(s))
}

// SanitizeHTML keeps basic formatting (paragraphs, emphasis, lists, code,
// links) and removes everything else, including event handlers and
// javascript: URLs.
func SanitizeHTML(s string) string {
	_, markup := policies()
	return markup.Sanitize(s)
}

// SanitizeWith applies a caller supplied policy.
// Returns s unchanged if policy is nil.
func SanitizeWith(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
