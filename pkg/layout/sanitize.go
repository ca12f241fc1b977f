package layout

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	richPolicyOnce sync.Once
	richPolicy     *bluemonday.Policy
)

// SanitizeText is the policy Parse applies to titles, labels and
// placeholders. It strips every tag. Entities are decoded first so escaped
// markup is stripped too. The result is HTML-safe text: anything left is
// entity-escaped and must not be unescaped again before reaching HTML.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(html.UnescapeString(raw))
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(trimmed))
}

// sanitizeRich keeps a small inline subset for section descriptions.
func sanitizeRich(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	richPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br", "small")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		richPolicy = policy
	})
	return strings.TrimSpace(richPolicy.Sanitize(trimmed))
}
