package classify

import (
	"regexp"
	"strings"
)

var frameworkRe = regexp.MustCompile(`\s?framework\s?`)

// isAsyncSynonym reports whether a label is one of the spellings the feeds
// use for async work, Russian phrasing included.
func isAsyncSynonym(t string) bool {
	switch t {
	case "asyncio", "aiohttp", "asinc.io", "async programming", "асинхронное программирование":
		return true
	}
	return false
}

// NormalizeSkill folds a free-text skill label onto a small canonical
// vocabulary. Rules are ordered, first match wins; the fast rule sits before
// the generic rest/api rule so "FastAPI" lands on "fast api". Labels that
// match nothing pass through lower-cased and trimmed.
func NormalizeSkill(txt string) string {
	t := strings.ToLower(strings.TrimSpace(txt))
	t = strings.Trim(t, ".")
	t = strings.TrimSpace(frameworkRe.ReplaceAllString(t, ""))

	switch {
	case strings.Contains(t, "python"):
		return "python"
	case strings.Contains(t, "fast"):
		return "fast api"
	case strings.Contains(t, "rest") || strings.Contains(t, "api"):
		return "rest api"
	case strings.Contains(t, "django"):
		return "django"
	case strings.Contains(t, "git"):
		return "git"
	case strings.Contains(t, "sql"):
		return "sql"
	case strings.Contains(t, "docker"):
		return "docker"
	case isAsyncSynonym(t):
		return "async programming"
	case t == "go" || t == "golang":
		return "go"
	}
	return t
}

// NormalizeSkillValue applies NormalizeSkill to an untyped attribute value.
// Non-string input yields nil.
func NormalizeSkillValue(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	n := NormalizeSkill(s)
	return &n
}
