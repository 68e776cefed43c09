package symptoms

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var tokenReplacer = strings.NewReplacer(" ", "_", "-", "_")

// NormalizeToken maps a raw symptom string to its canonical token form.
// It never fails; blank input yields "".
func NormalizeToken(raw string) string {
	return tokenReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// NormalizeList normalizes every entry, drops empties and removes duplicates
// keeping the first occurrence.
func NormalizeList(raws []string) []string {
	out := make([]string, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		token := NormalizeToken(raw)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// canonicalToken is the stricter form used for dataset cells and sanitised
// user input: repeated underscores collapse and edge underscores are cut.
func canonicalToken(raw string) string {
	token := NormalizeToken(raw)
	for strings.Contains(token, "__") {
		token = strings.ReplaceAll(token, "__", "_")
	}
	return strings.Trim(token, "_")
}

// normalizeProse prepares free text for matching: NFKC folding, lowercase,
// anything outside [a-z0-9] becomes a space, whitespace collapsed.
func normalizeProse(text string) string {
	folded := strings.ToLower(norm.NFKC.String(text))
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(mapped), " ")
}
