// Package strings supplements the standard strings package with the
// small list helpers the config layer needs.
package strings

import "strings"

// SplitList splits a comma separated value into its non-empty,
// whitespace-trimmed elements, dropping repeats while preserving order.
// It parses every list-valued environment variable (trusted proxies,
// CORS origins), where stray commas and copy-pasted duplicates are
// routine.
func SplitList(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
