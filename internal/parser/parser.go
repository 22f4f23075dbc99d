// Package parser extracts tag tokens and wiki-links from note text.
package parser

import (
	"regexp"
	"strings"
)

var (
	tagRe      = regexp.MustCompile(`[#@](\w+)`)
	wikilinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
)

// ExtractTags returns the hashtag and mention tokens found in body,
// case-folded to lowercase and deduplicated in first-seen order.
func ExtractTags(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		t := strings.ToLower(m[1])
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// WikiLinks returns the trimmed targets of every [[Title]] occurrence in
// text, in document order. Duplicates are kept; link creation downstream
// is idempotent anyway.
func WikiLinks(text string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(text, -1)
	var out []string
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}
