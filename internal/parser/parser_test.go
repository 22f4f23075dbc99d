package parser

import (
	"reflect"
	"testing"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"empty", "", nil},
		{"no tags", "plain text without markers", nil},
		{"hashtag", "working on #project", []string{"project"}},
		{"mention", "ping @alice about it", []string{"alice"}},
		{"text order preserved", "Meet @alice re #Project and #project", []string{"alice", "project"}},
		{"case folded dedupe", "#Go #go #GO", []string{"go"}},
		{"punctuation ends token", "done #ship! and #v2.", []string{"ship", "v2"}},
		{"underscore and digits", "#my_tag2 stays whole", []string{"my_tag2"}},
		{"bare marker ignored", "just a # and an @ alone", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTags(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTags(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestWikiLinks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"empty", "", nil},
		{"single", "see [[Other Note]]", []string{"Other Note"}},
		{"multiple", "[[A]] then [[B]]", []string{"A", "B"}},
		{"trimmed", "[[  Padded Title ]]", []string{"Padded Title"}},
		{"duplicates kept", "[[X]] and [[X]] again", []string{"X", "X"}},
		{"unclosed ignored", "broken [[never closes", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WikiLinks(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WikiLinks(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}
