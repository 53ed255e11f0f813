// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits a tagged-line sequence into heading-scoped groups.
package segment

import "strings"

// Sentinel marks the end of a source line inside a tagged line.
const Sentinel = "|"

const headingPrefix = "<h"

// kept lists the tags that survive inside a group.
var kept = []string{"<h1>", "<h2>", "<p>"}

// Group is the run of tagged lines from one heading up to the next.
type Group []string

// Head returns the first line of the group, or "" for an empty group.
func (g Group) Head() string {
	if len(g) == 0 {
		return ""
	}
	return g[0]
}

// Segment splits lines at every heading of any level. Lines before the first
// heading belong to no group. Inside a group, only <h1>, <h2> and <p> lines
// are kept. Input without headings yields no groups.
func Segment(lines []string) []Group {
	var bounds []int
	for i, l := range lines {
		if strings.Contains(l, headingPrefix) {
			bounds = append(bounds, i)
		}
	}
	if len(bounds) == 0 {
		return nil
	}
	bounds = append(bounds, len(lines))

	groups := make([]Group, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		var g Group
		for _, l := range lines[bounds[i]:bounds[i+1]] {
			if Keep(l) {
				g = append(g, l)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// IsKeptTag reports whether tag is one of the tags kept inside a group.
func IsKeptTag(tag string) bool {
	for _, k := range kept {
		if k == tag {
			return true
		}
	}
	return false
}

// Keep reports whether a line carries one of the tags kept inside a group.
func Keep(line string) bool {
	for _, tag := range kept {
		if strings.Contains(line, tag) {
			return true
		}
	}
	return false
}

// SplitTag separates the leading tag of a tagged line from its text. A line
// that does not start with a tag returns an empty tag.
func SplitTag(line string) (tag, text string) {
	if !strings.HasPrefix(line, "<") {
		return "", line
	}
	end := strings.IndexByte(line, '>')
	if end < 0 {
		return "", line
	}
	return line[:end+1], line[end+1:]
}

// Fragments returns the sentinel-separated parts of a line's text.
func Fragments(text string) []string {
	return strings.Split(text, Sentinel)
}

// FirstFragment returns text up to its first sentinel.
func FirstFragment(text string) string {
	before, _, _ := strings.Cut(text, Sentinel)
	return before
}
