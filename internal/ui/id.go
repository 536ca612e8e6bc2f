package ui

import "strings"

// UniqueIDPrefixLengths returns, per lower-cased id, the length of the
// shortest prefix no other id shares.
func UniqueIDPrefixLengths(ids []string) map[string]int {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.ToLower(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	lengths := make(map[string]int, len(unique))
	for _, id := range unique {
		lengths[id] = uniquePrefixLength(id, unique)
	}
	return lengths
}

func uniquePrefixLength(id string, ids []string) int {
	for n := 1; n <= len(id); n++ {
		prefix := id[:n]
		shared := false
		for _, other := range ids {
			if other != id && strings.HasPrefix(other, prefix) {
				shared = true
				break
			}
		}
		if !shared {
			return n
		}
	}
	return len(id)
}

// ShortID cuts id to its unique prefix, never shorter than minLen, and
// highlights it with s.ID.
func (s Styles) ShortID(id string, prefixLen, minLen int) string {
	n := prefixLen
	if n < minLen {
		n = minLen
	}
	if n <= 0 || n >= len(id) {
		return s.Render(s.ID, id)
	}
	return s.Render(s.ID, id[:n])
}
