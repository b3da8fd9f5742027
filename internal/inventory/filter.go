package inventory

import (
	"path"
	"strings"
)

// Filter applies the repository name filter and the archived policy.
//
// The name filter uses Go path.Match syntax; a pattern without glob
// metacharacters matches as a name prefix, so "frontend" keeps
// "frontend-deployment" and "frontend-api" both.
func Filter(repos []Repository, nameFilter string, showArchived bool) []Repository {
	nameFilter = strings.TrimSpace(nameFilter)

	var filtered []Repository
	for _, r := range repos {
		if r.Archived && !showArchived {
			continue
		}
		if nameFilter != "" && !matchName(nameFilter, r.Name) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func matchName(pattern, name string) bool {
	if !hasGlobChars(pattern) {
		return strings.HasPrefix(name, pattern)
	}
	matched, err := path.Match(pattern, name)
	if err != nil {
		// path.Match only fails on malformed patterns; treat those as no match.
		return false
	}
	return matched
}

func hasGlobChars(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
