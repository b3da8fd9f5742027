package inventory

import (
	"regexp"
	"strings"
)

// TeamTopicPrefix marks the repository topic that assigns a host to its team
// group. A repository carries at most one team; the first matching topic wins.
const TeamTopicPrefix = "team-"

// UnassignedGroup collects hosts without a team topic.
const UnassignedGroup = "unassigned"

var unsafeGroupChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SafeGroupName rewrites a raw group name the way Ansible sanitizes group
// names: every character outside [A-Za-z0-9_] becomes an underscore. In
// particular "team-platform" becomes "team_platform".
func SafeGroupName(name string) string {
	return unsafeGroupChars.ReplaceAllString(name, "_")
}

// LanguageGroupName derives a group name from a language label: lowercased,
// spaces dropped, then sanitized ("Jupyter Notebook" -> "jupyternotebook").
func LanguageGroupName(language string) string {
	return SafeGroupName(strings.ReplaceAll(strings.ToLower(language), " ", ""))
}

// TeamTopic returns the first topic carrying the team prefix, e.g.
// "team-platform". The topic itself is the group name (after sanitizing).
func TeamTopic(topics []string) (string, bool) {
	for _, topic := range topics {
		if strings.HasPrefix(topic, TeamTopicPrefix) {
			return topic, true
		}
	}
	return "", false
}

// RegexGroups applies the grouping regex to a repository name. Every
// capture-group value of every match becomes a group, and the first capture of
// the first match additionally contributes a "main-<value>" group. Returns nil
// when the name does not match or the pattern has no capture groups.
func RegexGroups(re *regexp.Regexp, name string) []string {
	if re == nil {
		return nil
	}
	matches := re.FindAllStringSubmatch(name, -1)
	if len(matches) == 0 {
		return nil
	}

	var groups []string
	for i, m := range matches {
		// m[0] is the full match; captures start at 1.
		for j, capture := range m[1:] {
			if capture == "" {
				continue
			}
			if i == 0 && j == 0 {
				groups = append(groups, "main-"+capture)
			}
			groups = append(groups, capture)
		}
	}
	return groups
}

// LanguageGroups lists the language group names a repository belongs to, given
// its language shares and the configured minimum share in percent. A zero
// minimum admits every language that appears at all.
func LanguageGroups(shares map[string]float64, minPercent float64) []string {
	var groups []string
	for lang, pct := range shares {
		if pct <= 0 {
			continue
		}
		if minPercent > 0 && pct < minPercent {
			continue
		}
		groups = append(groups, LanguageGroupName(lang))
	}
	return groups
}
