package inventory

import (
	"regexp"
	"slices"
	"sort"
	"testing"
)

func TestSafeGroupName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"team-platform", "team_platform"},
		{"unassigned", "unassigned"},
		{"c++", "c__"},
		{"jupyter notebook", "jupyter_notebook"},
		{"Emacs Lisp", "Emacs_Lisp"},
		{"main-frontend", "main_frontend"},
	}
	for _, tt := range tests {
		if got := SafeGroupName(tt.in); got != tt.want {
			t.Errorf("SafeGroupName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLanguageGroupName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Go", "go"},
		{"Jupyter Notebook", "jupyternotebook"},
		{"C++", "c__"},
		{"Emacs Lisp", "emacslisp"},
	}
	for _, tt := range tests {
		if got := LanguageGroupName(tt.in); got != tt.want {
			t.Errorf("LanguageGroupName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTeamTopic(t *testing.T) {
	tests := []struct {
		name   string
		topics []string
		want   string
		ok     bool
	}{
		{name: "no topics"},
		{name: "no team topic", topics: []string{"go", "infra"}},
		{name: "team topic", topics: []string{"go", "team-platform"}, want: "team-platform", ok: true},
		{name: "first team topic wins", topics: []string{"team-a", "team-b"}, want: "team-a", ok: true},
		{name: "prefix must match exactly", topics: []string{"myteam-a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TeamTopic(tt.topics)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("TeamTopic(%v) = (%q, %v), want (%q, %v)", tt.topics, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRegexGroups(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		repo    string
		want    []string
	}{
		{
			name:    "single capture",
			pattern: `^([a-z]+)-deployment$`,
			repo:    "frontend-deployment",
			want:    []string{"main-frontend", "frontend"},
		},
		{
			name:    "two captures",
			pattern: `^([a-z]+)-([a-z]+)$`,
			repo:    "frontend-api",
			want:    []string{"main-frontend", "frontend", "api"},
		},
		{
			name:    "no match",
			pattern: `^([a-z]+)-deployment$`,
			repo:    "Frontend",
			want:    nil,
		},
		{
			name:    "no capture groups",
			pattern: `deployment`,
			repo:    "frontend-deployment",
			want:    nil,
		},
		{
			name:    "multiple matches",
			pattern: `([a-z]+)\d`,
			repo:    "aa1bb2",
			want:    []string{"main-aa", "aa", "bb"},
		},
		{
			name:    "empty capture skipped",
			pattern: `^(x?)([a-z]+)$`,
			repo:    "api",
			want:    []string{"api"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := regexp.MustCompile(tt.pattern)
			got := RegexGroups(re, tt.repo)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("RegexGroups(%q, %q) = %v, want %v", tt.pattern, tt.repo, got, tt.want)
			}
		})
	}
}

func TestRegexGroups_NilRegex(t *testing.T) {
	if got := RegexGroups(nil, "anything"); got != nil {
		t.Fatalf("expected nil for nil regex, got %v", got)
	}
}

func TestLanguageGroups(t *testing.T) {
	shares := map[string]float64{
		"Go":         82.5,
		"Shell":      12.5,
		"Dockerfile": 5.0,
	}

	tests := []struct {
		name       string
		minPercent float64
		want       []string
	}{
		{name: "zero min admits all", want: []string{"dockerfile", "go", "shell"}},
		{name: "threshold drops small shares", minPercent: 10, want: []string{"go", "shell"}},
		{name: "threshold above all", minPercent: 90, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LanguageGroups(shares, tt.minPercent)
			sort.Strings(got)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("LanguageGroups(min=%v) = %v, want %v", tt.minPercent, got, tt.want)
			}
		})
	}
}

func TestLanguageGroups_Empty(t *testing.T) {
	if got := LanguageGroups(nil, 0); got != nil {
		t.Fatalf("expected nil for empty shares, got %v", got)
	}
}
