package inventory

import (
	"encoding/json"
	"regexp"
	"slices"
	"testing"
)

func testRepos() []Repository {
	return []Repository{
		{
			ID:            1,
			Name:          "frontend-deployment",
			FullName:      "acme/frontend-deployment",
			CloneURL:      "https://github.com/acme/frontend-deployment.git",
			SSHURL:        "git@github.com:acme/frontend-deployment.git",
			DefaultBranch: "main",
			Topics:        []string{"team-web", "deploy"},
			Languages:     map[string]float64{"Go": 90, "Shell": 10},
		},
		{
			ID:       2,
			Name:     "backend-deployment",
			FullName: "acme/backend-deployment",
			Topics:   []string{"team-core"},
		},
		{
			ID:       3,
			Name:     "sandbox",
			FullName: "acme/sandbox",
		},
	}
}

func TestBuilder_TeamGroups(t *testing.T) {
	inv := NewBuilder(BuilderOptions{}, nil).Build(testRepos())

	tests := []struct {
		group string
		hosts []string
	}{
		{"team_web", []string{"frontend-deployment"}},
		{"team_core", []string{"backend-deployment"}},
		{"unassigned", []string{"sandbox"}},
	}
	for _, tt := range tests {
		group, ok := inv.Groups[tt.group]
		if !ok {
			t.Fatalf("missing group %q (have %v)", tt.group, inv.GroupNames())
		}
		if !slices.Equal(group.Hosts, tt.hosts) {
			t.Fatalf("group %q hosts = %v, want %v", tt.group, group.Hosts, tt.hosts)
		}
	}

	// A host with a team topic is in exactly one team group and not unassigned.
	for _, host := range inv.Groups["unassigned"].Hosts {
		if host == "frontend-deployment" || host == "backend-deployment" {
			t.Fatalf("host %q has a team but landed in unassigned", host)
		}
	}
}

func TestBuilder_RegexGroups(t *testing.T) {
	re := regexp.MustCompile(`^([a-z]+)-deployment$`)
	inv := NewBuilder(BuilderOptions{Regex: re}, nil).Build(testRepos())

	if hosts := inv.Groups["frontend"].Hosts; !slices.Equal(hosts, []string{"frontend-deployment"}) {
		t.Fatalf("frontend group hosts = %v", hosts)
	}
	if hosts := inv.Groups["main_frontend"].Hosts; !slices.Equal(hosts, []string{"frontend-deployment"}) {
		t.Fatalf("main_frontend group hosts = %v", hosts)
	}
	if hosts := inv.Groups["backend"].Hosts; !slices.Equal(hosts, []string{"backend-deployment"}) {
		t.Fatalf("backend group hosts = %v", hosts)
	}
	// sandbox does not match the regex and keeps only its unassigned group.
	if hosts := inv.Groups["unassigned"].Hosts; !slices.Equal(hosts, []string{"sandbox"}) {
		t.Fatalf("unassigned hosts = %v", hosts)
	}
}

func TestBuilder_LanguageGroups(t *testing.T) {
	inv := NewBuilder(BuilderOptions{GroupByLanguages: true}, nil).Build(testRepos())

	if hosts := inv.Groups["go"].Hosts; !slices.Equal(hosts, []string{"frontend-deployment"}) {
		t.Fatalf("go group hosts = %v", hosts)
	}
	if hosts := inv.Groups["shell"].Hosts; !slices.Equal(hosts, []string{"frontend-deployment"}) {
		t.Fatalf("shell group hosts = %v", hosts)
	}

	// Threshold keeps the dominant language only.
	inv = NewBuilder(BuilderOptions{GroupByLanguages: true, LanguageMinPercent: 50}, nil).Build(testRepos())
	if _, ok := inv.Groups["shell"]; ok {
		t.Fatalf("shell group should be below the 50%% threshold")
	}
	if _, ok := inv.Groups["go"]; !ok {
		t.Fatalf("go group should survive the 50%% threshold")
	}
}

func TestBuilder_Hostvars(t *testing.T) {
	inv := NewBuilder(BuilderOptions{}, nil).Build(testRepos())

	vars := inv.HostVars("frontend-deployment")
	if vars == nil {
		t.Fatalf("missing hostvars for frontend-deployment")
	}
	if vars["ansible_host"] != "localhost" || vars["ansible_connection"] != "local" {
		t.Fatalf("connection vars wrong: %v", vars)
	}
	if vars["clone_url"] != "https://github.com/acme/frontend-deployment.git" {
		t.Fatalf("clone_url wrong: %v", vars["clone_url"])
	}
	if vars["team"] != "team-web" {
		t.Fatalf("team var wrong: %v", vars["team"])
	}
	if vars["default_branch"] != "main" {
		t.Fatalf("default_branch wrong: %v", vars["default_branch"])
	}

	if vars := inv.HostVars("sandbox"); vars["team"] != nil {
		t.Fatalf("sandbox should not carry a team var, got %v", vars["team"])
	}
	if vars := inv.HostVars("nope"); vars != nil {
		t.Fatalf("unknown host should have nil vars, got %v", vars)
	}
}

func TestInventory_MarshalJSON(t *testing.T) {
	inv := NewBuilder(BuilderOptions{}, nil).Build(testRepos())

	raw, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	var all struct {
		Children []string `json:"children"`
	}
	if err := json.Unmarshal(doc["all"], &all); err != nil {
		t.Fatalf("all group malformed: %v", err)
	}
	want := []string{"team_core", "team_web", "unassigned"}
	if !slices.Equal(all.Children, want) {
		t.Fatalf("all.children = %v, want %v", all.Children, want)
	}

	var meta struct {
		Hostvars map[string]map[string]any `json:"hostvars"`
	}
	if err := json.Unmarshal(doc["_meta"], &meta); err != nil {
		t.Fatalf("_meta malformed: %v", err)
	}
	if len(meta.Hostvars) != 3 {
		t.Fatalf("expected 3 hostvars entries, got %d", len(meta.Hostvars))
	}
	if meta.Hostvars["backend-deployment"]["full_name"] != "acme/backend-deployment" {
		t.Fatalf("hostvars not carried through: %v", meta.Hostvars["backend-deployment"])
	}
}

func TestInventory_MarshalJSON_Empty(t *testing.T) {
	inv := NewBuilder(BuilderOptions{}, nil).Build(nil)

	raw, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("empty inventory should have only all and _meta, got %v", doc)
	}
	if _, ok := doc["all"]; !ok {
		t.Fatalf("missing all group: %v", doc)
	}
	if _, ok := doc["_meta"]; !ok {
		t.Fatalf("missing _meta: %v", doc)
	}
}

func TestBuilder_SkipsReservedGroupNames(t *testing.T) {
	// A regex capture can produce "all", which would collide with the
	// synthetic all.children key in the --list document.
	repos := []Repository{{Name: "all-deployment"}}
	re := regexp.MustCompile(`^(all)-deployment$`)
	inv := NewBuilder(BuilderOptions{Regex: re}, nil).Build(repos)

	if _, ok := inv.Groups["all"]; ok {
		t.Fatalf("reserved group name all must not become a group: %v", inv.GroupNames())
	}
	if hosts := inv.Groups["main_all"].Hosts; !slices.Equal(hosts, []string{"all-deployment"}) {
		t.Fatalf("main_all group hosts = %v", hosts)
	}

	raw, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	var all struct {
		Children []string `json:"children"`
		Hosts    []string `json:"hosts"`
	}
	if err := json.Unmarshal(doc["all"], &all); err != nil {
		t.Fatalf("all group malformed: %v", err)
	}
	if len(all.Hosts) != 0 {
		t.Fatalf("all must stay synthetic, got hosts %v", all.Hosts)
	}
	if slices.Contains(all.Children, "all") {
		t.Fatalf("all must not list itself as a child: %v", all.Children)
	}
}

func TestBuilder_NoDuplicateMembership(t *testing.T) {
	// team topic and regex derive the same group name; the host must appear once.
	repos := []Repository{{
		Name:   "team-web",
		Topics: []string{"team-web"},
	}}
	re := regexp.MustCompile(`^(team-web)$`)
	inv := NewBuilder(BuilderOptions{Regex: re}, nil).Build(repos)

	if hosts := inv.Groups["team_web"].Hosts; !slices.Equal(hosts, []string{"team-web"}) {
		t.Fatalf("expected single membership, got %v", hosts)
	}
}
