package inventory

import (
	"encoding/json"
	"regexp"
	"sort"

	"go.uber.org/zap"
)

// Group is one inventory group in the Ansible JSON contract.
type Group struct {
	Hosts []string `json:"hosts,omitempty"`
}

// Inventory is the materialized host inventory: groups with member hosts plus
// per-host variables. It marshals to the JSON shape `ansible-inventory --list`
// consumers expect: one top-level key per group, and host variables under
// `_meta.hostvars`.
type Inventory struct {
	Groups   map[string]*Group
	Hostvars map[string]map[string]any
}

func (inv *Inventory) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(inv.Groups)+2)

	groupNames := make([]string, 0, len(inv.Groups))
	for name, group := range inv.Groups {
		sort.Strings(group.Hosts)
		doc[name] = group
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	doc["all"] = map[string]any{"children": groupNames}
	doc["_meta"] = map[string]any{"hostvars": inv.Hostvars}

	return json.Marshal(doc)
}

// HostVars returns the variables for one host, or nil when the host is not in
// the inventory. Callers emit an empty JSON object for unknown hosts, per the
// script inventory contract.
func (inv *Inventory) HostVars(name string) map[string]any {
	return inv.Hostvars[name]
}

// GroupNames returns the group names in sorted order.
func (inv *Inventory) GroupNames() []string {
	names := make([]string, 0, len(inv.Groups))
	for name := range inv.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// reservedGroupNames are the top-level keys Ansible owns in the --list
// document. A derived group with one of these names would collide with the
// synthetic "all" children list or the _meta block, so it is skipped.
var reservedGroupNames = map[string]bool{
	"all":       true,
	"ungrouped": true,
	"_meta":     true,
}

// BuilderOptions control how repositories map onto groups.
type BuilderOptions struct {
	// Regex is the compiled grouping regex, or nil when disabled.
	Regex *regexp.Regexp

	// GroupByLanguages adds one group per repository language.
	GroupByLanguages bool

	// LanguageMinPercent is the minimum language share (0-100) for language
	// group membership.
	LanguageMinPercent float64
}

// Builder turns a repository list into an Inventory. Grouping is applied once
// per run; membership reflects exactly the rules below, in order:
//
//  1. the first team-* topic maps the host to that team group, otherwise the
//     host lands in "unassigned"
//  2. regex capture groups (plus main-<first capture>), when configured
//  3. language groups, when enabled
type Builder struct {
	opts BuilderOptions
	log  *zap.Logger
}

func NewBuilder(opts BuilderOptions, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{opts: opts, log: log}
}

func (b *Builder) Build(repos []Repository) *Inventory {
	inv := &Inventory{
		Groups:   make(map[string]*Group),
		Hostvars: make(map[string]map[string]any, len(repos)),
	}
	// Guards against duplicate hosts within a group when several rules derive
	// the same group name.
	members := make(map[string]map[string]bool)

	addHost := func(group, host string) {
		group = SafeGroupName(group)
		if group == "" || group == "_" {
			return
		}
		if reservedGroupNames[group] {
			b.log.Warn("skipping reserved group name", zap.String("group", group))
			return
		}
		if members[group] == nil {
			members[group] = make(map[string]bool)
			inv.Groups[group] = &Group{}
		}
		if members[group][host] {
			return
		}
		members[group][host] = true
		inv.Groups[group].Hosts = append(inv.Groups[group].Hosts, host)
	}

	for _, r := range repos {
		host := r.Name

		team, hasTeam := TeamTopic(r.Topics)
		if hasTeam {
			addHost(team, host)
		} else {
			addHost(UnassignedGroup, host)
		}

		if b.opts.Regex != nil {
			for _, g := range RegexGroups(b.opts.Regex, r.Name) {
				addHost(g, host)
			}
		}

		if b.opts.GroupByLanguages {
			for _, g := range LanguageGroups(r.Languages, b.opts.LanguageMinPercent) {
				addHost(g, host)
			}
		}

		inv.Hostvars[host] = hostVars(r, team)
	}

	b.log.Debug("built inventory",
		zap.Int("hosts", len(inv.Hostvars)),
		zap.Int("groups", len(inv.Groups)))

	return inv
}

// hostVars materializes the variables for one host. The connection is always
// local: the "host" is a repository, and its clone URL is what playbooks act
// on.
func hostVars(r Repository, team string) map[string]any {
	vars := map[string]any{
		"ansible_host":       "localhost",
		"ansible_connection": "local",
		"id":                 r.ID,
		"name":               r.Name,
		"full_name":          r.FullName,
		"clone_url":          r.CloneURL,
		"ssh_url":            r.SSHURL,
		"html_url":           r.HTMLURL,
		"default_branch":     r.DefaultBranch,
		"archived":           r.Archived,
		"private":            r.Private,
		"topics":             r.Topics,
	}
	if r.Description != "" {
		vars["description"] = r.Description
	}
	if len(r.Languages) > 0 {
		vars["languages"] = r.Languages
	}
	if team != "" {
		vars["team"] = team
	}
	return vars
}
