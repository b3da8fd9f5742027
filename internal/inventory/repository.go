package inventory

import (
	"math"

	"github.com/google/go-github/v81/github"
)

// Repository is the subset of GitHub repository metadata the inventory carries
// as hostvars. It is what gets cached on disk, so the fields are flat and
// JSON-stable.
type Repository struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description,omitempty"`
	CloneURL      string   `json:"clone_url"`
	SSHURL        string   `json:"ssh_url"`
	HTMLURL       string   `json:"html_url"`
	DefaultBranch string   `json:"default_branch"`
	Archived      bool     `json:"archived"`
	Private       bool     `json:"private"`
	Topics        []string `json:"topics,omitempty"`

	// Languages maps language name to its share of the repository in percent
	// (0-100, one decimal). Populated only when language grouping is enabled.
	Languages map[string]float64 `json:"languages,omitempty"`
}

func FromGitHub(r *github.Repository) Repository {
	return Repository{
		ID:            r.GetID(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		CloneURL:      r.GetCloneURL(),
		SSHURL:        r.GetSSHURL(),
		HTMLURL:       r.GetHTMLURL(),
		DefaultBranch: r.GetDefaultBranch(),
		Archived:      r.GetArchived(),
		Private:       r.GetPrivate(),
		Topics:        r.Topics,
	}
}

// LanguageShares converts the byte counts returned by the GitHub languages
// endpoint into percent shares, rounded to one decimal.
func LanguageShares(byteCounts map[string]int) map[string]float64 {
	if len(byteCounts) == 0 {
		return nil
	}

	total := 0
	for _, n := range byteCounts {
		total += n
	}
	if total <= 0 {
		return nil
	}

	shares := make(map[string]float64, len(byteCounts))
	for lang, n := range byteCounts {
		shares[lang] = math.Round(float64(n)/float64(total)*1000) / 10
	}
	return shares
}
