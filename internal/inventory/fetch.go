package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v81/github"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ghinventory/internal/config"
	gh "ghinventory/internal/github"
)

const defaultOrgRepoLimit = 1000

// Fetcher lists an organization's repositories from the GitHub API.
type Fetcher struct {
	client *gh.Client
	cfg    *config.Config
	log    *zap.Logger
}

func NewFetcher(client *gh.Client, cfg *config.Config, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{client: client, cfg: cfg, log: log}
}

// Fetch returns the organization's repositories, with language shares filled
// in when language grouping is enabled.
func (f *Fetcher) Fetch(ctx context.Context) ([]Repository, error) {
	repos, err := f.listOrgRepos(ctx, f.cfg.Org, defaultOrgRepoLimit)
	if err != nil {
		return nil, err
	}
	f.log.Debug("listed org repositories", zap.String("org", f.cfg.Org), zap.Int("count", len(repos)))

	if f.cfg.GroupByLanguages {
		if err := f.fetchLanguages(ctx, repos); err != nil {
			return nil, err
		}
	}

	return repos, nil
}

func (f *Fetcher) listOrgRepos(ctx context.Context, org string, limit int) ([]Repository, error) {
	repos := make([]Repository, 0, min(limit, 100))

	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		page, resp, err := f.client.Client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, describeAPIError(fmt.Errorf("failed to list repositories for org %s: %w", org, err))
		}
		for _, repo := range page {
			if len(repos) >= limit {
				break
			}
			repos = append(repos, FromGitHub(repo))
		}
		if len(repos) >= limit {
			break
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return repos, nil
}

// fetchLanguages fills Repository.Languages in place. One API call per repo,
// bounded by the configured concurrency.
func (f *Fetcher) fetchLanguages(ctx context.Context, repos []Repository) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.Concurrency)

	for i := range repos {
		g.Go(func() error {
			byteCounts, _, err := f.client.Client.Repositories.ListLanguages(ctx, f.cfg.Org, repos[i].Name)
			if err != nil {
				return describeAPIError(fmt.Errorf("failed to list languages for %s: %w", repos[i].FullName, err))
			}
			repos[i].Languages = LanguageShares(byteCounts)
			return nil
		})
	}

	return g.Wait()
}

// describeAPIError annotates common GitHub API failures with what the user
// should do about them. The wrapped error chain is preserved.
func describeAPIError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w (rate limit resets at %s; enabling the cache avoids repeated API calls)",
			err, rateErr.Rate.Reset.Time.Format("15:04:05"))
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w (secondary rate limit; enabling the cache avoids repeated API calls)", err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w (authentication failed; check the access token)", err)
		case http.StatusForbidden:
			return fmt.Errorf("%w (token lacks access; an org inventory typically needs repo and read:org scopes)", err)
		case http.StatusNotFound:
			return fmt.Errorf("%w (org not found, or the token cannot see it)", err)
		}
	}

	return err
}
