package gist

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/tildaslashalef/gistman/internal/config"
	"github.com/tildaslashalef/gistman/internal/reconcile"
)

const defaultAPIURL = "https://api.github.com"

// Client wraps the GitHub API for gist operations. All calls go through a
// shared rate limiter and retry transient failures with exponential backoff;
// remote rejections are never retried here or anywhere else.
type Client struct {
	gh         *github.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a new GitHub API client from the application config.
func NewClient(cfg *config.Config) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.GitHub.Token},
	)

	timeout := cfg.GitHub.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = timeout

	// Create GitHub client with custom base URL if specified
	var gh *github.Client
	if cfg.GitHub.APIURL != "" && cfg.GitHub.APIURL != defaultAPIURL {
		var err error
		gh, err = github.NewEnterpriseClient(cfg.GitHub.APIURL, cfg.GitHub.APIURL, tc)
		if err != nil {
			// Fall back to the default client if enterprise client creation fails
			gh = github.NewClient(tc)
		}
	} else {
		gh = github.NewClient(tc)
	}

	rps := cfg.GitHub.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.GitHub.Burst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		gh:         gh,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		maxRetries: cfg.GitHub.MaxRetries,
	}
}

// do rate-limits and retries a single API call. Transient failures (network
// errors, 5xx) are retried up to maxRetries; everything else is mapped to
// the client's error taxonomy immediately.
func (c *Client) do(ctx context.Context, call func() (*github.Response, error)) error {
	var lastResp *github.Response
	operation := func() error {
		// Every attempt takes a token, including backoff retries.
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := call()
		lastResp = resp
		if err == nil {
			return nil
		}
		if isTransient(resp, err) {
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)

	if err := backoff.Retry(operation, bo); err != nil {
		return mapAPIError(lastResp, err)
	}
	return nil
}

// Get fetches the full state of a gist, including file contents.
func (c *Client) Get(ctx context.Context, id string) (*github.Gist, error) {
	var gist *github.Gist
	err := c.do(ctx, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		gist, resp, err = c.gh.Gists.Get(ctx, id)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching gist %s: %w", id, err)
	}
	return gist, nil
}

// Create creates a new gist from a filename-to-content mapping.
func (c *Client) Create(ctx context.Context, files map[string]string, description string, public bool) (*github.Gist, error) {
	payload := &github.Gist{
		Description: github.String(description),
		Public:      github.Bool(public),
		Files:       make(map[github.GistFilename]github.GistFile, len(files)),
	}
	for name, content := range files {
		payload.Files[github.GistFilename(name)] = github.GistFile{
			Content: github.String(content),
		}
	}

	var created *github.Gist
	err := c.do(ctx, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		created, resp, err = c.gh.Gists.Create(ctx, payload)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("creating gist: %w", err)
	}
	return created, nil
}

// Update patches a gist with a reconciliation wire payload. The typed
// go-github edit call cannot express file deletion (a null file entry), so
// the payload is sent through a raw PATCH request instead.
func (c *Client) Update(ctx context.Context, id string, payload reconcile.WirePayload) (*github.Gist, error) {
	var updated *github.Gist
	err := c.do(ctx, func() (*github.Response, error) {
		req, err := c.gh.NewRequest("PATCH", fmt.Sprintf("gists/%s", id), payload)
		if err != nil {
			return nil, err
		}
		updated = new(github.Gist)
		return c.gh.Do(ctx, req, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("updating gist %s: %w", id, err)
	}
	return updated, nil
}

// Delete permanently removes a gist.
func (c *Client) Delete(ctx context.Context, id string) error {
	err := c.do(ctx, func() (*github.Response, error) {
		return c.gh.Gists.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting gist %s: %w", id, err)
	}
	return nil
}

// List returns up to limit gists of the authenticated user, newest first.
func (c *Client) List(ctx context.Context, limit int) ([]*github.Gist, error) {
	opts := &github.GistListOptions{
		ListOptions: github.ListOptions{PerPage: limit},
	}
	if opts.PerPage > 100 {
		opts.PerPage = 100
	}

	var all []*github.Gist
	for {
		var page []*github.Gist
		var resp *github.Response
		err := c.do(ctx, func() (*github.Response, error) {
			var err error
			page, resp, err = c.gh.Gists.List(ctx, "", opts)
			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("listing gists: %w", err)
		}

		all = append(all, page...)
		if len(all) >= limit || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ValidateToken checks that the token authenticates and carries the gist
// scope by fetching the current user and listing gists.
func (c *Client) ValidateToken(ctx context.Context) error {
	err := c.do(ctx, func() (*github.Response, error) {
		_, resp, err := c.gh.Users.Get(ctx, "")
		return resp, err
	})
	if err != nil {
		return fmt.Errorf("validating token: %w", err)
	}

	err = c.do(ctx, func() (*github.Response, error) {
		opts := &github.GistListOptions{ListOptions: github.ListOptions{PerPage: 1}}
		_, resp, err := c.gh.Gists.List(ctx, "", opts)
		return resp, err
	})
	if err != nil {
		return fmt.Errorf("token lacks gist access: %w", err)
	}

	return nil
}
