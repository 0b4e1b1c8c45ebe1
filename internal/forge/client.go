// Package forge implements the Git-forge API client the catalog build reads
// from: organization repository listing, per-repository language directory
// discovery, per-language metadata documents, and format directory probes.
//
// Transport failures on 429 and 5xx responses are retried with exponential
// backoff; a 403 on the repository listing triggers a rate-limit cool-down
// against the forge's rate-limit endpoint before a single retry.
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/bibleaquifer/sitegen/internal/logging"
)

const (
	retryMax     = 7
	retryWaitMin = 1 * time.Second
	retryWaitMax = 2 * time.Minute

	// Cool-down kicks in below this many remaining calls; waits longer than
	// maxCoolDown are not worth sleeping through.
	coolDownThreshold = 10
	maxCoolDown       = time.Hour
	coolDownBuffer    = 5 * time.Second

	defaultBranch = "main"
)

// Options configures a Client.
type Options struct {
	APIBase       string
	RawBase       string
	Org           string
	OrgRepo       string // repository holding the organization profile
	ReadmePath    string
	Token         string
	ExcludedRepos []string
	Logger        logging.Logger
}

// Repository is one organization repository from the listing, reduced to the
// fields the catalog keeps.
type Repository struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Client talks to the forge API. All calls are sequential and blocking; the
// retry policy lives in the underlying HTTP client.
type Client struct {
	http     *retryablehttp.Client
	opts     Options
	excluded map[string]struct{}
	logger   logging.Logger
}

// New creates a forge client with the build's retry policy.
func New(opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = retryWaitMin
	rc.RetryWaitMax = retryWaitMax
	rc.Logger = nil

	excluded := make(map[string]struct{}, len(opts.ExcludedRepos))
	for _, name := range opts.ExcludedRepos {
		excluded[name] = struct{}{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}

	return &Client{
		http:     rc,
		opts:     opts,
		excluded: excluded,
		logger:   logger.WithComponent("forge"),
	}
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "token "+c.opts.Token)
	}
	return c.http.Do(req)
}

// getJSON performs a GET and decodes a 200 response into out. The returned
// status code is valid whenever err is nil.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) (int, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding %s: %w", url, err)
	}
	return resp.StatusCode, nil
}

type apiRepo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Archived    bool   `json:"archived"`
}

// Repositories fetches every page of the organization's repository listing
// and filters it down to catalog data repositories: excluded names and
// archived repositories never enter the model. Failures here are fatal for
// the whole build.
func (c *Client) Repositories(ctx context.Context) ([]Repository, error) {
	const perPage = 100

	var all []apiRepo
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/orgs/%s/repos?per_page=%d&page=%d", c.opts.APIBase, c.opts.Org, perPage, page)

		var repos []apiRepo
		status, err := c.getJSON(ctx, url, &repos)
		if err != nil {
			return nil, fmt.Errorf("listing repositories: %w", err)
		}
		if status == http.StatusForbidden {
			if err := c.coolDown(ctx); err != nil {
				return nil, err
			}
			status, err = c.getJSON(ctx, url, &repos)
			if err != nil {
				return nil, fmt.Errorf("listing repositories after cool-down: %w", err)
			}
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("listing repositories: unexpected status %d", status)
		}

		if len(repos) == 0 {
			break
		}
		all = append(all, repos...)
		if len(repos) < perPage {
			break
		}
	}

	result := make([]Repository, 0, len(all))
	for _, repo := range all {
		if _, skip := c.excluded[repo.Name]; skip || repo.Archived {
			continue
		}
		result = append(result, Repository{
			Name:        repo.Name,
			Description: repo.Description,
			URL:         repo.HTMLURL,
		})
	}
	return result, nil
}

type contentsEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Languages lists a repository's top-level 3-letter language directories in
// the order the forge returns them. A failed listing yields no languages,
// which drops the repository from the catalog rather than aborting the run.
func (c *Client) Languages(ctx context.Context, repo string) ([]string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents", c.opts.APIBase, c.opts.Org, repo)

	var contents []contentsEntry
	status, err := c.getJSON(ctx, url, &contents)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}

	var languages []string
	for _, item := range contents {
		if item.Type == "dir" && len(item.Name) == 3 {
			languages = append(languages, item.Name)
		}
	}
	return languages, nil
}

// Metadata fetches <lang>/metadata.json for a repository. A missing or
// malformed document yields (nil, nil): the language simply contributes no
// record.
func (c *Client) Metadata(ctx context.Context, repo, lang string) (*Document, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s/metadata.json", c.opts.RawBase, c.opts.Org, repo, defaultBranch, lang)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		c.logger.Warn(ctx, err, "malformed metadata document", "repo", repo, "lang", lang)
		return nil, nil
	}
	return &doc, nil
}

// FormatExists probes whether a format directory exists for a language. It
// is an existence check only; transport failures count as absent.
func (c *Client) FormatExists(ctx context.Context, repo, lang, dir string) bool {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s/%s", c.opts.APIBase, c.opts.Org, repo, lang, dir)

	resp, err := c.get(ctx, url)
	if err != nil {
		c.logger.Debug(ctx, "format probe failed", "repo", repo, "lang", lang, "dir", dir, "err", err.Error())
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// Readme fetches the organization profile README. Failures are fatal for
// the build.
func (c *Client) Readme(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", c.opts.RawBase, c.opts.Org, c.opts.OrgRepo, defaultBranch, c.opts.ReadmePath)

	resp, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetching README: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching README: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading README: %w", err)
	}
	return string(body), nil
}

type rateLimitStatus struct {
	Resources struct {
		Core struct {
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

// coolDown consults the rate-limit endpoint and, when nearly exhausted,
// sleeps until the reported reset time (bounded) before the caller retries.
func (c *Client) coolDown(ctx context.Context) error {
	var status rateLimitStatus
	code, err := c.getJSON(ctx, c.opts.APIBase+"/rate_limit", &status)
	if err != nil || code != http.StatusOK {
		c.logger.Warn(ctx, err, "rate limit check failed", "status", code)
		return nil
	}

	core := status.Resources.Core
	if core.Remaining >= coolDownThreshold {
		return nil
	}

	wait := time.Until(time.Unix(core.Reset, 0))
	if wait <= 0 || wait > maxCoolDown {
		c.logger.Warn(ctx, nil, "rate limit nearly exhausted", "remaining", core.Remaining, "reset_in", wait.String())
		return nil
	}

	wait += coolDownBuffer
	c.logger.Info(ctx, "waiting for rate limit reset", "remaining", core.Remaining, "wait", wait.String())

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
