// Package selfupdate replaces the running skilltrail binary with the
// latest GitHub release.
package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/skilltrail/internal/logger"
)

const (
	defaultAPIBase      = "https://api.github.com"
	defaultDownloadBase = "https://github.com"
	defaultOwner        = "abhisek"
	defaultRepo         = "skilltrail"
)

// Checker talks to the release host.
type Checker struct {
	client          *http.Client
	apiBaseURL      string
	downloadBaseURL string
	owner, repo     string
	execPath        func() (string, error)
	log             *logger.Logger
}

type Option func(*Checker)

func WithBaseURL(u string) Option { return func(c *Checker) { c.apiBaseURL = u } }

func WithDownloadBaseURL(u string) Option { return func(c *Checker) { c.downloadBaseURL = u } }

func WithTimeout(d time.Duration) Option { return func(c *Checker) { c.client.Timeout = d } }

func WithRepository(owner, repo string) Option {
	return func(c *Checker) { c.owner, c.repo = owner, repo }
}

func WithLogger(l *logger.Logger) Option { return func(c *Checker) { c.log = logger.OrNop(l) } }

func withExecPath(fn func() (string, error)) Option { return func(c *Checker) { c.execPath = fn } }

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:          &http.Client{Timeout: 15 * time.Second},
		apiBaseURL:      defaultAPIBase,
		downloadBaseURL: defaultDownloadBase,
		owner:           defaultOwner,
		repo:            defaultRepo,
		execPath:        os.Executable,
		log:             logger.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type CheckInput struct {
	Version string
}

type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

type latestRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check compares the given version against the latest published release.
func (c *Checker) Check(ctx context.Context, in *CheckInput) (*CheckResult, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(c.apiBaseURL, "/"), c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup: HTTP %d", resp.StatusCode)
	}

	var rel latestRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	latest := canonical(rel.TagName)
	if latest == "" {
		return nil, fmt.Errorf("release tag %q is not a semantic version", rel.TagName)
	}
	current := canonical(in.Version)

	res := &CheckResult{
		CurrentVersion:  in.Version,
		LatestVersion:   rel.TagName,
		ReleaseURL:      rel.HTMLURL,
		UpdateAvailable: current == "" || semver.Compare(latest, current) > 0,
	}
	c.log.Debug("release check", "current", in.Version, "latest", rel.TagName, "update", res.UpdateAvailable)
	return res, nil
}

// canonical accepts tags with or without the leading v.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
