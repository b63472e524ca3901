package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
	"github.com/Dreaeast/worker-keep-online/internal/httpclient"
)

const (
	githubAPIURL = "https://api.github.com"
	githubRawURL = "https://raw.githubusercontent.com"
	userAgent    = "worker-keep-online"
	rawMediaType = "application/vnd.github.v3.raw"
	fetchTimeout = 15 * time.Second
)

var errNotFound = errors.New("file not found in repository tree")

// GitHub reads group lists from files in a GitHub repository. Each file is
// tried through the contents API, then raw.githubusercontent.com, then the
// blob API.
type GitHub struct {
	apiURL string
	rawURL string
	repo   string
	branch string
	token  string
	paths  map[entity.GroupID]string
	client *http.Client
}

// NewGitHub maps every group to a path inside repo ("owner/name").
func NewGitHub(repo, branch, token string, paths map[entity.GroupID]string) *GitHub {
	return &GitHub{
		apiURL: githubAPIURL,
		rawURL: githubRawURL,
		repo:   repo,
		branch: branch,
		token:  token,
		paths:  paths,
		client: httpclient.New(httpclient.Config{Timeout: fetchTimeout, EnvironmentProxy: true}),
	}
}

// RepoPaths turns local list locations into repository paths by keeping the
// file name only, e.g. /tmp/sub/url1.yaml -> url1.yaml.
func RepoPaths(files map[entity.GroupID]string) map[entity.GroupID]string {
	paths := make(map[entity.GroupID]string, len(files))
	for group, file := range files {
		paths[group] = file[strings.LastIndex(file, "/")+1:]
	}
	return paths
}

func (g *GitHub) Name() string {
	return "github"
}

func (g *GitHub) Load(ctx context.Context, group entity.GroupID) []string {
	path, ok := g.paths[group]
	if !ok {
		return nil
	}
	content, err := g.Fetch(ctx, path)
	if err != nil {
		slog.Error("failed to fetch url file from github", "repo", g.repo, "path", path, "error", err)
		return []string{}
	}
	urls, err := ParseLines(strings.NewReader(content))
	if err != nil {
		slog.Error("failed to parse url file from github", "repo", g.repo, "path", path, "error", err)
	}
	slog.Info("retrieved urls from github", "repo", g.repo, "path", path, "urls_count", len(urls))
	return urls
}

// Fetch returns the raw content of path.
func (g *GitHub) Fetch(ctx context.Context, path string) (string, error) {
	owner, name, ok := strings.Cut(g.repo, "/")
	if !ok || owner == "" || name == "" {
		return "", fmt.Errorf("%w: invalid repository %q, expected owner/repo", entity.ErrFileRead, g.repo)
	}

	contentsURL := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", g.apiURL, g.repo, path, g.branch)
	content, err := g.get(ctx, contentsURL, rawMediaType)
	if err == nil {
		slog.Debug("retrieved file via contents api", "path", path, "size", len(content))
		return string(content), nil
	}
	slog.Debug("contents api failed, trying raw url", "path", path, "error", err)

	rawURL := fmt.Sprintf("%s/%s/%s/%s", g.rawURL, g.repo, g.branch, path)
	content, err = g.get(ctx, rawURL, "")
	if err == nil {
		slog.Debug("retrieved file via raw url", "path", path, "size", len(content))
		return string(content), nil
	}
	slog.Debug("raw url failed, trying blob api", "path", path, "error", err)

	sha, err := g.blobSha(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", entity.ErrFileRead, path, err)
	}
	blobURL := fmt.Sprintf("%s/repos/%s/git/blobs/%s", g.apiURL, g.repo, sha)
	content, err = g.get(ctx, blobURL, rawMediaType)
	if err != nil {
		return "", fmt.Errorf("%w: all github access methods failed for %s: %w", entity.ErrFileRead, path, err)
	}
	slog.Debug("retrieved file via blob api", "path", path, "size", len(content))
	return string(content), nil
}

func (g *GitHub) blobSha(ctx context.Context, path string) (string, error) {
	treeURL := fmt.Sprintf("%s/repos/%s/git/trees/%s?recursive=1", g.apiURL, g.repo, g.branch)
	tree, err := g.get(ctx, treeURL, "")
	if err != nil {
		return "", fmt.Errorf("repository tree: %w", err)
	}
	sha := gjson.GetBytes(tree, fmt.Sprintf(`tree.#(path==%q).sha`, path))
	if !sha.Exists() || sha.String() == "" {
		return "", fmt.Errorf("%w: %s", errNotFound, path)
	}
	return sha.String(), nil
}

func (g *GitHub) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		err = Body.Close()
		if err != nil {
			slog.Error("failed to close response body", "url", url, "err", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
