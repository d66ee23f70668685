package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/aretw0/keep/pkg/core"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// GitHub implements Repository on the GitHub contents API.
type GitHub struct {
	http   *http.Client
	apiURL string
	repo   string
	logger *slog.Logger
}

// GitHubOption configures a GitHub client.
type GitHubOption func(*githubConfig)

type githubConfig struct {
	apiURL string
	base   *http.Client
	logger *slog.Logger
}

// WithAPIURL points the client at another endpoint (enterprise hosts, tests).
func WithAPIURL(u string) GitHubOption {
	return func(c *githubConfig) { c.apiURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient sets the transport the credential is layered onto.
func WithHTTPClient(h *http.Client) GitHubOption {
	return func(c *githubConfig) { c.base = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) GitHubOption {
	return func(c *githubConfig) { c.logger = l }
}

// NewGitHub builds a client for repo ("owner/name" or a URL) authenticated
// with a bearer token.
func NewGitHub(token, repo string, opts ...GitHubOption) (*GitHub, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing credential", core.ErrNotConfigured)
	}
	normalized, err := NormalizeRepo(repo)
	if err != nil {
		return nil, err
	}

	cfg := githubConfig{
		apiURL: DefaultAPIURL,
		base:   &http.Client{Timeout: 30 * time.Second},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, cfg.base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client.Timeout = cfg.base.Timeout

	return &GitHub{http: client, apiURL: cfg.apiURL, repo: normalized, logger: cfg.logger}, nil
}

// Repo returns the normalized repository identifier.
func (g *GitHub) Repo() string { return g.repo }

// APIURL returns the endpoint the client talks to.
func (g *GitHub) APIURL() string { return g.apiURL }

func (g *GitHub) contentsURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return g.apiURL + "/repos/" + g.repo + "/contents/" + strings.Join(segments, "/")
}

type contentItem struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
	DownloadURL string `json:"download_url"`
}

type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

func (g *GitHub) do(ctx context.Context, op, method, target, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return &Error{Op: op, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		return &Error{Op: op, Path: path, Err: err}
	}
	defer resp.Body.Close()
	g.logger.Debug("remote call", "op", op, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= 300 {
		return responseError(op, path, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Path: path, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

func responseError(op, path string, resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	status := resp.StatusCode
	// An exhausted rate limit is reported as 403 but is not a credential problem.
	if status == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
		status = http.StatusTooManyRequests
	}
	return &Error{Op: op, Path: path, Status: status, Message: body.Message}
}

// Get fetches a file. Content larger than the inline limit is downloaded
// from the raw URL.
func (g *GitHub) Get(ctx context.Context, path string) (*File, error) {
	var item contentItem
	if err := g.do(ctx, "get", http.MethodGet, g.contentsURL(path), path, nil, &item); err != nil {
		return nil, err
	}
	if item.Type != "" && item.Type != "file" {
		return nil, &Error{Op: "get", Path: path, Message: "not a file: " + item.Type}
	}

	f := &File{Path: path, SHA: item.SHA}
	switch {
	case item.Encoding == "base64":
		data, err := base64.StdEncoding.DecodeString(item.Content)
		if err != nil {
			return nil, &Error{Op: "get", Path: path, Message: "malformed content", Err: err}
		}
		f.Content = data
	case item.DownloadURL != "":
		data, err := g.download(ctx, path, item.DownloadURL)
		if err != nil {
			return nil, err
		}
		f.Content = data
	}
	return f, nil
}

func (g *GitHub) download(ctx context.Context, path, raw string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, &Error{Op: "download", Path: path, Err: err}
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, &Error{Op: "download", Path: path, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, responseError("download", path, resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "download", Path: path, Err: err}
	}
	return data, nil
}

// Write creates or replaces path. It returns the new blob SHA.
func (g *GitHub) Write(ctx context.Context, path string, content []byte, sha, message string) (string, error) {
	req := writeRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
	}
	var resp writeResponse
	if err := g.do(ctx, "write", http.MethodPut, g.contentsURL(path), path, req, &resp); err != nil {
		return "", err
	}
	return resp.Content.SHA, nil
}

// Delete removes path at revision sha.
func (g *GitHub) Delete(ctx context.Context, path, sha, message string) error {
	return g.do(ctx, "delete", http.MethodDelete, g.contentsURL(path), path, writeRequest{Message: message, SHA: sha}, nil)
}

// List returns the entries of dir.
func (g *GitHub) List(ctx context.Context, dir string) ([]Entry, error) {
	var items []contentItem
	if err := g.do(ctx, "list", http.MethodGet, g.contentsURL(dir), dir, nil, &items); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, Entry{Name: it.Name, Path: it.Path, SHA: it.SHA, Type: it.Type})
	}
	return entries, nil
}

var _ Repository = (*GitHub)(nil)
