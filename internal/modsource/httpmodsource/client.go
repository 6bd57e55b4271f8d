// Package httpmodsource implements modsource.ModSource against the public
// CurseForge and Modrinth REST APIs. It is an external collaborator per
// SPEC_FULL.md §1: exercised only through the ModSource interface seam, not
// covered by the core's correctness tests.
package httpmodsource

import (
	"context"
	"fmt"

	"github.com/mmmm-dev/mmmm/internal/artifact"
	"github.com/mmmm-dev/mmmm/internal/modsource"
	"resty.dev/v3"
)

// Config carries the credentials parsed from mmmm.toml (SPEC_FULL.md §6):
// exactly one of CurseAPIKey or CurseProxyURL is required before any
// CurseForge resolution occurs.
type Config struct {
	CurseAPIKey    string
	CurseProxyURL  string
	ModrinthAPIURL string
}

// Client resolves mods against CurseForge and Modrinth over HTTP.
type Client struct {
	cfg  Config
	http *resty.Client
}

// New constructs a Client. cfg.ModrinthAPIURL defaults to Modrinth's public
// API when empty.
func New(cfg Config) *Client {
	if cfg.ModrinthAPIURL == "" {
		cfg.ModrinthAPIURL = "https://api.modrinth.com/v2"
	}
	return &Client{cfg: cfg, http: resty.New()}
}

// Close releases the underlying HTTP transport.
func (c *Client) Close() error {
	return c.http.Close()
}

// Resolve implements modsource.ModSource.
func (c *Client) Resolve(ctx context.Context, req modsource.ResolveRequest) (artifact.ResolvedMod, error) {
	switch req.Source {
	case artifact.SourceCurse:
		return c.resolveCurse(ctx, req)
	case artifact.SourceModrinth:
		return c.resolveModrinth(ctx, req)
	default:
		return artifact.ResolvedMod{}, fmt.Errorf("httpmodsource: unsupported source %s", req.Source)
	}
}

func (c *Client) resolveCurse(ctx context.Context, req modsource.ResolveRequest) (artifact.ResolvedMod, error) {
	if c.cfg.CurseAPIKey == "" && c.cfg.CurseProxyURL == "" {
		return artifact.ResolvedMod{}, fmt.Errorf("httpmodsource: curseforge resolution requires curse_api_key or curse_proxy_url")
	}

	base := "https://api.curseforge.com/v1"
	request := c.http.R().SetContext(ctx)
	if c.cfg.CurseProxyURL != "" {
		base = c.cfg.CurseProxyURL
	} else {
		request.SetHeader("x-api-key", c.cfg.CurseAPIKey)
	}

	var body curseFileResponse
	resp, err := request.SetResult(&body).Get(fmt.Sprintf("%s/mods/%s/files/%s", base, req.ID, req.FileID))
	if err != nil {
		return artifact.ResolvedMod{}, fmt.Errorf("httpmodsource: curseforge request failed: %w", err)
	}
	if resp.IsError() {
		return artifact.ResolvedMod{}, fmt.Errorf("httpmodsource: curseforge returned %s", resp.Status())
	}

	digests := map[string]string{}
	for _, h := range body.Data.Hashes {
		digests[h.Algo] = h.Value
	}

	return artifact.ResolvedMod{
		Mod: artifact.Mod{
			Source:   artifact.SourceCurse,
			Name:     req.Name,
			ID:       req.ID,
			FileID:   req.FileID,
			Required: true,
			Default:  true,
			Side:     artifact.SideBoth,
		},
		DownloadURL: body.Data.DownloadURL,
		Filename:    body.Data.FileName,
		FileSize:    body.Data.FileLength,
		Digests:     digests,
		ProjectID:   req.ID,
		FileIDRes:   req.FileID,
	}, nil
}

func (c *Client) resolveModrinth(ctx context.Context, req modsource.ResolveRequest) (artifact.ResolvedMod, error) {
	var body []modrinthVersion
	resp, err := c.http.R().SetContext(ctx).SetResult(&body).
		SetQueryParam("loaders", fmt.Sprintf("[%q]", req.Loader)).
		SetQueryParam("game_versions", fmt.Sprintf("[%q]", req.MCVersion)).
		Get(fmt.Sprintf("%s/project/%s/version", c.cfg.ModrinthAPIURL, req.ID))
	if err != nil {
		return artifact.ResolvedMod{}, fmt.Errorf("httpmodsource: modrinth request failed: %w", err)
	}
	if resp.IsError() {
		return artifact.ResolvedMod{}, fmt.Errorf("httpmodsource: modrinth returned %s", resp.Status())
	}
	if len(body) == 0 || len(body[0].Files) == 0 {
		return artifact.ResolvedMod{}, fmt.Errorf("httpmodsource: modrinth returned no matching version for %s", req.Name)
	}

	f := body[0].Files[0]
	digests := map[string]string{}
	if f.Hashes.SHA1 != "" {
		digests["sha1"] = f.Hashes.SHA1
	}
	if f.Hashes.SHA512 != "" {
		digests["sha512"] = f.Hashes.SHA512
	}

	return artifact.ResolvedMod{
		Mod: artifact.Mod{
			Source:   artifact.SourceModrinth,
			Name:     req.Name,
			ID:       req.ID,
			Required: true,
			Default:  true,
			Side:     artifact.SideBoth,
		},
		DownloadURL: f.URL,
		Filename:    f.Filename,
		FileSize:    f.Size,
		Digests:     digests,
		ProjectID:   req.ID,
		FileIDRes:   body[0].ID,
	}, nil
}

type curseFileResponse struct {
	Data struct {
		DownloadURL string `json:"downloadUrl"`
		FileName    string `json:"fileName"`
		FileLength  int64  `json:"fileLength"`
		Hashes      []struct {
			Value string `json:"value"`
			Algo  string `json:"algo"`
		} `json:"hashes"`
	} `json:"data"`
}

type modrinthVersion struct {
	ID    string `json:"id"`
	Files []struct {
		URL      string `json:"url"`
		Filename string `json:"filename"`
		Size     int64  `json:"size"`
		Hashes   struct {
			SHA1   string `json:"sha1"`
			SHA512 string `json:"sha512"`
		} `json:"hashes"`
	} `json:"files"`
}
