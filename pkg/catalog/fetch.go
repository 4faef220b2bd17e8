package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Fetch reads the JSON document at location into v.
// http(s) locations are requested with httpClient; anything else is a file path.
func Fetch(ctx context.Context, httpClient *http.Client, location string, v any) error {
	body, err := open(ctx, httpClient, location)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", location, err)
	}
	return nil
}

func open(ctx context.Context, httpClient *http.Client, location string) (io.ReadCloser, error) {
	if !isRemote(location) {
		f, err := os.Open(strings.TrimPrefix(location, "file://"))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", location, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", location, err)
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to load %s: status %d", location, resp.StatusCode)
	}
	return resp.Body, nil
}

func isRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Load fetches the materials and assemblies documents concurrently.
// Both must succeed; the first failure cancels the other fetch.
func Load(ctx context.Context, httpClient *http.Client, materialsLoc, assembliesLoc string) (*MaterialsDoc, *AssembliesDoc, error) {
	var (
		materials  MaterialsDoc
		assemblies AssembliesDoc
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return Fetch(gctx, httpClient, materialsLoc, &materials)
	})
	g.Go(func() error {
		return Fetch(gctx, httpClient, assembliesLoc, &assemblies)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return &materials, &assemblies, nil
}
