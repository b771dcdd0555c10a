package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	internalhttp "github.com/fivetwenty-io/concourse-client/internal/http"
)

// getJSON fetches path and decodes the body into out. what names the
// resource in error messages.
func getJSON(ctx context.Context, httpClient *internalhttp.Client, path string, query url.Values, out interface{}, what string) error {
	resp, err := httpClient.Get(ctx, path, query)
	if err != nil {
		return fmt.Errorf("getting %s: %w", what, err)
	}

	err = json.Unmarshal(resp.Body, out)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", what, err)
	}

	return nil
}

// put sends a body-less PUT, as used by the pause, expose and abort actions.
func put(ctx context.Context, httpClient *internalhttp.Client, path, action string) error {
	_, err := httpClient.Put(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	return nil
}
