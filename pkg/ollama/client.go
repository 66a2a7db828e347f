package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/killallgit/agentflow/pkg/logger"
)

// Client talks to the parts of the Ollama API that langchaingo does not
// cover: listing local models
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Tags lists the models pulled on the server
func (c *Client) Tags(ctx context.Context) (*TagsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tags request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to Ollama at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tags request failed with status: %d", resp.StatusCode)
	}

	var tags TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags response: %w", err)
	}
	return &tags, nil
}

// HasModel reports whether the server has modelName. A name without a tag
// matches its ":latest" version.
func (c *Client) HasModel(ctx context.Context, modelName string) (bool, error) {
	log := logger.WithComponent("ollama")
	log.Debug("Checking for model", "model", modelName, "base_url", c.baseURL)

	tags, err := c.Tags(ctx)
	if err != nil {
		return false, err
	}

	want := withTag(modelName)
	for _, m := range tags.Models {
		if withTag(m.Name) == want {
			return true, nil
		}
	}
	log.Debug("Model not found", "model", modelName, "available", len(tags.Models))
	return false, nil
}

func withTag(name string) string {
	if !strings.Contains(name, ":") {
		return name + ":latest"
	}
	return name
}
