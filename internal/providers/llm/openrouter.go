package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/gtmsuite/internal/core"
)

const openRouterBaseURL = "https://openrouter.ai/api"

func openRouterHeaders() map[string]string {
	return map[string]string{
		"HTTP-Referer": core.SuiteRepositoryURL,
		"X-Title":      core.SuiteName,
	}
}

type OpenRouter struct {
	*OpenAICompatible
}

func NewOpenRouter(apiKey, model string) *OpenRouter {
	return &OpenRouter{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:      openRouterBaseURL,
			APIKey:       apiKey,
			Model:        model,
			AuthHeader:   "Authorization",
			AuthPrefix:   "Bearer ",
			ExtraHeaders: openRouterHeaders(),
		}),
	}
}

func (o *OpenRouter) Models(ctx context.Context) ([]core.Model, error) {
	headers := openRouterHeaders()
	headers["Authorization"] = "Bearer " + o.apiKey

	resp, err := o.doRequest(ctx, http.MethodGet, "/v1/models", nil, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []core.Model `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return result.Data, nil
}
