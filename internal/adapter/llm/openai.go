package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"sqlseg/internal/domain"
	"sqlseg/internal/port"
)

// OpenAIConverter calls an OpenAI-compatible chat completions endpoint,
// including Azure OpenAI deployments.
type OpenAIConverter struct {
	apiKey      string
	model       string
	url         string
	azure       bool
	temperature float64
	client      *http.Client
}

// OpenAIOptions configures an OpenAIConverter.
type OpenAIOptions struct {
	APIKeyEnv   string
	Model       string
	BaseURL     string // override for OpenAI-compatible providers
	Deployment  string // Azure deployment name
	APIVersion  string // Azure api-version
	Temperature float64
	Timeout     time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewOpenAIConverter creates a converter against api.openai.com or an
// OpenAI-compatible BaseURL override.
func NewOpenAIConverter(opts OpenAIOptions) (*OpenAIConverter, error) {
	apiKey := os.Getenv(opts.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", opts.APIKeyEnv)
	}

	base := opts.BaseURL
	if base == "" {
		base = "https://api.openai.com/v1"
	}

	return &OpenAIConverter{
		apiKey:      apiKey,
		model:       opts.Model,
		url:         strings.TrimRight(base, "/") + "/chat/completions",
		temperature: opts.Temperature,
		client:      &http.Client{Timeout: timeoutOrDefault(opts.Timeout)},
	}, nil
}

// NewAzureConverter creates a converter against an Azure OpenAI deployment.
// BaseURL is the resource endpoint; the deployment name selects the model.
func NewAzureConverter(opts OpenAIOptions) (*OpenAIConverter, error) {
	apiKey := os.Getenv(opts.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", opts.APIKeyEnv)
	}
	if opts.BaseURL == "" || opts.Deployment == "" {
		return nil, fmt.Errorf("azure provider requires base_url and deployment")
	}
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = "2023-05-15"
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(opts.BaseURL, "/"), url.PathEscape(opts.Deployment), url.QueryEscape(apiVersion))

	return &OpenAIConverter{
		apiKey:      apiKey,
		model:       opts.Deployment,
		url:         endpoint,
		azure:       true,
		temperature: opts.Temperature,
		client:      &http.Client{Timeout: timeoutOrDefault(opts.Timeout)},
	}, nil
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}

func (c *OpenAIConverter) Convert(ctx context.Context, block domain.Block) (string, port.Usage, error) {
	return c.complete(ctx, blockPrompt(block), 0)
}

func (c *OpenAIConverter) ConvertScript(ctx context.Context, script string) (string, port.Usage, error) {
	return c.complete(ctx, scriptPrompt(script), 0)
}

func (c *OpenAIConverter) Validate(ctx context.Context) error {
	_, _, err := c.complete(ctx, "hello", 1)
	return err
}

func (c *OpenAIConverter) ModelName() string {
	return c.model
}

func (c *OpenAIConverter) complete(ctx context.Context, prompt string, maxTokens int) (string, port.Usage, error) {
	reqBody := chatRequest{
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	}
	if !c.azure {
		reqBody.Model = c.model
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", port.Usage{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", port.Usage{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.azure {
		req.Header.Set("api-key", c.apiKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", port.Usage{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", port.Usage{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", port.Usage{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", port.Usage{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return "", port.Usage{}, fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", port.Usage{}, fmt.Errorf("API returned no choices")
	}

	usage := port.Usage{
		InputTokens:  chatResp.Usage.PromptTokens,
		OutputTokens: chatResp.Usage.CompletionTokens,
	}
	return strings.TrimSpace(chatResp.Choices[0].Message.Content), usage, nil
}
