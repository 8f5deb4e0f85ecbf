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

// GeminiConverter calls the Google Generative Language generateContent API.
type GeminiConverter struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

// GeminiOptions configures a GeminiConverter.
type GeminiOptions struct {
	APIKeyEnv string
	Model     string
	BaseURL   string
	Timeout   time.Duration
}

type gmPart struct {
	Text string `json:"text"`
}

type gmContent struct {
	Role  string   `json:"role,omitempty"`
	Parts []gmPart `json:"parts"`
}

type gmRequest struct {
	Contents []gmContent `json:"contents"`
}

type gmResponse struct {
	Candidates []struct {
		Content gmContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewGeminiConverter(opts GeminiOptions) (*GeminiConverter, error) {
	apiKey := os.Getenv(opts.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", opts.APIKeyEnv)
	}

	base := opts.BaseURL
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}
	model := opts.Model
	if model == "" {
		model = "gemini-1.5-pro"
	}

	return &GeminiConverter{
		apiKey: apiKey,
		model:  model,
		url: fmt.Sprintf("%s/v1beta/models/%s:generateContent",
			strings.TrimRight(base, "/"), url.PathEscape(model)),
		client: &http.Client{Timeout: timeoutOrDefault(opts.Timeout)},
	}, nil
}

func (c *GeminiConverter) Convert(ctx context.Context, block domain.Block) (string, port.Usage, error) {
	return c.generate(ctx, blockPrompt(block))
}

func (c *GeminiConverter) ConvertScript(ctx context.Context, script string) (string, port.Usage, error) {
	return c.generate(ctx, scriptPrompt(script))
}

func (c *GeminiConverter) Validate(ctx context.Context) error {
	_, _, err := c.generate(ctx, "hello")
	return err
}

func (c *GeminiConverter) ModelName() string {
	return c.model
}

func (c *GeminiConverter) generate(ctx context.Context, prompt string) (string, port.Usage, error) {
	reqBody := gmRequest{
		Contents: []gmContent{{Role: "user", Parts: []gmPart{{Text: prompt}}}},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", port.Usage{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"?key="+url.QueryEscape(c.apiKey), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", port.Usage{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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

	var gmResp gmResponse
	if err := json.Unmarshal(body, &gmResp); err != nil {
		return "", port.Usage{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if gmResp.Error != nil {
		return "", port.Usage{}, fmt.Errorf("API error: %s", gmResp.Error.Message)
	}
	if len(gmResp.Candidates) == 0 || len(gmResp.Candidates[0].Content.Parts) == 0 {
		return "", port.Usage{}, fmt.Errorf("API returned no candidates")
	}

	var sb strings.Builder
	for _, p := range gmResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	usage := port.Usage{
		InputTokens:  gmResp.UsageMetadata.PromptTokenCount,
		OutputTokens: gmResp.UsageMetadata.CandidatesTokenCount,
	}
	return strings.TrimSpace(sb.String()), usage, nil
}
