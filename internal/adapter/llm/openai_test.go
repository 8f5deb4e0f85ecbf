package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sqlseg/internal/domain"
)

func TestOpenAIConvert(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "df.filter(col('y') == 2)\n"}},
			},
			"usage": map[string]int{"prompt_tokens": 42, "completion_tokens": 11},
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	c, err := NewOpenAIConverter(OpenAIOptions{
		APIKeyEnv: "TEST_OPENAI_KEY",
		Model:     "gpt-4o",
		BaseURL:   srv.URL,
	})
	if err != nil {
		t.Fatal(err)
	}

	block := domain.Block{Seq: 3, Text: "UPDATE t SET x=1 WHERE y=2;", Type: domain.BlockUpdate}
	out, usage, err := c.Convert(context.Background(), block)
	if err != nil {
		t.Fatal(err)
	}

	if out != "df.filter(col('y') == 2)" {
		t.Errorf("unexpected output: %q", out)
	}
	if usage.InputTokens != 42 || usage.OutputTokens != 11 || usage.Total() != 53 {
		t.Errorf("unexpected usage: %+v", usage)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o" {
		t.Errorf("model not sent: %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestOpenAIConvert_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	c, err := NewOpenAIConverter(OpenAIOptions{APIKeyEnv: "TEST_OPENAI_KEY", Model: "gpt-4o", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = c.Convert(context.Background(), domain.Block{Seq: 1, Text: "SELECT 1;"})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestOpenAIMissingKey(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "")
	if _, err := NewOpenAIConverter(OpenAIOptions{APIKeyEnv: "TEST_OPENAI_KEY"}); err == nil {
		t.Error("expected error for missing api key")
	}
}

func TestAzureConverterHeaders(t *testing.T) {
	var gotAPIKey, gotPath, gotVersion string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("api-key")
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("api-version")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_AZURE_KEY", "az-test")
	c, err := NewAzureConverter(OpenAIOptions{
		APIKeyEnv:  "TEST_AZURE_KEY",
		BaseURL:    srv.URL,
		Deployment: "migrations",
		APIVersion: "2023-05-15",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Validate(context.Background()); err != nil {
		t.Fatal(err)
	}

	if gotAPIKey != "az-test" {
		t.Errorf("api-key header = %q", gotAPIKey)
	}
	if gotPath != "/openai/deployments/migrations/chat/completions" {
		t.Errorf("unexpected path: %q", gotPath)
	}
	if gotVersion != "2023-05-15" {
		t.Errorf("unexpected api-version: %q", gotVersion)
	}
	if gotReq.Model != "" {
		t.Errorf("azure request should select model by deployment, got model=%q", gotReq.Model)
	}
}

func TestGeminiConvert(t *testing.T) {
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "spark.sql('...')"}}}},
			},
			"usageMetadata": map[string]int{"promptTokenCount": 20, "candidatesTokenCount": 7},
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_GEMINI_KEY", "g-test")
	c, err := NewGeminiConverter(GeminiOptions{APIKeyEnv: "TEST_GEMINI_KEY", Model: "gemini-1.5-pro", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	out, usage, err := c.Convert(context.Background(), domain.Block{Seq: 1, Text: "SELECT 1;", Type: domain.BlockSelect})
	if err != nil {
		t.Fatal(err)
	}
	if out != "spark.sql('...')" {
		t.Errorf("unexpected output: %q", out)
	}
	if usage.InputTokens != 20 || usage.OutputTokens != 7 {
		t.Errorf("unexpected usage: %+v", usage)
	}
	if gotKey != "g-test" {
		t.Errorf("api key not passed in query: %q", gotKey)
	}
}
