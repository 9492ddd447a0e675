package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"echonotes/ai-backend/config"
	"echonotes/ai-backend/types"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash"

// ErrBackendUnavailable wraps any transport or service failure talking to the
// generation backend.
var ErrBackendUnavailable = errors.New("AI service unavailable")

// Client talks to the Gemini REST API. BaseURL and HTTPClient are overridable
// so tests can point at a local server.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

// Generate performs a single non-streaming call and returns the raw model
// text. When schema is non-nil the model is constrained to JSON output of that
// shape.
func (c *Client) Generate(ctx context.Context, prompt string, schema map[string]interface{}) (string, error) {
	genConfig := map[string]interface{}{
		"temperature":     0.3,
		"maxOutputTokens": 2000,
		"topP":            0.8,
	}
	if schema != nil {
		genConfig["responseMimeType"] = "application/json"
		genConfig["responseSchema"] = schema
	}

	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": genConfig,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	url := c.BaseURL + ":generateContent?key=" + c.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: API returned status %d", ErrBackendUnavailable, resp.StatusCode)
	}

	var res map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrBackendUnavailable, err)
	}

	return extractTextFromResponse(res)
}

// Stream response decoding. Each SSE data line is one GenerateContentResponse.
type geminiStreamResp struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateStream opens a streaming generation call and forwards raw chunks.
// When enableSearch is true the backend's web search tool is turned on and
// grounding references are carried on the chunks that report them.
func (c *Client) GenerateStream(ctx context.Context, prompt string, enableSearch bool) (<-chan types.StreamChunk, <-chan error) {
	chunks := make(chan types.StreamChunk, config.StreamChunkBuffer)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		body := map[string]interface{}{
			"contents": []map[string]interface{}{
				{
					"parts": []map[string]string{
						{"text": prompt},
					},
				},
			},
			"generationConfig": map[string]interface{}{
				"temperature": 0.3,
				"topP":        0.8,
			},
		}
		if enableSearch {
			body["tools"] = []map[string]interface{}{
				{"google_search": map[string]interface{}{}},
			}
		}

		jsonData, err := json.Marshal(body)
		if err != nil {
			errs <- fmt.Errorf("failed to marshal request: %v", err)
			return
		}

		url := c.BaseURL + ":streamGenerateContent?alt=sse&key=" + c.APIKey
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			errs <- fmt.Errorf("failed to create request: %v", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			errs <- fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
			errs <- fmt.Errorf("%w: API returned status %d: %s", ErrBackendUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
			return
		}

		sc := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		sc.Buffer(buf, 2*1024*1024)

		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var decoded geminiStreamResp
			if err := json.Unmarshal([]byte(data), &decoded); err != nil {
				errs <- fmt.Errorf("%w: failed to decode stream chunk: %v", ErrBackendUnavailable, err)
				return
			}
			if decoded.Error != nil && decoded.Error.Message != "" {
				errs <- fmt.Errorf("%w: %s", ErrBackendUnavailable, decoded.Error.Message)
				return
			}
			if len(decoded.Candidates) == 0 {
				continue
			}

			chunk := types.StreamChunk{}
			cand := decoded.Candidates[0]
			for _, part := range cand.Content.Parts {
				chunk.Text += part.Text
			}
			if cand.GroundingMetadata != nil {
				for _, gc := range cand.GroundingMetadata.GroundingChunks {
					if gc.Web == nil || gc.Web.URI == "" {
						continue
					}
					chunk.WebSources = append(chunk.WebSources, types.WebSource{
						URI:   gc.Web.URI,
						Title: gc.Web.Title,
					})
				}
			}
			if chunk.Text != "" || len(chunk.WebSources) > 0 {
				chunks <- chunk
			}
		}

		if err := sc.Err(); err != nil {
			errs <- fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}()

	return chunks, errs
}

// Extract text from a non-streaming Gemini response with proper error handling.
func extractTextFromResponse(res map[string]interface{}) (string, error) {
	candidates, ok := res["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate, ok := candidates[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid candidate format")
	}

	content, ok := candidate["content"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("no content in candidate")
	}

	parts, ok := content["parts"].([]interface{})
	if !ok || len(parts) == 0 {
		return "", fmt.Errorf("no parts in content")
	}

	part, ok := parts[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid part format")
	}

	text, ok := part["text"].(string)
	if !ok {
		return "", fmt.Errorf("no text in part")
	}

	return text, nil
}
