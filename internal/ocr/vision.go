// Package ocr provides the production adapter for the external text
// recognition collaborator: an OpenAI-compatible vision endpoint.
package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

const extractPrompt = "Extract all text from this receipt image. " +
	"Return the raw text exactly as it appears, with no commentary."

// Config holds connection settings for the recognition endpoint.
type Config struct {
	// BaseURL overrides the API host, e.g. for a self-hosted
	// OpenAI-compatible server. Empty uses the default host.
	BaseURL string
	APIKey  string
	Model   string
}

// Client extracts text from receipt images through a vision-capable chat
// completion endpoint. Transient failures are retried inside the adapter;
// callers see only the final outcome.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a recognition client from cfg.
func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: model,
	}
}

// ExtractText sends the image to the recognition endpoint and returns the
// plain text it reads.
func (c *Client) ExtractText(ctx context.Context, img []byte) (string, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img)

	var text string
	err := retry.Do(
		func() error {
			resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model: c.model,
				Messages: []openai.ChatCompletionMessage{
					{
						Role: openai.ChatMessageRoleUser,
						MultiContent: []openai.ChatMessagePart{
							{
								Type: openai.ChatMessagePartTypeText,
								Text: extractPrompt,
							},
							{
								Type: openai.ChatMessagePartTypeImageURL,
								ImageURL: &openai.ChatMessageImageURL{
									URL: dataURL,
								},
							},
						},
					},
				},
				Temperature: 0.1,
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return errors.New("empty completion response")
			}
			text = strings.TrimSpace(resp.Choices[0].Message.Content)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return false
			}
			var apiErr *openai.APIError
			if errors.As(err, &apiErr) {
				// Rate limits and server-side failures are worth another try.
				return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
					apiErr.HTTPStatusCode >= http.StatusInternalServerError
			}
			return true
		}),
	)
	if err != nil {
		return "", fmt.Errorf("vision completion: %w", err)
	}
	return text, nil
}
