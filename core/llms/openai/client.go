// Package openai implements a completion client against the OpenAI chat
// completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/voicekind/companion-core/core/llms"
)

const (
	url          = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o-mini"

	providerName = "openai"
)

type Client struct {
	apiKey     string
	options    llms.CompletionOptions
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) {
		if apiKey != "" {
			c.apiKey = apiKey
		}
	}
}

func WithCompletionOptions(opts ...llms.CompletionOption) ClientOption {
	return func(c *Client) {
		for _, opt := range opts {
			opt(&c.options)
		}
	}
}

func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		apiKey:     os.Getenv("OPENAI_API_KEY"),
		options:    llms.CompletionOptions{Model: defaultModel},
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		return nil, fmt.Errorf("openai api key not found")
	}

	return client, nil
}

// Complete sends the full history snapshot and returns a single reply.
// A single attempt is made; failures are returned as ServiceError.
func (c *Client) Complete(ctx context.Context, history []llms.Message, opts ...llms.CompletionOption) (string, error) {
	ctx, span := tracer.Start(ctx, "complete reply")
	defer span.End()

	options := c.options
	for _, opt := range opts {
		opt(&options)
	}
	span.SetAttributes(attribute.String("request.model", options.Model))
	span.SetAttributes(attribute.Int("request.history_length", len(history)))

	reqBody := requestBody{
		Model:       options.Model,
		Messages:    toMessages(history),
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		serviceErr := &llms.ServiceError{Provider: providerName, Message: err.Error()}
		span.RecordError(serviceErr)
		span.SetStatus(codes.Error, serviceErr.Error())
		return "", serviceErr
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}

		serviceErr := &llms.ServiceError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    "non-OK HTTP status: " + resp.Status,
		}
		span.RecordError(serviceErr)
		span.SetStatus(codes.Error, serviceErr.Error())
		return "", serviceErr
	}

	var response responseBody
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("error decoding response body: %w", err)
	}

	if len(response.Choices) == 0 {
		logger.WarnContext(ctx, "no choices returned for completion")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
