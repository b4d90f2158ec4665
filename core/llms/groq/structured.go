package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/voicekind/companion-core/core/llms"
)

type chatResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string            `json:"name"`
	Schema jsonschema.Schema `json:"schema"`
	Strict bool              `json:"strict"`
}

// CompleteAnnotated asks for a schema-constrained reply carrying a mood tag
// alongside the spoken text. Providers that reject the schema fall back to
// the caller using plain Complete.
func (c *Client) CompleteAnnotated(ctx context.Context, history []llms.Message, opts ...llms.CompletionOption) (*llms.AnnotatedReply, error) {
	ctx, span := tracer.Start(ctx, "complete reply structured")
	defer span.End()

	options := c.options
	for _, opt := range opts {
		opt(&options)
	}
	span.SetAttributes(attribute.String("request.model", options.Model))

	// TODO: Implement a custom reflector that only satisfies the subset of
	// jsonschema accepted by groq
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(llms.AnnotatedReply{})
	schemaString, _ := schema.MarshalJSON()
	span.SetAttributes(attribute.String("request.schema", string(schemaString)))

	reqBody := requestBody{
		Model:       options.Model,
		Messages:    toMessages(history),
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
		ResponseFormat: &chatResponseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   reflect.TypeOf(llms.AnnotatedReply{}).Name(),
				Schema: *schema,
				Strict: true,
			},
		},
	}

	response, err := c.send(ctx, reqBody)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if len(response.Choices) == 0 {
		logger.WarnContext(ctx, "no choices returned for structured completion")
		return nil, &llms.ServiceError{Provider: providerName, Message: "empty structured completion"}
	}

	var reply llms.AnnotatedReply
	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, fmt.Errorf("error unmarshalling structured reply: %w", err)
	}

	return &reply, nil
}
