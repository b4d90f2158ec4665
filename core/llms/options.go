package llms

import "github.com/voicekind/companion-core/internal/utils"

// CompletionOptions carries per-call tuning for a completion request.
type CompletionOptions struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
}

type CompletionOption func(*CompletionOptions)

func WithModel(model string) CompletionOption {
	return func(o *CompletionOptions) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithTemperature(temperature float64) CompletionOption {
	return func(o *CompletionOptions) {
		o.Temperature = utils.Ptr(temperature)
	}
}

func WithMaxTokens(maxTokens int) CompletionOption {
	return func(o *CompletionOptions) {
		if maxTokens > 0 {
			o.MaxTokens = utils.Ptr(maxTokens)
		}
	}
}
