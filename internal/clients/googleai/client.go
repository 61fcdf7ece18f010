package googleai

import (
	"callassist-server/internal/observability"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// BackendName is the name the Gemini backend is registered under.
const BackendName = "gemini"

// Client generates replies with a Gemini model.
type Client struct {
	client *genai.Client
	model  string
	logger *observability.Logger
}

func NewClient(ctx context.Context, apiKey, model string, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("Google AI API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return &Client{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *Client) Name() string {
	return BackendName
}

// Complete generates a single reply. A blocked or empty candidate is reported as
// an empty string with a nil error.
func (g *Client) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "backend", Value: BackendName},
		observability.Field{Key: "model", Value: g.model},
	)

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(userMessage))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			g.logger.WarnWithError(ctx, "gemini response was blocked", err)
			return "", nil
		}
		g.logger.Error(ctx, "failed to generate content", err)
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		g.logger.Warn(ctx, "gemini returned no candidates")
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// Close releases the underlying connection
func (g *Client) Close() error {
	return g.client.Close()
}
