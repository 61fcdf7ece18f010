package openai

import (
	"bytes"
	"callassist-server/internal/observability"
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// BackendName is the name the openai backend is registered under.
const BackendName = "openai"

// Client calls the OpenAI chat completion and transcription APIs.
type Client struct {
	options            []option.RequestOption
	chatModel          string
	transcriptionModel string
	logger             *observability.Logger
}

func NewClient(apiKey, chatModel, transcriptionModel string, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	return &Client{
		options:            []option.RequestOption{option.WithAPIKey(apiKey)},
		chatModel:          chatModel,
		transcriptionModel: transcriptionModel,
		logger:             logger,
	}, nil
}

func (c *Client) Name() string {
	return BackendName
}

// Complete runs a single-turn chat completion. An empty string with a nil error
// means the model answered with no content.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "backend", Value: BackendName},
		observability.Field{Key: "model", Value: c.chatModel},
	)

	client := openaisdk.NewClient(c.options...)
	resp, err := client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(userMessage),
		},
		Model:       openaisdk.ChatModel(c.chatModel),
		MaxTokens:   openaisdk.Int(int64(maxTokens)),
		Temperature: openaisdk.Float(0.7),
	})
	if err != nil {
		c.logger.Error(ctx, "failed to create chat completion", err)
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.logger.Warn(ctx, "chat completion returned no choices")
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Transcribe sends recorded audio to the transcription model and returns the text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "model", Value: c.transcriptionModel},
		observability.Field{Key: "audio_bytes", Value: len(audio)},
	)

	client := openaisdk.NewClient(c.options...)
	resp, err := client.Audio.Transcriptions.New(ctx, openaisdk.AudioTranscriptionNewParams{
		Model: openaisdk.AudioModel(c.transcriptionModel),
		File:  openaisdk.File(bytes.NewReader(audio), filename, contentType),
	})
	if err != nil {
		c.logger.Error(ctx, "failed to transcribe audio", err)
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
