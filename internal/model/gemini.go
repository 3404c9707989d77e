package model

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Options carries the fixed generation configuration applied to every call.
type Options struct {
	Name            string
	APIKey          string
	MaxOutputTokens int32
	Temperature     float32
	TopP            float32
	SafetyThreshold string
	Timeout         time.Duration
}

// GeminiGateway opens Gemini chat conversations via the Google GenAI SDK.
type GeminiGateway struct {
	logger  *slog.Logger
	client  *genai.Client
	name    string
	genCfg  *genai.GenerateContentConfig
	timeout time.Duration
}

// NewGeminiGateway builds the SDK client and the shared generation config.
func NewGeminiGateway(ctx context.Context, opts Options, log *slog.Logger) (*GeminiGateway, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini create client: %w", err)
	}

	return &GeminiGateway{
		logger: log.With(slog.String("component", "model")),
		client: client,
		name:   opts.Name,
		genCfg: &genai.GenerateContentConfig{
			MaxOutputTokens: opts.MaxOutputTokens,
			Temperature:     genai.Ptr(opts.Temperature),
			TopP:            genai.Ptr(opts.TopP),
			SafetySettings:  safetySettings(opts.SafetyThreshold),
		},
		timeout: opts.Timeout,
	}, nil
}

// Open starts a new chat conversation with empty history.
func (g *GeminiGateway) Open(ctx context.Context) (Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	chat, err := g.client.Chats.Create(ctx, g.name, g.genCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open conversation: %v", ErrUnavailable, err)
	}
	return &geminiConversation{gateway: g, chat: chat}, nil
}

type geminiConversation struct {
	gateway *GeminiGateway
	chat    *genai.Chat
}

// Send forwards one prompt to the chat and normalizes the outcome.
func (c *geminiConversation) Send(ctx context.Context, prompt string) (Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.gateway.timeout)
	defer cancel()

	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return Reply{}, fmt.Errorf("%w: send message: %v", ErrUnavailable, err)
	}
	return normalizeReply(resp), nil
}

// normalizeReply folds prompt feedback and candidate finish reasons into the
// Reply contract: a safety refusal is Blocked, not an error.
func normalizeReply(resp *genai.GenerateContentResponse) Reply {
	if resp == nil {
		return Reply{}
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return Reply{Blocked: true}
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil {
			continue
		}
		switch candidate.FinishReason {
		case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent:
			return Reply{Blocked: true}
		}
	}
	return Reply{Text: resp.Text()}
}

func safetySettings(threshold string) []*genai.SafetySetting {
	level := genai.HarmBlockThresholdBlockNone
	switch strings.ToLower(strings.TrimSpace(threshold)) {
	case "block_only_high":
		level = genai.HarmBlockThresholdBlockOnlyHigh
	case "block_medium_and_above":
		level = genai.HarmBlockThresholdBlockMediumAndAbove
	case "block_low_and_above":
		level = genai.HarmBlockThresholdBlockLowAndAbove
	}

	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: level,
		})
	}
	return settings
}
