package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldserve/appointments/internal/config"
	"github.com/fieldserve/appointments/internal/domain"
	"github.com/fieldserve/appointments/internal/llm"
	openai "github.com/sashabaranov/go-openai"
)

// Provider implements llm.Provider for OpenAI and OpenAI-compatible endpoints
type Provider struct {
	apiKey       string
	defaultModel string
	client       *openai.Client
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg config.OpenAIConfig) *Provider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	defaultModel := cfg.Model
	if defaultModel == "" {
		defaultModel = "gpt-4o-mini"
	}

	return &Provider{
		apiKey:       cfg.APIKey,
		defaultModel: defaultModel,
		client:       openai.NewClientWithConfig(clientConfig),
	}
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
		"gpt-3.5-turbo",
	}
}

func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("openai provider is not configured (missing API key)")
	}

	if model == "" {
		model = p.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Conversation)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.SystemContext,
	})
	for _, turn := range req.Conversation {
		role := openai.ChatMessageRoleUser
		if turn.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("openai completion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from openai")
	}

	return &llm.Response{
		Text:       resp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
		LatencyMs:  latency,
	}, nil
}
