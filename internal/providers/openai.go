// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/article-engine/pkg/types"
)

// ChatProvider implements the structuring, enhancement, and scoring
// capabilities over the OpenAI chat completions API.
type ChatProvider struct {
	model string
	opts  []option.RequestOption
}

// NewChatProvider builds a ChatProvider from config. The API key is required;
// BaseURL is optional and mainly used by tests.
func NewChatProvider(cfg types.AIConfig) (*ChatProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	return &ChatProvider{model: model, opts: opts}, nil
}

// complete sends one system+user exchange and returns the raw reply text.
func (p *ChatProvider) complete(ctx context.Context, system, user string) (string, error) {
	client := openai.NewClient(p.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %v: %w", err, ErrTransient)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices: %w", ErrMalformed)
	}
	return resp.Choices[0].Message.Content, nil
}

// decodeJSONReply strips optional markdown code fences and unmarshals the
// reply into v. Models wrap JSON in fences often enough that tolerating them
// is cheaper than re-prompting.
func decodeJSONReply(reply string, v any) error {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("decoding reply: %v: %w", err, ErrMalformed)
	}
	return nil
}

// GenerateStructure plans an outline for keyword from research data.
func (p *ChatProvider) GenerateStructure(ctx context.Context, keyword string, research types.ResearchData) (types.ContentStructure, error) {
	reply, err := p.complete(ctx, structureSystemPrompt, structureUserPrompt(keyword, research))
	if err != nil {
		return types.ContentStructure{}, err
	}

	var cs types.ContentStructure
	if err := decodeJSONReply(reply, &cs); err != nil {
		return types.ContentStructure{}, err
	}
	if cs.Title == "" || len(cs.Sections) == 0 {
		return types.ContentStructure{}, fmt.Errorf("structure reply missing title or sections: %w", ErrMalformed)
	}
	return cs, nil
}

// Enhance writes a full draft from structure, folding reviewer feedback into
// the prompt when present.
func (p *ChatProvider) Enhance(ctx context.Context, keyword string, structure types.ContentStructure, feedback *types.QualityAssessment) (types.DraftContent, error) {
	reply, err := p.complete(ctx, enhanceSystemPrompt, enhanceUserPrompt(keyword, structure, feedback))
	if err != nil {
		return types.DraftContent{}, err
	}

	var draft types.DraftContent
	if err := decodeJSONReply(reply, &draft); err != nil {
		return types.DraftContent{}, err
	}
	if draft.Body == "" {
		return types.DraftContent{}, fmt.Errorf("enhance reply missing body: %w", ErrMalformed)
	}
	if draft.Title == "" {
		draft.Title = structure.Title
	}
	if draft.Description == "" {
		draft.Description = structure.Description
	}
	if len(draft.Tags) == 0 {
		draft.Tags = structure.Tags
	}
	return draft, nil
}

// Score rates a draft and returns structured feedback.
func (p *ChatProvider) Score(ctx context.Context, keyword string, draft types.DraftContent) (types.QualityAssessment, error) {
	reply, err := p.complete(ctx, scoreSystemPrompt, scoreUserPrompt(keyword, draft))
	if err != nil {
		return types.QualityAssessment{}, err
	}

	var a types.QualityAssessment
	if err := decodeJSONReply(reply, &a); err != nil {
		return types.QualityAssessment{}, err
	}
	if a.OverallScore < 0 || a.OverallScore > 100 {
		return types.QualityAssessment{}, fmt.Errorf("score %d out of range: %w", a.OverallScore, ErrMalformed)
	}
	return a, nil
}

// ImageGenProvider implements image generation over the OpenAI images API.
type ImageGenProvider struct {
	model string
	size  string
	opts  []option.RequestOption
}

// NewImageGenProvider builds an ImageGenProvider from config.
func NewImageGenProvider(cfg types.ImageConfig) (*ImageGenProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	model := cfg.Model
	if model == "" {
		model = "dall-e-3"
	}
	size := cfg.Size
	if size == "" {
		size = "1024x1024"
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	return &ImageGenProvider{model: model, size: size, opts: opts}, nil
}

// Generate produces one image for prompt and returns its hosted URL.
func (p *ImageGenProvider) Generate(ctx context.Context, prompt string) (types.ImageRef, error) {
	client := openai.NewClient(p.opts...)

	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(p.model),
		Size:   openai.ImageGenerateParamsSize(p.size),
	})
	if err != nil {
		return types.ImageRef{}, fmt.Errorf("image generation: %v: %w", err, ErrTransient)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return types.ImageRef{}, fmt.Errorf("image generation returned no URL: %w", ErrMalformed)
	}
	return types.ImageRef{URL: resp.Data[0].URL, Prompt: prompt}, nil
}
