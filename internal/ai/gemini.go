package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyReply = errors.New("gemini: empty reply")

// GeminiProvider implements Generator using Google's Gemini models.
type GeminiProvider struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	textModel *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string, opts Options) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	opts = opts.withDefaults()

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Force JSON response for structured parsing.
	model := client.GenerativeModel(opts.Model)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(opts.Temperature)

	textModel := client.GenerativeModel(opts.Model)
	textModel.SetTemperature(opts.Temperature)

	return &GeminiProvider{
		client:    client,
		model:     model,
		textModel: textModel,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// Generate asks the JSON-constrained model. The reply may still carry fences.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, p.model, prompt)
}

// Compose asks the plain-text model, for narrative answers.
func (p *GeminiProvider) Compose(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, p.textModel, prompt)
}

// Composer returns Compose as a Generator.
func (p *GeminiProvider) Composer() Generator {
	return GeneratorFunc(p.Compose)
}

func generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates", ErrEmptyReply)
	}

	var textParts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		txt, ok := part.(genai.Text)
		if !ok || strings.TrimSpace(string(txt)) == "" {
			continue
		}
		textParts = append(textParts, string(txt))
	}
	if len(textParts) == 0 {
		return "", fmt.Errorf("%w: no text parts", ErrEmptyReply)
	}
	return strings.Join(textParts, ""), nil
}
