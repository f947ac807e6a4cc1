// Package classifier suggests a report category for a photo. It never
// decides anything on its own: any failure or unknown answer is "Other".
package classifier

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"civic-jharkhand-be/metrics"
	"civic-jharkhand-be/models"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const prompt = `Look at this image. Identify the primary issue from this list:
Pothole, Streetlight, Trash, Water Leakage.
If none are present or you are unsure, respond with "Other". Respond with only the category name.`

type Classifier interface {
	Classify(ctx context.Context, image []byte, mimeType string) models.Category
}

// KeyRotator hands out key indexes round-robin.
type KeyRotator struct {
	size int
	next atomic.Uint64
}

func NewKeyRotator(size int) *KeyRotator {
	return &KeyRotator{size: size}
}

// Next returns the index of the key to use for one call.
func (r *KeyRotator) Next() int {
	n := r.next.Add(1) - 1
	return int(n % uint64(r.size))
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClassifier keeps one client per API key and rotates between them.
type GeminiClassifier struct {
	rotator    *KeyRotator
	generators []contentGenerator
	model      string
	logger     *zap.Logger
}

func NewGeminiClassifier(ctx context.Context, apiKeys []string, model string, logger *zap.Logger) (*GeminiClassifier, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one Gemini API key is required")
	}
	generators := make([]contentGenerator, 0, len(apiKeys))
	for i, key := range apiKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client for key %d: %w", i, err)
		}
		generators = append(generators, client.Models)
	}
	return newGeminiClassifier(generators, model, logger), nil
}

func newGeminiClassifier(generators []contentGenerator, model string, logger *zap.Logger) *GeminiClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClassifier{
		rotator:    NewKeyRotator(len(generators)),
		generators: generators,
		model:      model,
		logger:     logger,
	}
}

func (g *GeminiClassifier) Classify(ctx context.Context, image []byte, mimeType string) models.Category {
	keyIndex := g.rotator.Next()
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.generators[keyIndex].GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		g.logger.Warn("image classification failed", zap.Int("key_index", keyIndex), zap.Error(err))
		metrics.Classified(string(models.OtherCategory))
		return models.OtherCategory
	}

	category := ParseCategory(resp.Text())
	metrics.Classified(string(category))
	return category
}

// ParseCategory maps a free-text answer onto the fixed category set.
func ParseCategory(answer string) models.Category {
	answer = strings.Trim(strings.TrimSpace(answer), `."'*`)
	for _, c := range models.Categories {
		name := string(c)
		if strings.EqualFold(answer, name) || strings.EqualFold(answer, name+"s") {
			return c
		}
	}
	return models.OtherCategory
}

// Fallback is used when no API keys are configured.
type Fallback struct{}

func (Fallback) Classify(context.Context, []byte, string) models.Category {
	return models.OtherCategory
}
