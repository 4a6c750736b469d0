package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
)

const identifySystemPrompt = `You are an animal identification expert. When identifying animals from images, provide information in this EXACT format without any markdown formatting or asterisks:

Common Name: [the specific breed or species name - e.g., Labradoodle, Great Dane, Golden Retriever, Maine Coon, Beagle, Persian Cat]
Scientific Name: [scientific/latin name in proper format, e.g., Canis lupus familiaris]
Category: [Mammal/Bird/Reptile/Amphibian/Fish/Insect/etc]
Size: [typical size range with units, be specific e.g., 24-26 inches tall]
Habitat: [where this animal typically lives, be specific about regions/environments]
Diet: [what this animal typically eats, be specific about food types]
Fun Fact: [one interesting and specific fact about this specific breed or species]

CRITICAL RULES for Common Name:
- For dogs: Use specific breed names like "Labradoodle", "Great Dane", "Golden Retriever", "Beagle" - NEVER just "Dog"
- For cats: Use specific breed names like "Maine Coon", "Persian Cat", "Siamese" - NEVER just "Cat"
- For wild animals: Use specific species like "African Lion", "American Bison", "Bald Eagle"
- ALWAYS be as specific as possible with breed/species identification
- NEVER use scientific names as the common name
- NEVER say just "Dog" or "Cat" - always identify the specific breed`

const identifyUserInstruction = "Identify this animal and provide the information in the exact format specified."

const identifyMaxOutputTokens = 300

// Low temperature keeps the labeled output format stable across calls.
const identifyTemperature = 0.3

// Remote failure categories, classified so the API layer can map them to
// distinct status codes.
var (
	ErrRemoteRateLimited   = errors.New("AI service rate limit exceeded")
	ErrRemoteAuthInvalid   = errors.New("AI service rejected the API key")
	ErrRemoteUnavailable   = errors.New("AI service unreachable")
	ErrEmptyRemoteResponse = errors.New("AI service returned no content")
)

// TokenUsage carries the remote call's token accounting for monitoring.
type TokenUsage struct {
	PromptTokens     int32 `json:"promptTokens"`
	CompletionTokens int32 `json:"completionTokens"`
	TotalTokens      int32 `json:"totalTokens"`
}

// IdentificationResult is the raw model answer plus its token usage.
type IdentificationResult struct {
	Text  string
	Usage TokenUsage
}

// VisionService sends an image to the vision model and returns its free-text
// identification. It does no parsing of the answer.
type VisionService struct {
	model   ContentGenerator
	timeout time.Duration
}

func NewVisionService(model ContentGenerator, timeout time.Duration) *VisionService {
	return &VisionService{
		model:   model,
		timeout: timeout,
	}
}

// NewIdentificationModel configures a generative model for animal
// identification: fixed system instruction, bounded output, low temperature.
func NewIdentificationModel(client *genai.Client, modelName string) *genai.GenerativeModel {
	model := client.GenerativeModel(modelName)
	model.SystemInstruction = genai.NewUserContent(genai.Text(identifySystemPrompt))
	model.SetMaxOutputTokens(identifyMaxOutputTokens)
	model.SetTemperature(identifyTemperature)
	return model
}

// IdentifyAnimal forwards the JPEG bytes to the model with a bounded timeout.
func (vs *VisionService) IdentifyAnimal(ctx context.Context, image []byte) (*IdentificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, vs.timeout)
	defer cancel()

	resp, err := vs.model.GenerateContent(ctx,
		genai.Text(identifyUserInstruction),
		genai.ImageData("jpeg", image),
	)
	if err != nil {
		return nil, classifyRemoteError(err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	result := &IdentificationResult{Text: text}
	if resp.UsageMetadata != nil {
		result.Usage = TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	return result, nil
}

func classifyRemoteError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRemoteRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrRemoteAuthInvalid, err)
		default:
			return fmt.Errorf("AI service error: %w", err)
		}
	}
	// Anything that is not an API-level error is a transport failure,
	// including an expired deadline.
	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyRemoteResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	content := sb.String()
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyRemoteResponse
	}

	return content, nil
}
