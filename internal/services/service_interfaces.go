package services

import (
	"context"

	"github.com/google/generative-ai-go/genai"
)

// ContentGenerator is the slice of the GenAI model the vision service needs.
// *genai.GenerativeModel satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// AnimalIdentifier answers what animal is in an image.
type AnimalIdentifier interface {
	IdentifyAnimal(ctx context.Context, image []byte) (*IdentificationResult, error)
}
