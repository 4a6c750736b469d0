package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

// MockContentGenerator is a mock for the GenAI model
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, parts)
	if resp := args.Get(0); resp != nil {
		return resp.(*genai.GenerateContentResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text(text)},
				},
			},
		},
		UsageMetadata: &genai.UsageMetadata{
			PromptTokenCount:     120,
			CandidatesTokenCount: 80,
			TotalTokenCount:      200,
		},
	}
}

func TestVisionService_IdentifyAnimal(t *testing.T) {
	mockModel := new(MockContentGenerator)
	service := NewVisionService(mockModel, 5*time.Second)

	mockModel.On("GenerateContent", mock.Anything, mock.MatchedBy(func(parts []genai.Part) bool {
		if len(parts) != 2 {
			return false
		}
		_, isText := parts[0].(genai.Text)
		blob, isBlob := parts[1].(genai.Blob)
		return isText && isBlob && blob.MIMEType == "image/jpeg"
	})).Return(textResponse("Common Name: Red Panda"), nil).Once()

	result, err := service.IdentifyAnimal(context.Background(), []byte("jpeg-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "Common Name: Red Panda", result.Text)
	assert.Equal(t, int32(120), result.Usage.PromptTokens)
	assert.Equal(t, int32(80), result.Usage.CompletionTokens)
	assert.Equal(t, int32(200), result.Usage.TotalTokens)

	mockModel.AssertExpectations(t)
}

func TestVisionService_MissingUsageMetadata(t *testing.T) {
	mockModel := new(MockContentGenerator)
	service := NewVisionService(mockModel, 5*time.Second)

	resp := textResponse("Common Name: Red Panda")
	resp.UsageMetadata = nil
	mockModel.On("GenerateContent", mock.Anything, mock.Anything).Return(resp, nil).Once()

	result, err := service.IdentifyAnimal(context.Background(), []byte("jpeg-bytes"))

	require.NoError(t, err)
	assert.Equal(t, TokenUsage{}, result.Usage)
}

func TestVisionService_EmptyResponses(t *testing.T) {
	t.Run("No candidates", func(t *testing.T) {
		mockModel := new(MockContentGenerator)
		service := NewVisionService(mockModel, 5*time.Second)
		mockModel.On("GenerateContent", mock.Anything, mock.Anything).
			Return(&genai.GenerateContentResponse{}, nil).Once()

		_, err := service.IdentifyAnimal(context.Background(), []byte("jpeg-bytes"))

		assert.ErrorIs(t, err, ErrEmptyRemoteResponse)
	})

	t.Run("Candidate without content", func(t *testing.T) {
		mockModel := new(MockContentGenerator)
		service := NewVisionService(mockModel, 5*time.Second)
		mockModel.On("GenerateContent", mock.Anything, mock.Anything).
			Return(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, nil).Once()

		_, err := service.IdentifyAnimal(context.Background(), []byte("jpeg-bytes"))

		assert.ErrorIs(t, err, ErrEmptyRemoteResponse)
	})

	t.Run("Whitespace only text", func(t *testing.T) {
		mockModel := new(MockContentGenerator)
		service := NewVisionService(mockModel, 5*time.Second)
		mockModel.On("GenerateContent", mock.Anything, mock.Anything).
			Return(textResponse("  \n "), nil).Once()

		_, err := service.IdentifyAnimal(context.Background(), []byte("jpeg-bytes"))

		assert.ErrorIs(t, err, ErrEmptyRemoteResponse)
	})
}

func TestVisionService_ErrorClassification(t *testing.T) {
	classify := func(remoteErr error) error {
		mockModel := new(MockContentGenerator)
		service := NewVisionService(mockModel, 5*time.Second)
		mockModel.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, remoteErr).Once()

		_, err := service.IdentifyAnimal(context.Background(), []byte("jpeg-bytes"))
		return err
	}

	t.Run("Upstream rate limit", func(t *testing.T) {
		err := classify(&googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota exceeded"})
		assert.ErrorIs(t, err, ErrRemoteRateLimited)
	})

	t.Run("Invalid API key", func(t *testing.T) {
		err := classify(&googleapi.Error{Code: http.StatusForbidden, Message: "API key not valid"})
		assert.ErrorIs(t, err, ErrRemoteAuthInvalid)
	})

	t.Run("Other API error stays generic", func(t *testing.T) {
		err := classify(&googleapi.Error{Code: http.StatusBadRequest, Message: "invalid argument"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrRemoteRateLimited)
		assert.NotErrorIs(t, err, ErrRemoteAuthInvalid)
		assert.NotErrorIs(t, err, ErrRemoteUnavailable)
	})

	t.Run("Transport failure", func(t *testing.T) {
		err := classify(errors.New("dial tcp: connection refused"))
		assert.ErrorIs(t, err, ErrRemoteUnavailable)
	})
}
