package openai

import (
	"context"
	"errors"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/ai"
)

type stubCompleter struct {
	resp    goopenai.ChatCompletionResponse
	err     error
	lastReq goopenai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func reply(content string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{
		Choices: []goopenai.ChatCompletionChoice{{
			Message: goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: content},
		}},
	}
}

func TestProviderAssess(t *testing.T) {
	stub := &stubCompleter{resp: reply(`{"score": 73.6, "reason": "Strong ICU background"}`)}
	provider := newProvider(stub, "", 0, zap.NewNop())

	assessment, err := provider.Assess(context.Background(), ai.Request{JobID: "j1", Profile: "{}", Job: "{}"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 73.6 {
		t.Fatalf("expected score 73.6, got %v", assessment.Score)
	}

	if stub.lastReq.Model != defaultModel {
		t.Fatalf("expected default model, got %q", stub.lastReq.Model)
	}

	if len(stub.lastReq.Messages) != 2 || stub.lastReq.Messages[0].Content != ai.SystemInstruction {
		t.Fatalf("unexpected messages: %+v", stub.lastReq.Messages)
	}

	if stub.lastReq.ResponseFormat == nil || stub.lastReq.ResponseFormat.Type != goopenai.ChatCompletionResponseFormatTypeJSONObject {
		t.Fatalf("expected json object response format")
	}
}

func TestProviderAssessFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stub    *stubCompleter
		wantErr error
	}{
		{
			name:    "no choices",
			stub:    &stubCompleter{},
			wantErr: ai.ErrEmptyResponse,
		},
		{
			name:    "non numeric",
			stub:    &stubCompleter{resp: reply(`{"score": "excellent"}`)},
			wantErr: ai.ErrInvalidScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			provider := newProvider(tt.stub, "gpt-test", 0, zap.NewNop())
			_, err := provider.Assess(context.Background(), ai.Request{JobID: "j1"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestProviderAssessWrapsClientError(t *testing.T) {
	clientErr := errors.New("401 unauthorized")
	provider := newProvider(&stubCompleter{err: clientErr}, "gpt-test", 0, zap.NewNop())

	_, err := provider.Assess(context.Background(), ai.Request{JobID: "j1"})
	if !errors.Is(err, clientErr) {
		t.Fatalf("expected client error, got %v", err)
	}
}

func TestNewProviderRequiresKey(t *testing.T) {
	if _, err := NewProvider(Options{APIKey: "  "}, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty api key")
	}
}
