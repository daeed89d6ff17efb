package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// scriptedChats opens one chat per attempt and answers it with the next reply.
type scriptedChats struct {
	replies []scriptedReply
	calls   []*recordedChat
}

type scriptedReply struct {
	resp *genai.GenerateContentResponse
	err  error
}

type recordedChat struct {
	config   *genai.GenerateContentConfig
	reply    scriptedReply
	messages []string
}

func (c *recordedChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, part := range parts {
		c.messages = append(c.messages, part.Text)
	}
	return c.reply.resp, c.reply.err
}

func (s *scriptedChats) Create(_ context.Context, _ string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatSession, error) {
	if len(s.replies) == 0 {
		return nil, errors.New("unexpected call")
	}
	chat := &recordedChat{config: config, reply: s.replies[0]}
	s.replies = s.replies[1:]
	s.calls = append(s.calls, chat)
	return chat, nil
}

func newTestGenerator(maxRetries int, replies ...scriptedReply) (*Generator, *scriptedChats) {
	chats := &scriptedChats{replies: replies}
	return &Generator{chats: chats, model: "gemini-pro", maxRetries: maxRetries, logger: zap.NewNop()}, chats
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func noWait(t *testing.T) {
	t.Helper()
	original := wait
	wait = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { wait = original })
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	noWait(t)

	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	g, chats := newTestGenerator(2,
		scriptedReply{err: tempErr},
		scriptedReply{resp: textResponse("retry ok")},
	)

	output, err := g.GenerateContent(context.Background(), "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}

	for _, call := range chats.calls {
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if call.config.ResponseMIMEType != "application/json" {
			t.Fatalf("expected json response mime type, got %q", call.config.ResponseMIMEType)
		}
		if len(call.messages) != 1 || call.messages[0] != "message" {
			t.Fatalf("unexpected chat message: %+v", call.messages)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	g, chats := newTestGenerator(2, scriptedReply{err: tempErr}, scriptedReply{err: tempErr})

	_, err := g.GenerateContent(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	g, chats := newTestGenerator(3, scriptedReply{err: quotaErr})

	_, err := g.GenerateContent(context.Background(), "sys", "msg")
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	g, chats := newTestGenerator(3,
		scriptedReply{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
	)

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for bad request")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorRejectsEmptyResponse(t *testing.T) {
	g, _ := newTestGenerator(1, scriptedReply{resp: textResponse("   ")})

	if _, err := g.GenerateContent(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestSuggestedDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    time.Duration
		found   bool
	}{
		{message: "quota exhausted, retry after 60 seconds", want: 60 * time.Second, found: true},
		{message: "Please retry in 2.5s.", want: 2500 * time.Millisecond, found: true},
		{message: "quota exhausted", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			t.Parallel()
			got, found := suggestedDelay(tt.message)
			if found != tt.found || got != tt.want {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tt.want, tt.found, got, found)
			}
		})
	}
}
