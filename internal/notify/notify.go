package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/logger"
)

// Message is the "strong top match" notification payload.
type Message struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
	Score       int    `json:"score"`
	JobTitle    string `json:"job_title"`
	Facility    string `json:"facility"`
}

// Gateway delivers notifications. Only success or failure is consulted.
type Gateway interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// Text renders msg as a short plain-text notification.
func Text(msg Message) string {
	title := strings.TrimSpace(msg.JobTitle)
	if title == "" {
		title = "Job " + msg.JobID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New strong match (%d/100): %s", msg.Score, title)
	if facility := strings.TrimSpace(msg.Facility); facility != "" {
		fmt.Fprintf(&b, " at %s", facility)
	}
	fmt.Fprintf(&b, "\nCandidate: %s\nJob ID: %s", msg.CandidateID, msg.JobID)
	return b.String()
}

// LogGateway writes notifications to the application log.
type LogGateway struct {
	logger *zap.Logger
}

func NewLogGateway(log *zap.Logger) *LogGateway {
	return &LogGateway{logger: logger.WithFields(log)}
}

func (g *LogGateway) Name() string { return "log" }

func (g *LogGateway) Notify(_ context.Context, msg Message) error {
	g.logger.Info("match notification",
		append(logger.MatchFields(msg.CandidateID, msg.JobID),
			zap.Int("score", msg.Score),
			zap.String("job_title", msg.JobTitle),
			zap.String("facility", msg.Facility),
		)...,
	)
	return nil
}
