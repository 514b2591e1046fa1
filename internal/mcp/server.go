// Package mcp exposes the drill engine as MCP tools so editor agents can
// run practice sessions over stdio or HTTP.
package mcp

import (
	"context"
	"fmt"
	"strings"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/server"

	"github.com/felixgeelhaar/kaina/internal/learner"
	"github.com/felixgeelhaar/kaina/internal/session"
)

// Server wraps the MCP server with kaina drill tools.
type Server struct {
	mcpServer *server.Server
	drill     session.DrillService
	version   string
}

// Config contains configuration for the MCP server.
type Config struct {
	Drill   session.DrillService
	Version string
}

// NewServer creates a new MCP server for kaina.
func NewServer(cfg Config) *Server {
	s := &Server{
		drill:   cfg.Drill,
		version: cfg.Version,
	}
	if s.version == "" {
		s.version = "dev"
	}

	s.mcpServer = server.New(server.Info{
		Name:    "kaina",
		Version: s.version,
	}, server.WithInstructions(`
Kaina drills Lithuanian price phrases. It adapts: each exercise targets
the learner's currently weakest skill combination, estimated from their
answer history.

Available tools:
- kaina_start: Start a drill session
- kaina_next: Get the next exercise (adaptively chosen)
- kaina_answer: Submit an answer and get graded feedback
- kaina_stats: Show lifetime and session statistics
- kaina_weak_areas: Show the weakest skill categories
- kaina_reset: Wipe the learner's progress
- kaina_stop: End a session

Typical flow: kaina_start once, then alternate kaina_next and
kaina_answer. Answers are full Lithuanian price phrases, e.g.
"penki eurai."
`))

	s.registerTools()

	return s
}

// registerTools registers all kaina MCP tools.
func (s *Server) registerTools() {
	s.mcpServer.Tool("kaina_start").
		Description("Start a kaina drill session.").
		Handler(s.handleStart)

	s.mcpServer.Tool("kaina_next").
		Description("Get the next exercise. Selection targets the learner's weakest skill.").
		Handler(s.handleNext)

	s.mcpServer.Tool("kaina_answer").
		Description("Submit an answer for the pending exercise and get graded feedback.").
		Handler(s.handleAnswer)

	s.mcpServer.Tool("kaina_stats").
		Description("Show lifetime and session drill statistics.").
		Handler(s.handleStats)

	s.mcpServer.Tool("kaina_weak_areas").
		Description("Show the learner's weakest skill categories.").
		Handler(s.handleWeakAreas)

	s.mcpServer.Tool("kaina_reset").
		Description("Wipe the learner's progress behind a session.").
		Handler(s.handleReset)

	s.mcpServer.Tool("kaina_stop").
		Description("End a kaina drill session.").
		Handler(s.handleStop)
}

// Input/Output types for tools

type StartInput struct {
	LearnerID string `json:"learner_id,omitempty" jsonschema:"description=Learner profile to drill; defaults to the local profile"`
}

type StartOutput struct {
	SessionID string `json:"session_id"`
	LearnerID string `json:"learner_id"`
	Message   string `json:"message"`
}

type NextInput struct {
	SessionID string `json:"session_id" jsonschema:"description=Session ID from kaina_start"`
}

type NextOutput struct {
	Arm    string `json:"arm"`
	Prompt string `json:"prompt"`
	Price  int    `json:"price"`
	Item   string `json:"item,omitempty"`
}

type AnswerInput struct {
	SessionID string `json:"session_id" jsonschema:"description=Session ID from kaina_start"`
	Answer    string `json:"answer" jsonschema:"description=The Lithuanian price phrase"`
}

type AnswerOutput struct {
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
	Feedback string `json:"feedback"`
	Streak   int    `json:"streak"`
}

type StatsInput struct {
	SessionID string `json:"session_id" jsonschema:"description=Session ID from kaina_start"`
}

type StatsOutput struct {
	Total           int     `json:"total"`
	Correct         int     `json:"correct"`
	Accuracy        float64 `json:"accuracy"`
	CurrentStreak   int     `json:"current_streak"`
	SessionAnswered int     `json:"session_answered"`
	SessionAccuracy float64 `json:"session_accuracy"`
}

type WeakAreasInput struct {
	SessionID string `json:"session_id" jsonschema:"description=Session ID from kaina_start"`
}

type WeakAreasOutput struct {
	ExerciseTypes    []learner.WeakArea `json:"exercise_types,omitempty"`
	NumberPatterns   []learner.WeakArea `json:"number_patterns,omitempty"`
	GrammaticalCases []learner.WeakArea `json:"grammatical_cases,omitempty"`
	Summary          string             `json:"summary"`
}

type ResetInput struct {
	SessionID string `json:"session_id" jsonschema:"description=Session ID from kaina_start"`
}

type ResetOutput struct {
	Message string `json:"message"`
}

type StopInput struct {
	SessionID string `json:"session_id" jsonschema:"description=Session ID to end"`
}

type StopOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleStart(ctx context.Context, input StartInput) (StartOutput, error) {
	sess, err := s.drill.Create(ctx, input.LearnerID)
	if err != nil {
		return StartOutput{}, fmt.Errorf("failed to create session: %w", err)
	}

	return StartOutput{
		SessionID: sess.ID,
		LearnerID: sess.LearnerID,
		Message:   "Session started. Call kaina_next for the first exercise.",
	}, nil
}

func (s *Server) handleNext(ctx context.Context, input NextInput) (NextOutput, error) {
	ex, err := s.drill.Next(ctx, input.SessionID)
	if err != nil {
		return NextOutput{}, fmt.Errorf("failed to bind exercise: %w", err)
	}

	return NextOutput{
		Arm:    ex.Arm.Key(),
		Prompt: ex.Prompt,
		Price:  ex.Price,
		Item:   ex.Item,
	}, nil
}

func (s *Server) handleAnswer(ctx context.Context, input AnswerInput) (AnswerOutput, error) {
	result, err := s.drill.Answer(ctx, input.SessionID, input.Answer)
	if err != nil {
		return AnswerOutput{}, fmt.Errorf("failed to grade answer: %w", err)
	}

	feedback := "Teisingai!"
	if !result.Correct {
		feedback = fmt.Sprintf("Neteisingai. Expected: %s", result.Expected)
	}

	return AnswerOutput{
		Correct:  result.Correct,
		Expected: result.Expected,
		Feedback: feedback,
		Streak:   result.Streak,
	}, nil
}

func (s *Server) handleStats(ctx context.Context, input StatsInput) (StatsOutput, error) {
	report, err := s.drill.Stats(ctx, input.SessionID)
	if err != nil {
		return StatsOutput{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return StatsOutput{
		Total:           report.LearnerStats.Total,
		Correct:         report.LearnerStats.Correct,
		Accuracy:        report.LearnerStats.Accuracy,
		CurrentStreak:   report.LearnerStats.CurrentStreak,
		SessionAnswered: report.SessionStats.Answered,
		SessionAccuracy: report.SessionStats.Accuracy,
	}, nil
}

func (s *Server) handleWeakAreas(ctx context.Context, input WeakAreasInput) (WeakAreasOutput, error) {
	report, err := s.drill.WeakAreas(ctx, input.SessionID)
	if err != nil {
		return WeakAreasOutput{}, fmt.Errorf("failed to get weak areas: %w", err)
	}

	var parts []string
	for _, area := range report.NumberPatterns {
		parts = append(parts, fmt.Sprintf("%s (%.0f%%)", area.Name, area.SuccessRate*100))
	}
	summary := "Not enough answers yet to spot weak areas."
	if len(parts) > 0 {
		summary = "Weakest number patterns: " + strings.Join(parts, ", ")
	}

	return WeakAreasOutput{
		ExerciseTypes:    report.ExerciseTypes,
		NumberPatterns:   report.NumberPatterns,
		GrammaticalCases: report.GrammaticalCases,
		Summary:          summary,
	}, nil
}

func (s *Server) handleReset(ctx context.Context, input ResetInput) (ResetOutput, error) {
	if err := s.drill.Reset(ctx, input.SessionID); err != nil {
		return ResetOutput{}, fmt.Errorf("failed to reset progress: %w", err)
	}

	return ResetOutput{
		Message: "Progress wiped. The next exercises start from a cold state.",
	}, nil
}

func (s *Server) handleStop(ctx context.Context, input StopInput) (StopOutput, error) {
	if err := s.drill.Delete(ctx, input.SessionID); err != nil {
		return StopOutput{}, fmt.Errorf("failed to delete session: %w", err)
	}

	return StopOutput{
		Message: "Session ended",
	}, nil
}

// ServeStdio starts the MCP server on stdio (for editor integration).
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// ServeHTTP starts the MCP server on HTTP (alternative transport).
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr)
}

// GetMCPServer returns the underlying MCP server (for testing).
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}
