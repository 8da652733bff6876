package dealsense

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/structured"
	"github.com/sandevgo/gtmsuite/pkg/log"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Temperature float64
	Workers     int
}

func DefaultConfig() Config {
	return Config{Temperature: 0.3, Workers: 4}
}

// Scorer asks the model for a close probability and risk level per deal.
type Scorer struct {
	ai  core.AIProvider
	cfg Config
}

func NewScorer(ai core.AIProvider, cfg Config) *Scorer {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	return &Scorer{ai: ai, cfg: cfg}
}

// Score makes one model call. Malformed replies degrade to a fallback
// score instead of an error.
func (s *Scorer) Score(ctx context.Context, rec core.DealRecord) (core.DealScore, error) {
	if strings.TrimSpace(rec.CompanyName) == "" {
		return core.DealScore{}, core.InvalidInput("score deal", "company_name is required")
	}
	if rec.DealID == "" {
		rec.DealID = uuid.NewString()
	}

	text, err := scorePrompt.Render(promptValues(rec))
	if err != nil {
		return core.DealScore{}, core.GenerationError("score deal", err)
	}

	reply, err := s.ai.Chat(ctx, []core.Message{
		{Role: core.RoleUser, Content: text},
	}, core.WithTemperature(s.cfg.Temperature))
	if err != nil {
		return core.DealScore{}, core.GenerationError("score deal", err)
	}

	score := structured.Extract(reply.Content, scoreShape(rec))

	log.FromCtx(ctx).Debug().
		Str("deal", rec.DealID).
		Str("company", rec.CompanyName).
		Float64("probability", score.CloseProbability).
		Str("risk", string(score.RiskLevel)).
		Msg("deal scored")

	return score, nil
}

// ScorePipeline scores records in parallel. Results keep input order and a
// failed record never stops the others.
func (s *Scorer) ScorePipeline(ctx context.Context, records []core.DealRecord) []core.DealResult {
	results := make([]core.DealResult, len(records))

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)

	for i, rec := range records {
		g.Go(func() error {
			score, err := s.Score(ctx, rec)
			if err != nil {
				score = FailedScore(rec, err)
			}
			results[i] = core.DealResult{Row: i, Score: score, Err: err}
			return nil
		})
	}
	g.Wait() // workers never fail

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.FromCtx(ctx).Info().
		Int("deals", len(records)).
		Int("failed", failed).
		Msg("pipeline scored")

	return results
}

// ScoreRows scores parsed CSV rows. Rows that failed to parse are reported
// without a model call.
func (s *Scorer) ScoreRows(ctx context.Context, rows []Row) []core.DealResult {
	var valid []core.DealRecord
	var validIdx []int
	for i, r := range rows {
		if r.Err == nil {
			valid = append(valid, r.Record)
			validIdx = append(validIdx, i)
		}
	}

	scored := s.ScorePipeline(ctx, valid)

	results := make([]core.DealResult, len(rows))
	for i, r := range rows {
		if r.Err != nil {
			results[i] = core.DealResult{Row: r.Line, Score: FailedScore(r.Record, r.Err), Err: r.Err}
		}
	}
	for j, res := range scored {
		i := validIdx[j]
		res.Row = rows[i].Line
		results[i] = res
	}
	return results
}

// HighRisk keeps only deals rated High risk.
func HighRisk(scores []core.DealScore) []core.DealScore {
	out := []core.DealScore{}
	for _, s := range scores {
		if s.RiskLevel == core.RiskHigh {
			out = append(out, s)
		}
	}
	return out
}

// Scores flattens batch results.
func Scores(results []core.DealResult) []core.DealScore {
	out := make([]core.DealScore, len(results))
	for i, r := range results {
		out[i] = r.Score
	}
	return out
}

// FailedScore is the placeholder reported for a record that could not be scored.
func FailedScore(rec core.DealRecord, err error) core.DealScore {
	if rec.DealID == "" {
		rec.DealID = uuid.NewString()
	}
	s := fallbackScore(rec, err)
	s.Reasoning = "scoring failed"
	s.Error = err.Error()
	return s
}

func scoreShape(rec core.DealRecord) structured.Shape[core.DealScore] {
	return structured.Shape[core.DealScore]{
		Decode: func(f structured.Fields) (core.DealScore, error) {
			p, ok := f.Float("close_probability")
			if !ok {
				return core.DealScore{}, errors.New(`missing or invalid "close_probability"`)
			}
			p = clampProbability(p)

			risk, ok := normaliseRisk(f.String("risk_level"))
			if !ok {
				risk = riskFromProbability(p)
			}

			return core.DealScore{
				DealID:           rec.DealID,
				CompanyName:      rec.CompanyName,
				DealValue:        rec.DealValue,
				CloseProbability: p,
				RiskLevel:        risk,
				Reasoning:        f.String("reasoning"),
				NextActions:      f.StringSlice("next_actions"),
			}, nil
		},
		Fallback: func(_ string, err error) core.DealScore {
			return fallbackScore(rec, err)
		},
	}
}

func fallbackScore(rec core.DealRecord, err error) core.DealScore {
	return core.DealScore{
		DealID:           rec.DealID,
		CompanyName:      rec.CompanyName,
		DealValue:        rec.DealValue,
		CloseProbability: 0,
		RiskLevel:        core.RiskHigh,
		Reasoning:        structured.FailureReason(err),
		NextActions:      []string{},
	}
}

func clampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}

func normaliseRisk(s string) (core.RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return core.RiskLow, true
	case "medium", "med", "moderate":
		return core.RiskMedium, true
	case "high":
		return core.RiskHigh, true
	default:
		return "", false
	}
}

func riskFromProbability(p float64) core.RiskLevel {
	switch {
	case p >= 70:
		return core.RiskLow
	case p >= 40:
		return core.RiskMedium
	default:
		return core.RiskHigh
	}
}
