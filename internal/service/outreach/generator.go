package outreach

import (
	"context"
	"math"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/structured"
	"github.com/sandevgo/gtmsuite/pkg/conv"
	"github.com/sandevgo/gtmsuite/pkg/log"
	"golang.org/x/sync/errgroup"
)

const maxTemperature = 2.0

type Config struct {
	Temperature float64
	VariantStep float64
	MaxVariants int
}

func DefaultConfig() Config {
	return Config{Temperature: 0.7, VariantStep: 0.1, MaxVariants: 5}
}

type Generator struct {
	ai  core.AIProvider
	cfg Config

	research ResearchStage
	review   ReviewStage
}

func NewGenerator(ai core.AIProvider, cfg Config) *Generator {
	if cfg.MaxVariants <= 0 {
		cfg.MaxVariants = DefaultConfig().MaxVariants
	}
	return &Generator{
		ai:       ai,
		cfg:      cfg,
		research: ResearchStage{ai: ai, temperature: cfg.Temperature},
		review:   ReviewStage{ai: ai, temperature: cfg.Temperature},
	}
}

// Generate writes one message in a single model call.
func (g *Generator) Generate(ctx context.Context, p core.Profile, channel core.Channel) (core.OutreachResult, error) {
	spec, err := prepare(p, channel)
	if err != nil {
		return core.OutreachResult{}, err
	}
	return g.copy().Run(ctx, p, spec, ResearchBrief{})
}

// GenerateVariants runs Generate count times with rising temperature.
// Results are in call order. One failed call fails the batch.
func (g *Generator) GenerateVariants(ctx context.Context, p core.Profile, channel core.Channel, count int) ([]core.OutreachResult, error) {
	spec, err := prepare(p, channel)
	if err != nil {
		return nil, err
	}

	count = max(1, min(count, g.cfg.MaxVariants))
	results := make([]core.OutreachResult, count)

	eg, ctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		stage := g.copy()
		stage.temperature = g.variantTemperature(i)

		eg.Go(func() error {
			res, err := stage.Run(ctx, p, spec, ResearchBrief{})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().
		Str("channel", string(spec.ID)).
		Int("variants", count).
		Msg("outreach variants generated")
	return results, nil
}

// GenerateReviewed runs research, copywriting and review as three
// sequential stages and attaches the review to the message.
func (g *Generator) GenerateReviewed(ctx context.Context, p core.Profile, channel core.Channel) (core.OutreachResult, error) {
	spec, err := prepare(p, channel)
	if err != nil {
		return core.OutreachResult{}, err
	}

	brief, err := g.research.Run(ctx, p)
	if err != nil {
		return core.OutreachResult{}, err
	}

	msg, err := g.copy().Run(ctx, p, spec, brief)
	if err != nil {
		return core.OutreachResult{}, err
	}

	review, err := g.review.Run(ctx, msg, spec)
	if err != nil {
		return core.OutreachResult{}, err
	}

	msg.Review = &review
	if review.AlternativeVersion != nil {
		msg.AlternativeVersions = append(msg.AlternativeVersions, review.AlternativeVersion)
	}

	log.FromCtx(ctx).Debug().
		Str("company", p.CompanyName).
		Float64("overall", review.Scores.Overall).
		Msg("outreach reviewed")
	return msg, nil
}

func (g *Generator) copy() CopyStage {
	return CopyStage{ai: g.ai, temperature: g.cfg.Temperature}
}

func (g *Generator) variantTemperature(i int) float64 {
	t := g.cfg.Temperature + float64(i)*g.cfg.VariantStep
	// 0.7 + 3*0.1 is 0.9999999999 without rounding
	t = math.Round(t*100) / 100
	return math.Min(t, maxTemperature)
}

func prepare(p core.Profile, channel core.Channel) (ChannelSpec, error) {
	if err := ValidateProfile(p); err != nil {
		return ChannelSpec{}, err
	}
	return LookupChannel(string(channel))
}

// ValidateProfile checks the fields every prompt relies on.
func ValidateProfile(p core.Profile) error {
	var missing []string
	if strings.TrimSpace(p.CompanyName) == "" {
		missing = append(missing, "company_name")
	}
	if strings.TrimSpace(p.Industry) == "" {
		missing = append(missing, "industry")
	}
	if strings.TrimSpace(p.CompanySize) == "" {
		missing = append(missing, "company_size")
	}
	hasPain := false
	for _, pp := range p.PainPoints {
		if strings.TrimSpace(pp) != "" {
			hasPain = true
			break
		}
	}
	if !hasPain {
		missing = append(missing, "pain_points")
	}

	if len(missing) > 0 {
		return core.InvalidInput("outreach", "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// finalize applies channel rules that do not depend on the model.
func finalize(res core.OutreachResult, spec ChannelSpec, temperature float64) core.OutreachResult {
	res.Channel = spec.ID
	res.Temperature = temperature

	if !spec.SubjectRequired {
		res.Subject = ""
	}

	if conv.LooksLikeHTML(res.Body) {
		if text, err := conv.HTMLToText(res.Body); err == nil {
			res.Body = text
		}
	}
	res.Body = strings.TrimSpace(res.Body)

	if res.PersonalizationElements == nil {
		res.PersonalizationElements = []string{}
	}
	if res.AlternativeVersions == nil {
		res.AlternativeVersions = []map[string]any{}
	}

	res.Warnings = checkChannel(res, spec)

	if spec.ID == core.ChannelEmail {
		res.BodyHTML = conv.MarkdownToEmailHTML(res.Body)
	}
	return res
}

var messageShape = structured.Shape[core.OutreachResult]{
	Decode: func(f structured.Fields) (core.OutreachResult, error) {
		if err := f.Require("body"); err != nil {
			return core.OutreachResult{}, err
		}
		return core.OutreachResult{
			Subject:                 f.String("subject"),
			Body:                    f.String("body"),
			Reasoning:               f.String("reasoning"),
			PersonalizationElements: f.StringSlice("personalization_elements"),
			CallToAction:            f.String("call_to_action"),
			AlternativeVersions:     f.Maps("alternative_versions"),
		}, nil
	},
	Fallback: func(raw string, err error) core.OutreachResult {
		return core.OutreachResult{
			Body:                    strings.TrimSpace(raw),
			Reasoning:               structured.FailureReason(err),
			PersonalizationElements: []string{},
		}
	},
}
