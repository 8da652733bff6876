package outreach

import (
	"context"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/structured"
)

// ResearchBrief is the output of the research stage.
type ResearchBrief struct {
	Summary              string   `json:"summary"`
	Angles               []string `json:"angles"`
	PersonalizationHooks []string `json:"personalization_hooks"`
}

func (b ResearchBrief) String() string {
	if strings.TrimSpace(b.Summary) == "" && len(b.Angles) == 0 && len(b.PersonalizationHooks) == 0 {
		return noResearch
	}

	var sb strings.Builder
	if b.Summary != "" {
		sb.WriteString(b.Summary)
		sb.WriteString("\n")
	}
	if len(b.Angles) > 0 {
		sb.WriteString("Angles: ")
		sb.WriteString(strings.Join(b.Angles, "; "))
		sb.WriteString("\n")
	}
	if len(b.PersonalizationHooks) > 0 {
		sb.WriteString("Personalization hooks: ")
		sb.WriteString(strings.Join(b.PersonalizationHooks, "; "))
	}
	return strings.TrimSpace(sb.String())
}

// ResearchStage turns a profile into a research brief.
type ResearchStage struct {
	ai          core.AIProvider
	temperature float64
}

func (s ResearchStage) Run(ctx context.Context, p core.Profile) (ResearchBrief, error) {
	text, err := researchPrompt.Render(profileValues(p))
	if err != nil {
		return ResearchBrief{}, core.GenerationError("research", err)
	}

	reply, err := chat(ctx, s.ai, text, s.temperature)
	if err != nil {
		return ResearchBrief{}, core.GenerationError("research", err)
	}

	return structured.Extract(reply, structured.Shape[ResearchBrief]{
		Decode: func(f structured.Fields) (ResearchBrief, error) {
			if err := f.Require("summary"); err != nil {
				return ResearchBrief{}, err
			}
			return ResearchBrief{
				Summary:              f.String("summary"),
				Angles:               f.StringSlice("angles"),
				PersonalizationHooks: f.StringSlice("personalization_hooks"),
			}, nil
		},
		Fallback: func(raw string, _ error) ResearchBrief {
			// Free text research is still useful to the copywriter
			return ResearchBrief{Summary: strings.TrimSpace(raw), Angles: []string{}, PersonalizationHooks: []string{}}
		},
	}), nil
}

// CopyStage writes the message for one channel.
type CopyStage struct {
	ai          core.AIProvider
	temperature float64
}

func (s CopyStage) Run(ctx context.Context, p core.Profile, spec ChannelSpec, brief ResearchBrief) (core.OutreachResult, error) {
	text, err := messagePrompt.Render(messageValues(p, spec, brief.String()))
	if err != nil {
		return core.OutreachResult{}, core.GenerationError("generate outreach", err)
	}

	reply, err := chat(ctx, s.ai, text, s.temperature)
	if err != nil {
		return core.OutreachResult{}, core.GenerationError("generate outreach", err)
	}

	res := structured.Extract(reply, messageShape)
	return finalize(res, spec, s.temperature), nil
}

// ReviewStage scores a finished message.
type ReviewStage struct {
	ai          core.AIProvider
	temperature float64
}

func (s ReviewStage) Run(ctx context.Context, msg core.OutreachResult, spec ChannelSpec) (core.Review, error) {
	subject := msg.Subject
	if subject == "" {
		subject = "(none)"
	}

	text, err := reviewPrompt.Render(map[string]any{
		"channel":        spec.Name,
		"subject":        subject,
		"body":           msg.Body,
		"call_to_action": msg.CallToAction,
		"max_words":      spec.MaxWords,
	})
	if err != nil {
		return core.Review{}, core.GenerationError("review outreach", err)
	}

	reply, err := chat(ctx, s.ai, text, s.temperature)
	if err != nil {
		return core.Review{}, core.GenerationError("review outreach", err)
	}

	return structured.Extract(reply, reviewShape), nil
}

var reviewShape = structured.Shape[core.Review]{
	Decode: func(f structured.Fields) (core.Review, error) {
		scores, ok := f.Map("scores")
		if !ok {
			return core.Review{}, errMissingScores
		}

		r := core.Review{
			Scores: core.ReviewScores{
				Personalization: score(scores, "personalization"),
				Clarity:         score(scores, "clarity"),
				CTAStrength:     score(scores, "cta_strength"),
				Overall:         score(scores, "overall"),
			},
			Feedback: f.StringSlice("feedback"),
		}
		if alt, ok := f.Map("alternative_version"); ok && len(alt) > 0 {
			r.AlternativeVersion = map[string]any(alt)
		}
		return r, nil
	},
	Fallback: func(_ string, err error) core.Review {
		return core.Review{Feedback: []string{structured.FailureReason(err)}}
	},
}

func score(f structured.Fields, key string) float64 {
	v, _ := f.Float(key)
	return v
}

func chat(ctx context.Context, ai core.AIProvider, text string, temperature float64) (string, error) {
	reply, err := ai.Chat(ctx, []core.Message{
		{Role: core.RoleUser, Content: text},
	}, core.WithTemperature(temperature))
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}
