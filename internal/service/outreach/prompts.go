package outreach

import (
	"fmt"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/prompt"
)

const noResearch = "None. Work from the prospect details above."

var messagePrompt = prompt.MustNew("outreach.message", `
You are a world-class B2B copywriter specializing in cold outreach. Your messages are
personal, concise and value-focused. You avoid buzzwords and write like a human.

Write a personalized {{.channel}} outreach message{{.recipient}}.

Prospect:
- Company: {{.company_name}}
- Industry: {{.industry}}
- Company size: {{.company_size}} employees
- Pain points: {{.pain_points}}
- Recent activity: {{.recent_activity}}

Research brief:
{{.research}}

{{.instructions}}

Key requirements:
1. Hook them in the first sentence with a relevant insight
2. Reference their specific pain points
3. Keep the body under {{.max_words}} words
4. One clear call to action
5. Natural, conversational tone, not salesy
6. Include 2-3 specific personalization elements

Respond with a single JSON object and nothing else, using the keys:
subject (empty string when the channel has no subject line), body, reasoning,
personalization_elements (array of strings), call_to_action
`,
	"channel", "recipient", "company_name", "industry", "company_size",
	"pain_points", "recent_activity", "research", "instructions", "max_words",
)

var researchPrompt = prompt.MustNew("outreach.research", `
You are an expert B2B researcher with deep knowledge of GTM operations.

Research {{.company_name}} ({{.industry}}, {{.company_size}} employees).

Focus on:
1. Key pain points: {{.pain_points}}
2. Recent activity: {{.recent_activity}}
3. Relevant case studies or social proof
4. Personalization opportunities

Respond with a single JSON object and nothing else, using the keys:
summary (what messaging would resonate most), angles (array of strings),
personalization_hooks (array of strings)
`, "company_name", "industry", "company_size", "pain_points", "recent_activity")

var reviewPrompt = prompt.MustNew("outreach.review", `
You are a seasoned sales leader who has reviewed thousands of outreach messages.
Review this {{.channel}} message for quality and effectiveness.

Subject: {{.subject}}
Body:
{{.body}}
Call to action: {{.call_to_action}}

Score from 1 to 10:
1. personalization: how tailored is it?
2. clarity: is the value proposition clear?
3. cta_strength: how compelling is the call to action?
4. overall: would you respond to this?

The body must stay under {{.max_words}} words.

Respond with a single JSON object and nothing else, using the keys:
scores (object with personalization, clarity, cta_strength, overall),
feedback (array of specific improvement suggestions),
alternative_version (object with subject, body, call_to_action, only when overall is below 8)
`, "channel", "subject", "body", "call_to_action", "max_words")

func profileValues(p core.Profile) map[string]any {
	activity := strings.TrimSpace(p.RecentActivity)
	if activity == "" {
		activity = "None provided"
	}
	return map[string]any{
		"company_name":    p.CompanyName,
		"industry":        p.Industry,
		"company_size":    p.CompanySize,
		"pain_points":     strings.Join(p.PainPoints, "; "),
		"recent_activity": activity,
	}
}

func messageValues(p core.Profile, spec ChannelSpec, research string) map[string]any {
	v := profileValues(p)
	v["channel"] = spec.Name
	v["recipient"] = recipient(p)
	v["research"] = research
	v["instructions"] = spec.Instructions
	v["max_words"] = spec.MaxWords
	return v
}

func recipient(p core.Profile) string {
	name := strings.TrimSpace(p.DecisionMakerName)
	title := strings.TrimSpace(p.DecisionMakerTitle)
	switch {
	case name != "" && title != "":
		return fmt.Sprintf(" to %s (%s)", name, title)
	case name != "":
		return " to " + name
	case title != "":
		return " to their " + title
	default:
		return ""
	}
}
