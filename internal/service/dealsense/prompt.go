package dealsense

import (
	"strconv"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/prompt"
)

var scorePrompt = prompt.MustNew("dealsense.score", `
You are an AI sales analyst. Analyze this deal and provide scoring.

Deal Information:
- Company: {{.company_name}}
- Deal Value: ${{.deal_value}}
- Stage: {{.stage}}
- Days in Pipeline: {{.days_in_pipeline}}
- Last Contact: {{.last_contact_days}} days ago
- Decision Maker Engaged: {{.decision_maker_engaged}}
- Competitor: {{.has_competitor}}
- Budget Confirmed: {{.budget_confirmed}}

Analyze this deal and provide:
1. Close probability (0-100)
2. Risk level (Low/Medium/High)
3. Reasoning for your assessment
4. 3 specific next actions

Write the reasoning and next actions in simple, to the point, plain terms, like a
fellow sales colleague talking to the user after work.

Respond with a single JSON object and nothing else:
{"close_probability": 65, "risk_level": "Medium", "reasoning": "...", "next_actions": ["...", "...", "..."]}
`,
	"company_name", "deal_value", "stage", "days_in_pipeline",
	"last_contact_days", "decision_maker_engaged", "has_competitor", "budget_confirmed",
)

func promptValues(r core.DealRecord) map[string]any {
	return map[string]any{
		"company_name":           r.CompanyName,
		"deal_value":             strconv.FormatFloat(r.DealValue, 'f', -1, 64),
		"stage":                  r.Stage,
		"days_in_pipeline":       r.DaysInPipeline,
		"last_contact_days":      r.LastContactDays,
		"decision_maker_engaged": yesNo(r.DecisionMakerEngaged),
		"has_competitor":         yesNo(r.HasCompetitor),
		"budget_confirmed":       yesNo(r.BudgetConfirmed),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
