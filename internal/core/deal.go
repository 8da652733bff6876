package core

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// DealRecord is one CRM pipeline row.
type DealRecord struct {
	DealID               string  `json:"deal_id,omitempty"`
	CompanyName          string  `json:"company_name"`
	DealValue            float64 `json:"deal_value"`
	Stage                string  `json:"stage"`
	DaysInPipeline       int     `json:"days_in_pipeline"`
	LastContactDays      int     `json:"last_contact_days"`
	DecisionMakerEngaged bool    `json:"decision_maker_engaged"`
	HasCompetitor        bool    `json:"has_competitor"`
	BudgetConfirmed      bool    `json:"budget_confirmed"`
}

type DealScore struct {
	DealID           string    `json:"deal_id"`
	CompanyName      string    `json:"company_name"`
	DealValue        float64   `json:"deal_value"`
	CloseProbability float64   `json:"close_probability"`
	RiskLevel        RiskLevel `json:"risk_level"`
	Reasoning        string    `json:"reasoning"`
	NextActions      []string  `json:"next_actions"`
	Error            string    `json:"error,omitempty"`
}

// DealResult is the per-record outcome of a batch run.
type DealResult struct {
	Row   int
	Score DealScore
	Err   error
}
