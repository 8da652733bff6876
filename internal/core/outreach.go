package core

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelLinkedIn Channel = "linkedin"
	ChannelSlack    Channel = "slack"
)

// Profile describes the prospect an outreach message is written for.
type Profile struct {
	CompanyName        string   `json:"company_name"`
	Industry           string   `json:"industry"`
	CompanySize        string   `json:"company_size"`
	PainPoints         []string `json:"pain_points"`
	DecisionMakerName  string   `json:"decision_maker_name,omitempty"`
	DecisionMakerTitle string   `json:"decision_maker_title,omitempty"`
	RecentActivity     string   `json:"recent_activity,omitempty"`
}

type OutreachResult struct {
	Channel                 Channel          `json:"channel"`
	Subject                 string           `json:"subject"`
	Body                    string           `json:"body"`
	BodyHTML                string           `json:"body_html,omitempty"`
	Reasoning               string           `json:"reasoning"`
	PersonalizationElements []string         `json:"personalization_elements"`
	CallToAction            string           `json:"call_to_action"`
	AlternativeVersions     []map[string]any `json:"alternative_versions,omitempty"`
	Temperature             float64          `json:"temperature"`
	Warnings                []string         `json:"warnings,omitempty"`
	Review                  *Review          `json:"review,omitempty"`
}

type ReviewScores struct {
	Personalization float64 `json:"personalization"`
	Clarity         float64 `json:"clarity"`
	CTAStrength     float64 `json:"cta_strength"`
	Overall         float64 `json:"overall"`
}

type Review struct {
	Scores             ReviewScores   `json:"scores"`
	Feedback           []string       `json:"feedback"`
	AlternativeVersion map[string]any `json:"alternative_version,omitempty"`
}
