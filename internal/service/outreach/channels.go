package outreach

import (
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
)

// ChannelSpec holds the formatting rules of one outreach channel.
type ChannelSpec struct {
	ID              core.Channel `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	SubjectRequired bool         `json:"subject_required"`
	MaxWords        int          `json:"max_words"`
	MaxEmojis       int          `json:"max_emojis,omitempty"`
	Instructions    string       `json:"-"`
}

var channels = []ChannelSpec{
	{
		ID:              core.ChannelEmail,
		Name:            "Email",
		Description:     "Cold email with a curiosity-driven subject line",
		SubjectRequired: true,
		MaxWords:        150,
		Instructions: `EMAIL FORMAT:
- Subject line: 6-8 words, curiosity-driven
- Body: 3-4 short paragraphs
- Include the prospect's company name
- End with a single clear CTA (book a 15-min call)`,
	},
	{
		ID:          core.ChannelLinkedIn,
		Name:        "LinkedIn",
		Description: "Short, casual LinkedIn direct message",
		MaxWords:    100,
		Instructions: `LINKEDIN MESSAGE FORMAT:
- No subject line
- Keep it under 100 words (LinkedIn truncates)
- More casual tone than email
- Reference something from their LinkedIn profile or recent activity
- CTA: "Worth a quick chat?"`,
	},
	{
		ID:          core.ChannelSlack,
		Name:        "Slack",
		Description: "Very casual Slack Connect message",
		MaxWords:    75,
		MaxEmojis:   2,
		Instructions: `SLACK MESSAGE FORMAT:
- No subject line
- Very casual, conversational tone
- Under 75 words
- Use emojis sparingly (1-2 max)
- CTA: "Have 10 mins to chat?"`,
	},
}

// Channels lists the supported channels in display order.
func Channels() []ChannelSpec {
	return append([]ChannelSpec(nil), channels...)
}

// LookupChannel resolves a channel id. An empty id means email.
func LookupChannel(id string) (ChannelSpec, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return channels[0], nil
	}
	for _, c := range channels {
		if string(c.ID) == id {
			return c, nil
		}
	}
	return ChannelSpec{}, core.InvalidInput("outreach", "unknown channel %q, expected email, linkedin or slack", id)
}
