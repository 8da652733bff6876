package dealsense

import (
	"strings"
	"testing"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := "\ufeffCompany Name,deal_value,stage,days_in_pipeline,last_contact_days,decision_maker_engaged,has_competitor,budget_confirmed\n" +
		"Acme,\"$50,000\",Negotiation,45,2,yes,no,TRUE\n" +
		"Globex,12000,Discovery,10,,1,0,\n" +
		"\n" +
		"Initech,lots,Proposal,5,1,no,no,no\n" +
		",1000,Proposal,5,1,no,no,no\n" +
		"Umbrella,9000,Closed,3.0,1,maybe,no,no\n"

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 5)

	acme := rows[0]
	require.NoError(t, acme.Err)
	assert.Equal(t, 2, acme.Line)
	assert.Equal(t, core.DealRecord{
		CompanyName:          "Acme",
		DealValue:            50000,
		Stage:                "Negotiation",
		DaysInPipeline:       45,
		LastContactDays:      2,
		DecisionMakerEngaged: true,
		HasCompetitor:        false,
		BudgetConfirmed:      true,
	}, acme.Record)

	globex := rows[1]
	require.NoError(t, globex.Err)
	assert.Equal(t, 0, globex.Record.LastContactDays)
	assert.True(t, globex.Record.DecisionMakerEngaged)
	assert.False(t, globex.Record.BudgetConfirmed)

	assert.ErrorIs(t, rows[2].Err, core.ErrInvalidInput)
	assert.Contains(t, rows[2].Err.Error(), "deal_value")
	assert.Equal(t, 5, rows[2].Line)

	assert.ErrorIs(t, rows[3].Err, core.ErrInvalidInput)
	assert.Contains(t, rows[3].Err.Error(), "company_name")

	assert.Contains(t, rows[4].Err.Error(), "decision_maker_engaged")
}

func TestParseCSV_FileErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "empty", input: "", wantMsg: "file is empty"},
		{name: "missing columns", input: "company_name,stage\nAcme,Won\n", wantMsg: "deal_value, days_in_pipeline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseCSV_MalformedQuoteOnlyFailsRow(t *testing.T) {
	input := "company_name,deal_value,stage,days_in_pipeline\n" +
		"Acme,100,Won,1\n" +
		"Bad \"quote,100,Won,1\n" +
		"Globex,200,Won,2\n"

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.NoError(t, rows[0].Err)
	assert.Error(t, rows[1].Err)
	assert.NoError(t, rows[2].Err)
	assert.Equal(t, "Globex", rows[2].Record.CompanyName)
}
