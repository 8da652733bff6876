package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		vars    []string
		wantErr bool
	}{
		{name: "valid", text: "Deal for {{.company}} worth {{.value}}", vars: []string{"company", "value"}},
		{name: "no placeholders", text: "Static prompt", vars: nil},
		{name: "json braces are literal", text: `Reply as {"score": 1} for {{.company}}`, vars: []string{"company"}},
		{name: "undeclared placeholder", text: "Hello {{.company}} {{.stage}}", vars: []string{"company"}, wantErr: true},
		{name: "broken syntax", text: "Hello {{.company", vars: []string{"company"}, wantErr: true},
		{name: "empty", text: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.name, tt.text, tt.vars...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTemplate_Render(t *testing.T) {
	tmpl := MustNew("deal", "Company: {{.company}}\nStage: {{.stage}}\n", "company", "stage")

	got, err := tmpl.Render(map[string]any{"company": "Acme", "stage": "Negotiation"})
	require.NoError(t, err)
	assert.Equal(t, "Company: Acme\nStage: Negotiation", got)

	_, err = tmpl.Render(map[string]any{"company": "Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing values for stage")

	assert.Equal(t, []string{"company", "stage"}, tmpl.Variables())
	assert.Equal(t, "deal", tmpl.Name())
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew("bad", "{{.missing}}")
	})
}
