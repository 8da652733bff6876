package prompt

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/tmc/langchaingo/prompts"
)

// Template is a named prompt with a fixed set of placeholders. Placeholders
// use Go template syntax ({{.name}}) and are checked when the template is built.
type Template struct {
	name string
	vars []string
	tmpl prompts.PromptTemplate
}

func New(name, text string, vars ...string) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("prompt %s: empty template", name)
	}
	if err := prompts.CheckValidTemplate(text, prompts.TemplateFormatGoTemplate, vars); err != nil {
		return nil, fmt.Errorf("prompt %s: %w", name, err)
	}
	if err := checkPlaceholders(text, vars); err != nil {
		return nil, fmt.Errorf("prompt %s: %w", name, err)
	}

	return &Template{
		name: name,
		vars: vars,
		tmpl: prompts.NewPromptTemplate(text, vars),
	}, nil
}

// MustNew is New for package-level templates.
func MustNew(name, text string, vars ...string) *Template {
	t, err := New(name, text, vars...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Name() string {
	return t.name
}

func (t *Template) Variables() []string {
	return append([]string(nil), t.vars...)
}

// Render fills every placeholder. Missing values are an error rather than
// an empty substitution.
func (t *Template) Render(values map[string]any) (string, error) {
	var missing []string
	for _, v := range t.vars {
		if _, ok := values[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("prompt %s: missing values for %s", t.name, strings.Join(missing, ", "))
	}

	out, err := t.tmpl.Format(values)
	if err != nil {
		return "", fmt.Errorf("prompt %s: %w", t.name, err)
	}
	return strings.TrimSpace(out), nil
}

// checkPlaceholders fails when the template references a name outside vars.
func checkPlaceholders(text string, vars []string) error {
	tmpl, err := template.New("check").Option("missingkey=error").Parse(text)
	if err != nil {
		return err
	}

	dummy := make(map[string]any, len(vars))
	for _, v := range vars {
		dummy[v] = v
	}
	return tmpl.Execute(io.Discard, dummy)
}
