package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/gtmsuite/internal/config"
	"github.com/sandevgo/gtmsuite/internal/providers/llm"
)

// ModelStep lists the models of the chosen provider. Pressing s keeps the
// suggested default.
type ModelStep struct {
	list     list.Model
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
	fetch    func(ctx context.Context, cfg *config.AppConfig) ([]list.Item, error)
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		list:    l,
		loading: true,
		fetch:   fetchModels,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// 1. Trigger fetch once when we enter the step
	if s.loading && !s.fetching {
		s.fetching = true
		cfg := state.App

		return s, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			items, err := s.fetch(ctx, &cfg)
			if err != nil {
				return errMsg(err)
			}
			return modelsMsg(items)
		}
	}

	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil

	case tea.KeyMsg:
		if s.err != nil {
			switch msg.String() {
			case "enter":
				s.err = nil
				s.loading = true
				s.fetching = false
			case "s":
				return nil, nil
			}
			return s, nil
		}

		if s.loading {
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.App.Model = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nCheck your API key and network connection.\n\n" +
			fmt.Sprintf("(press enter to retry, s to keep %q, ctrl+c to quit)\n", state.App.Model)
	}
	if s.loading {
		return fmt.Sprintf("Fetching models from %s...\n", state.App.Provider)
	}
	return s.list.View()
}

func fetchModels(ctx context.Context, cfg *config.AppConfig) ([]list.Item, error) {
	p, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	models, err := p.Models(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]list.Item, 0, len(models))
	for _, mod := range models {
		name := mod.Name
		if name == "" {
			name = mod.ID
		}
		desc := "ID: " + mod.ID
		if mod.ContextLength > 0 {
			desc = fmt.Sprintf("%s | Context: %d", desc, mod.ContextLength)
		}
		items = append(items, item{id: mod.ID, title: name, desc: desc})
	}
	return items, nil
}
