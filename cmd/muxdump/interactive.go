package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/mux-codec/codec"
	"github.com/wippyai/mux-codec/shape"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err     error
	data    []byte
	input   textinput.Model
	result  string
	strict  bool
	decoded bool
}

func newInteractiveModel(data []byte, shapeExpr string, strict bool) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "struct(id: u32, path: str)"
	ti.Prompt = "shape: "
	ti.Width = 60
	ti.SetValue(shapeExpr)
	ti.Focus()

	return &interactiveModel{
		data:   data,
		input:  ti,
		strict: strict,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	if m.input.Value() != "" {
		return m.decodePayload
	}
	return textinput.Blink
}

type decodedMsg struct {
	err    error
	result string
}

func (m *interactiveModel) decodePayload() tea.Msg {
	s, err := shape.Parse(m.input.Value())
	if err != nil {
		return decodedMsg{err: err}
	}

	var opts []codec.DecoderOption
	if m.strict {
		opts = append(opts, codec.WithStrictBool())
	}
	dec := codec.NewDecoder(m.data, opts...)
	v, err := dec.Decode(s)
	if err != nil {
		return decodedMsg{err: err}
	}
	if err := dec.Finish(); err != nil {
		return decodedMsg{err: err}
	}

	return decodedMsg{result: renderValue(v, s, 0)}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if strings.TrimSpace(m.input.Value()) != "" {
				return m, m.decodePayload
			}
		}

	case decodedMsg:
		m.err = msg.err
		m.result = msg.result
		m.decoded = true
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mux payload inspector"))
	b.WriteString(fmt.Sprintf("  %d byte(s)\n\n", len(m.data)))

	b.WriteString(hexDump(m.data, 80))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.decoded {
		if m.err != nil {
			b.WriteString(errorStyle.Render(m.err.Error()))
		} else {
			b.WriteString(m.result)
		}
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("enter decode • esc quit"))
	return b.String()
}

func runInteractive(data []byte, shapeExpr string, strict bool) error {
	p := tea.NewProgram(newInteractiveModel(data, shapeExpr, strict), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
