package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/component"
	"github.com/bikeshaving/crank-go/hosttest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelect modelState = iota
	stateInputProps
	stateMounted
)

type interactiveModel struct {
	err      error
	names    []string
	selected int
	state    modelState
	input    textinput.Model
	mounted  *hosttest.Mounted
	frame    string
	frameNum int
	done     bool
}

type frameMsg struct {
	err   error
	frame string
	done  bool
}

func newInteractiveModel() *interactiveModel {
	names := make([]string, 0, len(demos))
	for n := range demos {
		names = append(names, n)
	}
	sort.Strings(names)
	return &interactiveModel{names: names, state: stateSelect}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.mounted != nil {
				m.mounted.Unmount()
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelect && m.selected < len(m.names)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelect:
				m.prepareInput()
				m.state = stateInputProps
			case stateInputProps:
				return m, m.mount
			case stateMounted:
				if !m.done {
					return m, m.nextFrame
				}
			}

		case "esc":
			switch m.state {
			case stateInputProps:
				m.state = stateSelect
			case stateMounted:
				if m.mounted != nil {
					m.mounted.Unmount()
					m.mounted = nil
				}
				m.state = stateSelect
				m.frame = ""
				m.frameNum = 0
				m.done = false
				m.err = nil
			}
		}

	case frameMsg:
		m.err = msg.err
		if msg.err == nil {
			m.frame = msg.frame
			m.frameNum++
			m.done = msg.done
		}
		m.state = stateMounted
	}

	if m.state == stateInputProps {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) prepareInput() {
	d := demos[m.names[m.selected]]
	ti := textinput.New()
	ti.Placeholder = "key=val,key2=val2"
	ti.Prompt = "props: "
	ti.Width = 40
	ti.SetValue(formatInitial(d.initial))
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) mount() tea.Msg {
	d := demos[m.names[m.selected]]
	initial := d.initial
	if v := strings.TrimSpace(m.input.Value()); v != "" {
		initial = parseProps(v)
	}

	c, err := component.Adapt(d.callable)
	if err != nil {
		return frameMsg{err: err}
	}
	mounted, err := hosttest.NewEngine().Mount(c, initial)
	if err != nil {
		return frameMsg{err: err}
	}
	m.mounted = mounted

	frame, done, err := mounted.RenderNext()
	if err != nil {
		return frameMsg{err: err}
	}
	return frameMsg{frame: renderText(frame), done: done}
}

func (m *interactiveModel) nextFrame() tea.Msg {
	d := demos[m.names[m.selected]]
	frame, done, err := m.mounted.UpdateProps(d.initial)
	if err != nil {
		return frameMsg{err: err}
	}
	return frameMsg{frame: renderText(frame), done: done}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Crank Demo"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		b.WriteString("Select a component to mount:\n\n")
		for i, n := range m.names {
			line := nameStyle.Render(n) + "  " + kindStyle.Render(demos[n].desc)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + n))
				b.WriteString("  " + kindStyle.Render(demos[n].desc))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter mount • q quit"))

	case stateInputProps:
		b.WriteString(fmt.Sprintf("Mounting %s\n\n", nameStyle.Render(m.names[m.selected])))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter mount • esc back"))

	case stateMounted:
		b.WriteString(fmt.Sprintf("%s, frame %d:\n\n", nameStyle.Render(m.names[m.selected]), m.frameNum))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(frameStyle.Render(m.frame))
		}
		b.WriteString("\n\n")
		if m.done {
			b.WriteString(helpStyle.Render("done • esc back • q quit"))
		} else {
			b.WriteString(helpStyle.Render("enter next frame • esc unmount • q quit"))
		}
	}

	return b.String()
}

func formatInitial(p crank.Props) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return strings.Join(parts, ",")
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
