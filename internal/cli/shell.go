package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/tarefitas/internal/core"
)

// shellHistoryLimit caps the number of results kept on screen.
const shellHistoryLimit = 10

type shellEntry struct {
	command string
	output  string
	failed  bool
}

// shellModel is a small terminal stand-in for the desktop shell: it invokes
// greet with the typed name and generate_id on demand.
type shellModel struct {
	router  core.CommandRouter
	input   []rune
	history []shellEntry
	busy    bool
	width   int
}

// invokeResultMsg carries a finished command invocation back to the model.
type invokeResultMsg struct {
	command string
	result  any
	err     error
}

var (
	shellTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	shellPromptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	shellCommandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	shellOKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	shellErrStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	shellHelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newShellModel(router core.CommandRouter) shellModel {
	return shellModel{router: router}
}

func (m shellModel) Init() tea.Cmd {
	return nil
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			name := string(m.input)
			m.input = nil
			m.busy = true
			return m, m.invokeGreet(name)
		case tea.KeyCtrlG:
			if m.busy {
				return m, nil
			}
			m.busy = true
			return m, m.invoke(core.CommandGenerateID, nil)
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil
		case tea.KeySpace:
			m.input = append(m.input, ' ')
			return m, nil
		case tea.KeyRunes:
			m.input = append(m.input, msg.Runes...)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case invokeResultMsg:
		m.busy = false
		entry := shellEntry{command: msg.command}
		if msg.err != nil {
			entry.output = msg.err.Error()
			entry.failed = true
		} else {
			entry.output = fmt.Sprint(msg.result)
		}
		m.history = append(m.history, entry)
		if len(m.history) > shellHistoryLimit {
			m.history = m.history[len(m.history)-shellHistoryLimit:]
		}
		return m, nil
	}

	return m, nil
}

func (m shellModel) invokeGreet(name string) tea.Cmd {
	payload, err := json.Marshal(core.GreetArgs{Name: &name})
	if err != nil {
		return func() tea.Msg {
			return invokeResultMsg{command: core.CommandGreet, err: err}
		}
	}
	return m.invoke(core.CommandGreet, payload)
}

func (m shellModel) invoke(command string, args json.RawMessage) tea.Cmd {
	router := m.router
	return func() tea.Msg {
		result, err := router.Invoke(context.Background(), command, args)
		return invokeResultMsg{command: command, result: result, err: err}
	}
}

func (m shellModel) View() string {
	var b strings.Builder
	b.WriteString(shellTitleStyle.Render(" Tarefitas "))
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(shellCommandStyle.Render(e.command))
		b.WriteString(" ")
		if e.failed {
			b.WriteString(shellErrStyle.Render("error: " + e.output))
		} else {
			b.WriteString(shellOKStyle.Render(e.output))
		}
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(shellPromptStyle.Render("name> "))
	b.WriteString(string(m.input))
	if m.busy {
		b.WriteString(shellHelpStyle.Render("  (running)"))
	}
	b.WriteString("\n\n")
	b.WriteString(shellHelpStyle.Render("enter: greet | ctrl+g: new id | esc: quit"))
	return b.String()
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive terminal shell for the backend commands",
	Long: `Launch a small terminal shell that calls the backend the way the desktop
app does. Type a name and press enter to greet it, press ctrl+g to generate
an identifier, and esc to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Router == nil {
			return fmt.Errorf("command router not initialized")
		}
		p := tea.NewProgram(newShellModel(Router))
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
