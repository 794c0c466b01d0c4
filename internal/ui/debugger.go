package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dmgcore/gbcore/internal/gameboy"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	regStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	haltStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// debuggerModel is a bubbletea Model driving one CPU instruction per
// keypress, with a continue mode that runs until a breakpoint or for at most
// 1,000,000 instructions, within a single keypress.
type debuggerModel struct {
	m           *gameboy.Machine
	romPath     string
	breakpoints map[uint16]bool
	lastCycles  int
	running     bool
	quitting    bool
}

func newDebuggerModel(m *gameboy.Machine, romPath string) debuggerModel {
	return debuggerModel{m: m, romPath: romPath, breakpoints: make(map[uint16]bool)}
}

func (d debuggerModel) Init() tea.Cmd { return nil }

func (d debuggerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			d.quitting = true
			return d, tea.Quit
		case "s":
			d.lastCycles = d.m.Step()
		case "f":
			d.m.StepFrame()
		case "c":
			d.running = true
			for i := 0; i < 1_000_000 && d.running; i++ {
				d.lastCycles = d.m.Step()
				if d.breakpoints[d.m.CPU().PC] {
					d.running = false
				}
			}
			d.running = false
		case "b":
			d.breakpoints[d.m.CPU().PC] = !d.breakpoints[d.m.CPU().PC]
		}
	}
	return d, nil
}

func (d debuggerModel) View() string {
	if d.quitting {
		return ""
	}
	c := d.m.CPU()
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("gbdebug — %s", d.romPath)))
	b.WriteString("\n\n")

	status := ""
	if c.Halted() {
		status = haltStyle.Render(" HALTED")
	}
	b.WriteString(regStyle.Render(fmt.Sprintf(
		"PC=%04X SP=%04X  AF=%02X%02X BC=%02X%02X DE=%02X%02X HL=%02X%02X  IME=%v%s",
		c.PC, c.SP, c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L, c.IME, status,
	)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("last step: %d T-cycles   instructions: %d   breakpoints: %d\n",
		d.lastCycles, d.m.InstructionCount(), len(d.breakpoints)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("next opcode @ %04X: %02X\n", c.PC, d.m.Bus().Read(c.PC)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s step  f frame  c continue  b toggle breakpoint at PC  q quit"))
	return b.String()
}

// RunDebugger attaches an interactive step-debugger TUI to an already
// loaded machine.
func RunDebugger(m *gameboy.Machine, romPath string) error {
	p := tea.NewProgram(newDebuggerModel(m, romPath))
	_, err := p.Run()
	return err
}
