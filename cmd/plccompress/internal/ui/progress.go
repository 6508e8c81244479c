// Package ui renders a progress bar for long-running batch compression
// runs, shown when a plccompress command is asked to show progress; the
// command's periodic log lines are printed either way.
package ui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	statStyle  = lipgloss.NewStyle().Faint(true)
)

// BatchProgressMsg reports progress after one identity's chain has been
// compressed.
type BatchProgressMsg struct {
	DIDsDone   int
	DIDsTotal  int
	OpsDone    int
	RawBytes   int64
	Compressed int64
}

// BatchDoneMsg signals the run is finished, successfully or not.
type BatchDoneMsg struct {
	Err error
}

type progressModel struct {
	bar   progress.Model
	total int
	last  BatchProgressMsg
	done  bool
	err   error
}

// NewBatchProgram returns a tea.Program driving a progress bar for a
// batch of `total` identities. The caller sends BatchProgressMsg and a
// final BatchDoneMsg to program.Send as the run proceeds.
func NewBatchProgram(total int) *tea.Program {
	m := progressModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
	return tea.NewProgram(m)
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BatchProgressMsg:
		m.last = msg
		return m, nil
	case BatchDoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("compression failed: %v\n", m.err)
		}
		return "done.\n"
	}

	frac := 0.0
	if m.total > 0 {
		frac = float64(m.last.DIDsDone) / float64(m.total)
	}
	savings := 0.0
	if m.last.RawBytes > 0 {
		savings = (1 - float64(m.last.Compressed)/float64(m.last.RawBytes)) * 100
	}

	return fmt.Sprintf(
		"%s\n%s\n%s\n",
		titleStyle.Render("compressing operation chains"),
		m.bar.ViewAs(frac),
		statStyle.Render(fmt.Sprintf("%d/%d DIDs  %d ops  %.1f%% saved",
			m.last.DIDsDone, m.total, m.last.OpsDone, savings)),
	)
}

// PrintSummary writes the final report in test_compression.py's
// "=== Results ===" shape.
func PrintSummary(dids, ops int, rawBytes, compressedBytes int64, errors int) {
	savings := 0.0
	if rawBytes > 0 {
		savings = (1 - float64(compressedBytes)/float64(rawBytes)) * 100
	}
	fmt.Fprintln(os.Stdout, "=== Results ===")
	fmt.Fprintf(os.Stdout, "  DIDs:        %d\n", dids)
	fmt.Fprintf(os.Stdout, "  Operations:  %d\n", ops)
	fmt.Fprintf(os.Stdout, "  Raw:         %.1f MB\n", float64(rawBytes)/1e6)
	fmt.Fprintf(os.Stdout, "  Compressed:  %.1f MB\n", float64(compressedBytes)/1e6)
	fmt.Fprintf(os.Stdout, "  Savings:     %.1f%%\n", savings)
	fmt.Fprintf(os.Stdout, "  Errors:      %d\n", errors)
}
