package terminal

import (
	"strings"

	"breathwork/internal/core/model"
	"breathwork/internal/core/session"
	"breathwork/internal/ui/animation"
	"breathwork/internal/ui/display"

	"github.com/charmbracelet/lipgloss"
)

const bubbleMaxWidth = 24

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	captionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231"))
	timerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	frameStyle   = lipgloss.NewStyle().Padding(1, 2)

	toneColors = map[animation.Tone]lipgloss.Color{
		animation.ToneIdle:     lipgloss.Color("66"),
		animation.ToneBreath:   lipgloss.Color("33"),
		animation.ToneHold:     lipgloss.Color("160"),
		animation.ToneRecovery: lipgloss.Color("117"),
	}
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Breathwork"))
	b.WriteString("\n\n")

	if m.snapshot.Phase == session.PhaseResults {
		m.writeResults(&b)
	} else {
		m.writeExercise(&b)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return frameStyle.Render(b.String())
}

func (m Model) writeExercise(b *strings.Builder) {
	snapshot := m.snapshot
	b.WriteString(labelStyle.Render(display.RoundLabel(snapshot)))
	if breath := display.BreathLabel(snapshot); breath != "" {
		b.WriteString("   ")
		b.WriteString(labelStyle.Render(breath))
	}
	b.WriteString("\n\n")
	b.WriteString(renderBubble(animation.CueFor(snapshot)))
	b.WriteString("\n\n")
	b.WriteString(captionStyle.Render(display.Caption(snapshot)))
	if timer := display.TimerText(snapshot); timer != "" {
		b.WriteString("  ")
		b.WriteString(timerStyle.Render(timer))
	}
	if fraction, ok := progressFraction(snapshot); ok {
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(fraction))
	}
}

func (m Model) writeResults(b *strings.Builder) {
	b.WriteString(captionStyle.Render(display.Caption(m.snapshot)))
	b.WriteString("\n\n")
	b.WriteString(timerStyle.Render("Max hold: " + display.FormatSeconds(m.snapshot.MaxHoldDuration)))
	b.WriteString("\n")
	for _, line := range display.ResultLines(m.snapshot.RoundResults) {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(line))
	}
}

// renderBubble draws the bubble as a coloured bar whose width follows the cue scale.
func renderBubble(cue animation.Cue) string {
	width := int(cue.Scale * bubbleMaxWidth)
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().
		Background(toneColors[cue.Tone]).
		Width(width).
		Render("")
}

// progressFraction reports how far the current phase has run. The hold has no end, so it has no bar.
func progressFraction(snapshot session.Snapshot) (float64, bool) {
	switch snapshot.Phase {
	case session.PhaseBreathing:
		if snapshot.Config.BreathsPerRound <= 0 {
			return 0, false
		}
		return float64(snapshot.BreathIndex) / float64(snapshot.Config.BreathsPerRound), true
	case session.PhaseRecoveryBreath:
		total := float64(model.RecoveryHoldTenths) / 10
		if snapshot.RecoveryPhase == session.RecoveryExhale {
			total = float64(model.RecoveryExhaleTenths) / 10
		}
		return 1 - snapshot.TimerValue/total, true
	default:
		return 0, false
	}
}
