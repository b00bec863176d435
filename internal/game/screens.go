package game

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// leaderboardSize is how many entries the game-over screen shows.
const leaderboardSize = 5

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	scoreStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	overStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	boardStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// writeCentered writes a styled line centered on the given terminal row.
func (l *Loop) writeCentered(row int, style lipgloss.Style, text string) {
	col := l.canvas.TerminalWidth()/2 - len(text)/2
	if col < 1 {
		col = 1
	}
	l.writer.WriteAt(col, row, style.Render(text))
}

func (l *Loop) drawTitleScreen() {
	centerY := l.canvas.TerminalHeight() / 2
	l.writeCentered(centerY-2, titleStyle, "T O W E R S T A C K")
	l.writeCentered(centerY, promptStyle, "stack the blocks as high as you can")
	l.writeCentered(centerY+2, promptStyle, "[space] drop   [q] quit")
}

func (l *Loop) drawHUD() {
	l.writer.WriteAt(2, 1, scoreStyle.Render(fmt.Sprintf("height %d", l.session.Score())))
}

func (l *Loop) drawGameOverScreen() {
	centerY := l.canvas.TerminalHeight() / 2
	row := centerY - 4 - len(l.board)/2

	l.writeCentered(row, overStyle, "G A M E   O V E R")
	row += 2
	l.writeCentered(row, scoreStyle, fmt.Sprintf("final height: %d", l.session.Score()))
	row += 2

	if len(l.board) > 0 {
		l.writeCentered(row, promptStyle, "--- top towers ---")
		row++
		for i, e := range l.board {
			name := e.Name
			if len(name) > 16 {
				name = name[:16]
			}
			l.writeCentered(row, boardStyle, fmt.Sprintf("%d. %-16s %4d", i+1, name, e.Height))
			row++
		}
		row++
	}

	l.writeCentered(row, promptStyle, "[r] restart   [q] quit")
}
