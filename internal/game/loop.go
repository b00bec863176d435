package game

import (
	"bufio"
	"io"
	"time"

	"towerstack/internal/input"
	"towerstack/internal/render"
	"towerstack/internal/score"
)

// Max render resolution. Larger terminals get a centered play area so frame
// output stays bounded over slow SSH links.
const (
	maxTermWidth  = 120
	maxTermHeight = 60
)

// Options configures a frame loop.
type Options struct {
	TermSizeFunc render.TermSizeFunc
	Username     string
	Scores       *score.Store  // may be nil: the game runs without a leaderboard
	IdleTimeout  time.Duration // 0 disables the inactivity disconnect
}

// Loop drives one session: input, simulation step, rendering and pacing.
type Loop struct {
	session      *Session
	canvas       *render.Canvas
	writer       *render.ChunkWriter
	stream       *input.Stream
	out          io.Writer
	termSizeFunc render.TermSizeFunc

	scores      *score.Store
	username    string
	idleTimeout time.Duration

	lastInput time.Time
	prevState State
	saved     bool          // score persisted for the current round
	board     []score.Entry // leaderboard shown on the game-over screen
	running   bool
}

// NewLoop creates a loop for the session, reading input from r and writing
// frames to w.
func NewLoop(session *Session, r *bufio.Reader, w io.Writer, opts Options) *Loop {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = render.DefaultTermSizeFunc
	}

	t := session.Tuning()
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	canvas := render.NewCanvas(renderWidth, renderHeight, t.ViewWidth, t.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Loop{
		session:      session,
		canvas:       canvas,
		writer:       render.NewChunkWriter(w, offsetCol, offsetRow),
		stream:       input.StartStream(r),
		out:          w,
		termSizeFunc: termSizeFunc,
		scores:       opts.Scores,
		username:     opts.Username,
		idleTimeout:  opts.IdleTimeout,
		running:      true,
	}
}

// Run blocks until the player quits, the input stream closes or the idle
// timeout fires.
func (l *Loop) Run() error {
	render.HideCursor(l.out)
	defer render.ShowCursor(l.out)
	render.ClearScreen(l.out)

	targetFrameTime := time.Second / time.Duration(l.session.Tuning().TargetFPS)
	lastTime := time.Now()
	l.lastInput = lastTime

	for l.running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		l.processInput()
		l.updateScreen()
		l.session.Step(float64(delta) / float64(time.Millisecond))
		l.recordGameOver()

		if err := l.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}

	render.ClearScreen(l.out)
	return nil
}

// processInput drains this frame's input and applies the game actions.
func (l *Loop) processInput() {
	in := input.ReadInput(l.stream)

	if in.Any {
		l.lastInput = time.Now()
	} else if l.idleTimeout > 0 && time.Since(l.lastInput) > l.idleTimeout {
		l.running = false
		return
	}

	if in.Quit {
		l.running = false
		return
	}
	if in.Activate {
		l.session.OnActivate()
	}
	if in.Restart && l.session.State() == StateGameOver {
		l.session.Reset()
		l.saved = false
		l.board = nil
	}
}

// recordGameOver persists the finished round once and fetches the board.
func (l *Loop) recordGameOver() {
	if l.session.State() != StateGameOver || l.saved {
		return
	}
	l.saved = true
	if err := l.scores.Add(l.username, l.session.Score()); err != nil {
		return
	}
	l.board, _ = l.scores.Top(leaderboardSize)
}

// updateScreen handles terminal resize, clamping to the max render
// resolution and recentering. On an actual change the terminal is cleared
// to drop residual cells outside the new canvas area.
func (l *Loop) updateScreen() {
	termWidth, termHeight, err := l.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != l.canvas.TerminalWidth() || renderHeight != l.canvas.TerminalHeight() ||
		offsetCol != l.canvas.OffsetCol() || offsetRow != l.canvas.OffsetRow() {
		render.ClearScreen(l.out)
		l.canvas.ForceRedraw()
	}

	l.canvas.Resize(renderWidth, renderHeight)
	l.canvas.SetOffset(offsetCol, offsetRow)
	l.writer.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and
// computes the centering offset.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > maxTermWidth {
		renderWidth = maxTermWidth
	}
	if renderHeight > maxTermHeight {
		renderHeight = maxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return renderWidth, renderHeight, offsetCol, offsetRow
}

// drawFrame renders the scene and the state overlay.
func (l *Loop) drawFrame() error {
	// Full clear on state transitions so overlay text from the previous
	// state does not persist.
	if l.session.State() != l.prevState {
		l.writer.WriteString("\033[H\033[2J")
		l.canvas.ForceRedraw()
		l.prevState = l.session.State()
	}

	l.canvas.Clear()
	l.session.Scene().Render(l.canvas)
	l.canvas.Flush(l.writer)

	switch l.session.State() {
	case StateAwaitingStart:
		l.drawTitleScreen()
	case StateDropping:
		l.drawHUD()
	case StateGameOver:
		l.drawGameOverScreen()
	}

	return l.writer.Flush()
}
