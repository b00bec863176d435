// Package input reads raw terminal bytes and reduces them to the game's
// three discrete actions.
package input

import "bufio"

// Input holds the actions seen since the previous frame. Each pressed key
// is reported exactly once, so a drop never double-fires.
type Input struct {
	Activate bool // space or enter: start the game / drop the layer
	Restart  bool // 'r': new round after game over
	Quit     bool // 'q', ctrl-c or ESC
	Any      bool // any byte arrived at all (inactivity tracking)
}

// Stream delivers input bytes from a reader via a channel so the frame
// loop can drain them without blocking.
type Stream struct {
	ch chan byte
}

// StartStream spawns a goroutine that reads from r until EOF.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes (non-blocking) and folds them into
// the frame's input state.
func ReadInput(s *Stream) Input {
	var in Input
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				in.Quit = true
				return in
			}
			in.Any = true
			applyByte(&in, b)
		default:
			return in
		}
	}
}

func applyByte(in *Input, b byte) {
	switch b {
	case ' ', '\n', '\r':
		in.Activate = true
	case 'r', 'R':
		in.Restart = true
	case 'q', 'Q', '\x03', '\x1b':
		in.Quit = true
	}
}
