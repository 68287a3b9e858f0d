package renderer

type CommandType uint8

const (
	CommandClearColor CommandType = iota
	CommandClearDepth
)

func (t CommandType) String() string {
	switch t {
	case CommandClearColor:
		return "clear_color"
	case CommandClearDepth:
		return "clear_depth"
	}
	return "unknown"
}

// Command is one recorded operation. Only the field matching Type is set.
type Command struct {
	Type  CommandType
	Color ColorTarget
	Depth DepthTarget
	RGBA  [4]float32
	Value float32
}

// Encoder records commands for a backend to replay on Flush. It is lent to
// the application during Render and must not be retained.
type Encoder struct {
	factory  Factory
	commands []Command
}

func NewEncoder(factory Factory) *Encoder {
	return &Encoder{
		factory:  factory,
		commands: make([]Command, 0, 8),
	}
}

func (e *Encoder) Factory() Factory {
	return e.factory
}

func (e *Encoder) ClearColor(target ColorTarget, rgba [4]float32) {
	e.commands = append(e.commands, Command{Type: CommandClearColor, Color: target, RGBA: rgba})
}

func (e *Encoder) ClearDepth(target DepthTarget, depth float32) {
	e.commands = append(e.commands, Command{Type: CommandClearDepth, Depth: target, Value: depth})
}

// Commands returns the recorded commands in order. The slice is only valid
// until Reset.
func (e *Encoder) Commands() []Command {
	return e.commands
}

func (e *Encoder) Len() int {
	return len(e.commands)
}

// Reset drops the recorded commands and keeps the buffer.
func (e *Encoder) Reset() {
	clear(e.commands)
	e.commands = e.commands[:0]
}

// LastClears returns the final clear color and depth recorded for the frame,
// which is all that tile-based and render-pass APIs need.
func (e *Encoder) LastClears() (rgba [4]float32, hasColor bool, depth float32, hasDepth bool) {
	for _, c := range e.commands {
		switch c.Type {
		case CommandClearColor:
			rgba, hasColor = c.RGBA, true
		case CommandClearDepth:
			depth, hasDepth = c.Value, true
		}
	}
	return
}
