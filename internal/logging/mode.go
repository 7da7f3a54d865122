package logging

// Mode is the output shape chosen for the process.
type Mode int

const (
	// ModePlain writes timestamps without color, e.g. when redirected to a file.
	ModePlain Mode = iota
	// ModeTerminal writes timestamps and ANSI color.
	ModeTerminal
	// ModeJournal omits timestamps and color; the journal adds its own.
	ModeJournal
)

func (m Mode) String() string {
	switch m {
	case ModeTerminal:
		return "terminal"
	case ModeJournal:
		return "journal"
	default:
		return "plain"
	}
}

// Timestamps reports whether lines carry an embedded timestamp.
func (m Mode) Timestamps() bool {
	return m != ModeJournal
}

// Color reports whether lines carry ANSI color.
func (m Mode) Color() bool {
	return m == ModeTerminal
}

// SelectMode picks the output mode. Journal attachment wins over the
// terminal check.
func SelectMode(env Environment) Mode {
	switch {
	case env.JournalConnected():
		return ModeJournal
	case env.Terminal:
		return ModeTerminal
	default:
		return ModePlain
	}
}
