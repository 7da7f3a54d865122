package logging

import (
	"os"

	"github.com/mattn/go-isatty"
)

// FilterEnv overrides the caller's default filter when set to a valid filter.
const FilterEnv = "LOG_FILTER"

// Environment carries the signals used to configure logging. The real entry
// point fills it with DetectEnvironment; tests construct it directly.
type Environment struct {
	// Filter is the override filter; empty means absent.
	Filter string
	// JournalStream is the raw JOURNAL_STREAM hint; empty means absent.
	JournalStream string
	// Terminal reports whether the output descriptor is interactive.
	Terminal bool
	// Descriptor is the output file descriptor handed to Prober.
	Descriptor uintptr
	// Prober resolves Descriptor's identity. Nil disables journal detection.
	Prober IdentityProber
}

// DetectEnvironment reads the process environment and inspects f, normally
// os.Stderr. It must run before anything reopens or redirects f.
func DetectEnvironment(f *os.File) Environment {
	fd := f.Fd()
	return Environment{
		Filter:        os.Getenv(FilterEnv),
		JournalStream: os.Getenv(JournalStreamEnv),
		Terminal:      isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		Descriptor:    fd,
		Prober:        SystemProber(),
	}
}

// JournalConnected reports whether the descriptor is the journal stream.
func (e Environment) JournalConnected() bool {
	return journalConnected(e.JournalStream, e.Prober, e.Descriptor)
}

// ResolveFilter returns the override filter when it parses, otherwise the
// parsed defaultLevel.
func (e Environment) ResolveFilter(defaultLevel string) (*Filter, error) {
	if e.Filter != "" {
		if f, err := ParseFilter(e.Filter); err == nil {
			return f, nil
		}
	}
	return ParseFilter(defaultLevel)
}
