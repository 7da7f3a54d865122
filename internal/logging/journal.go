package logging

import (
	"strconv"
	"strings"
)

// JournalStreamEnv is set by systemd to the device:inode of the stream it
// connected to a service's stdout/stderr.
const JournalStreamEnv = "JOURNAL_STREAM"

// Identity is the operating-system identity of an open file or pipe.
type Identity struct {
	Device uint64
	Inode  uint64
}

func (id Identity) String() string {
	return strconv.FormatUint(id.Device, 10) + ":" + strconv.FormatUint(id.Inode, 10)
}

// IdentityProber reports the identity of an open file descriptor.
type IdentityProber interface {
	Identity(fd uintptr) (Identity, error)
}

// IdentityFunc adapts a function to IdentityProber.
type IdentityFunc func(fd uintptr) (Identity, error)

func (f IdentityFunc) Identity(fd uintptr) (Identity, error) { return f(fd) }

// ParseJournalStream parses a "<device>:<inode>" hint. Anything other than
// two base-10 unsigned integers separated by a single colon is rejected.
func ParseJournalStream(value string) (Identity, bool) {
	dev, ino, ok := strings.Cut(value, ":")
	if !ok || strings.Contains(ino, ":") {
		return Identity{}, false
	}
	device, err := strconv.ParseUint(dev, 10, 64)
	if err != nil {
		return Identity{}, false
	}
	inode, err := strconv.ParseUint(ino, 10, 64)
	if err != nil {
		return Identity{}, false
	}
	return Identity{Device: device, Inode: inode}, true
}

// journalConnected reports whether fd is the stream named by hint. Every
// failure along the way means "not connected".
func journalConnected(hint string, prober IdentityProber, fd uintptr) bool {
	want, ok := ParseJournalStream(hint)
	if !ok || prober == nil {
		return false
	}
	got, err := prober.Identity(fd)
	if err != nil {
		return false
	}
	return got == want
}
