//go:build !unix

package logging

import "errors"

var errIdentityUnsupported = errors.New("descriptor identity not supported on this platform")

type unsupportedProber struct{}

func (unsupportedProber) Identity(uintptr) (Identity, error) {
	return Identity{}, errIdentityUnsupported
}

// SystemProber returns a prober that always fails, so journal detection
// reports "not connected".
func SystemProber() IdentityProber {
	return unsupportedProber{}
}
