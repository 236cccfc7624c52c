//go:build !windows && !linux

package remote

// LiveProcess is unavailable on this platform.
type LiveProcess struct {
	pid  int32
	is64 bool
}

// OpenPID always fails with ErrUnsupportedPlatform.
func OpenPID(pid int32) (*LiveProcess, error) {
	return nil, ErrUnsupportedPlatform
}

// ReadMemory implements Reader.
func (p *LiveProcess) ReadMemory(addr uint64, size int) ([]byte, error) {
	return nil, ErrUnsupportedPlatform
}

// Close implements Process.
func (p *LiveProcess) Close() error { return nil }

func (p *LiveProcess) regions() ([]Region, error) {
	return nil, ErrUnsupportedPlatform
}
