package remote

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/skdltmxn/wiztype/internal/logflags"
)

// Open attaches to the first running process whose executable name is name.
// The comparison ignores case and any directory component.
func Open(name string) (*LiveProcess, error) {
	pid, err := FindProcess(name)
	if err != nil {
		return nil, err
	}
	return OpenPID(pid)
}

// FindProcess returns the PID of the first running process named name.
func FindProcess(name string) (int32, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, fmt.Errorf("remote: failed to list processes: %w", err)
	}

	want := filepath.Base(name)
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(pname, want) {
			logflags.RemoteLogger().Debugf("found %s as pid %d", pname, p.Pid)
			return p.Pid, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrProcessNotFound, name)
}

// Pid returns the operating system process ID.
func (p *LiveProcess) Pid() int32 { return p.pid }

// Is64Bit implements Reader.
func (p *LiveProcess) Is64Bit() bool { return p.is64 }

// Scan implements Process by searching every readable region of the target.
func (p *LiveProcess) Scan(pat *Pattern) ([]uint64, error) {
	regions, err := p.regions()
	if err != nil {
		return nil, fmt.Errorf("remote: failed to enumerate regions of pid %d: %w", p.pid, err)
	}
	logflags.RemoteLogger().Debugf("scanning %d regions for %s", len(regions), pat)
	return scanRegions(p, regions, pat)
}

var (
	_ Process = (*LiveProcess)(nil)
	_ Process = (*Image)(nil)
)
