package remote

import (
	"bufio"
	"debug/elf"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// LiveProcess reads the memory of a running process with process_vm_readv.
type LiveProcess struct {
	pid    int32
	is64   bool
	closed bool
}

// OpenPID opens the process with the given PID for reading.
// Bitness comes from the ELF class of the process executable.
func OpenPID(pid int32) (*LiveProcess, error) {
	exe := fmt.Sprintf("/proc/%d/exe", pid)
	f, err := elf.Open(exe)
	if err != nil {
		return nil, fmt.Errorf("remote: failed to open pid %d: %w", pid, err)
	}
	defer f.Close()

	return &LiveProcess{
		pid:  pid,
		is64: f.Class == elf.ELFCLASS64,
	}, nil
}

// ReadMemory implements Reader.
func (p *LiveProcess) ReadMemory(addr uint64, size int) ([]byte, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if size < 0 {
		return nil, &ReadError{Addr: addr, Size: size, Err: ErrShortRead}
	}
	if size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, size)
	local := []unix.Iovec{{Base: (*byte)(unsafe.Pointer(&buf[0]))}}
	local[0].SetLen(size)
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: size}}

	n, err := unix.ProcessVMReadv(int(p.pid), local, remote, 0)
	if err != nil {
		return nil, &ReadError{Addr: addr, Size: size, Err: err}
	}
	if n != size {
		return nil, &ReadError{Addr: addr, Size: size, Err: ErrShortRead}
	}
	return buf, nil
}

// Close implements Process.
func (p *LiveProcess) Close() error {
	p.closed = true
	return nil
}

// regions parses /proc/<pid>/maps and keeps the readable mappings.
func (p *LiveProcess) regions() ([]Region, error) {
	if p.closed {
		return nil, ErrClosed
	}

	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", p.pid))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var regions []Region
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || !strings.HasPrefix(fields[1], "r") {
			continue
		}
		lo, hi, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}
		start, err1 := strconv.ParseUint(lo, 16, 64)
		end, err2 := strconv.ParseUint(hi, 16, 64)
		if err1 != nil || err2 != nil || end <= start {
			continue
		}
		regions = append(regions, Region{Base: start, Size: end - start})
	}

	return regions, sc.Err()
}
