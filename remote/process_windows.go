package remote

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

// LiveProcess reads the memory of a running process through a process handle.
type LiveProcess struct {
	pid    int32
	is64   bool
	handle windows.Handle
}

// highestUserAddress bounds region enumeration.
const highestUserAddress = 0x7FFFFFFEFFFF

// OpenPID opens the process with the given PID for reading.
func OpenPID(pid int32) (*LiveProcess, error) {
	h, err := windows.OpenProcess(windows.PROCESS_VM_READ|windows.PROCESS_QUERY_INFORMATION, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("remote: failed to open pid %d: %w", pid, err)
	}

	var wow64 bool
	if err := windows.IsWow64Process(h, &wow64); err != nil {
		windows.CloseHandle(h)
		return nil, fmt.Errorf("remote: failed to query bitness of pid %d: %w", pid, err)
	}

	hostIs64 := runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64"
	return &LiveProcess{
		pid:    pid,
		is64:   hostIs64 && !wow64,
		handle: h,
	}, nil
}

// ReadMemory implements Reader.
func (p *LiveProcess) ReadMemory(addr uint64, size int) ([]byte, error) {
	if p.handle == 0 {
		return nil, ErrClosed
	}
	if size < 0 {
		return nil, &ReadError{Addr: addr, Size: size, Err: ErrShortRead}
	}
	if size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, size)
	var n uintptr
	if err := windows.ReadProcessMemory(p.handle, uintptr(addr), &buf[0], uintptr(size), &n); err != nil {
		return nil, &ReadError{Addr: addr, Size: size, Err: err}
	}
	if int(n) != size {
		return nil, &ReadError{Addr: addr, Size: size, Err: ErrShortRead}
	}
	return buf, nil
}

// Close implements Process.
func (p *LiveProcess) Close() error {
	if p.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(p.handle)
	p.handle = 0
	return err
}

func (p *LiveProcess) regions() ([]Region, error) {
	if p.handle == 0 {
		return nil, ErrClosed
	}

	var regions []Region
	var info windows.MemoryBasicInformation

	for addr := uintptr(0); addr < highestUserAddress; {
		if err := windows.VirtualQueryEx(p.handle, addr, &info, unsafe.Sizeof(info)); err != nil {
			break
		}
		if info.RegionSize == 0 {
			break
		}

		if info.State == windows.MEM_COMMIT && readable(info.Protect) {
			regions = append(regions, Region{Base: uint64(info.BaseAddress), Size: uint64(info.RegionSize)})
		}
		addr = info.BaseAddress + info.RegionSize
	}

	return regions, nil
}

func readable(protect uint32) bool {
	if protect&(windows.PAGE_NOACCESS|windows.PAGE_GUARD) != 0 {
		return false
	}
	return protect != 0
}
