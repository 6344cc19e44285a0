//go:build linux

package memproc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// processImplLinux regards the PID as the OS handle and keeps the
// process start time (from /proc/<pid>/stat field 22, in clock ticks
// since boot) as the restart discriminator, exactly as
// https://stackoverflow.com/a/62882645 describes.
type processImplLinux struct {
	pid       int
	startTime uint64
}

func readStartTime(pid int) (uint64, bool) {
	if pid <= 0 {
		return 0, false
	}
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0, false
	}
	line := string(data)
	// comm (field 2) is parenthesized and may itself contain spaces or
	// parentheses; skip past the last ')' before splitting by
	// whitespace so field indices stay correct regardless of its
	// contents.
	close := strings.LastIndexByte(line, ')')
	if close < 0 {
		return 0, false
	}
	rest := strings.Fields(line[close+1:])
	// rest[0] is field 3 (state); field 22 is rest[22-3] = rest[19].
	const startTimeRestIndex = 19
	if len(rest) <= startTimeRestIndex {
		return 0, false
	}
	v, err := strconv.ParseUint(rest[startTimeRestIndex], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func openImplByPID(pid int) (processImpl, bool) {
	st, ok := readStartTime(pid)
	if !ok {
		return nil, false
	}
	return &processImplLinux{pid: pid, startTime: st}, true
}

func findPIDByName(name string) (int, bool) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		exe, err := filepath.EvalSymlinks(fmt.Sprintf("/proc/%d/exe", pid))
		if err != nil {
			continue
		}
		if filepath.Base(exe) == name {
			return pid, true
		}
	}
	return 0, false
}

func (p *processImplLinux) readToBuf(addr uintptr, buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	local := []unix.Iovec{{Base: &buf[0], Len: uint64(len(buf))}}
	remote := []unix.RemoteIovec{{Base: addr, Len: len(buf)}}
	n, err := unix.ProcessVMReadv(p.pid, local, remote, 0)
	if err != nil {
		return false
	}
	return n == len(buf)
}

func (p *processImplLinux) regions() []Region {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/maps", p.pid))
	if err != nil {
		return nil
	}
	var out []Region
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		bounds := strings.SplitN(fields[0], "-", 2)
		if len(bounds) != 2 {
			continue
		}
		start, err1 := strconv.ParseUint(bounds[0], 16, 64)
		end, err2 := strconv.ParseUint(bounds[1], 16, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		perms := fields[1]
		if len(perms) >= 3 && perms[0] == 'r' && perms[2] == 'x' {
			out = append(out, Region{Base: uintptr(start), Size: uintptr(end - start)})
		}
	}
	return out
}

func (p *processImplLinux) stillAlive() bool {
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", p.pid)); err != nil {
		return false
	}
	st, ok := readStartTime(p.pid)
	return ok && st == p.startTime
}

func (p *processImplLinux) reset() {
	p.pid = 0
	p.startTime = 0
}
