//go:build windows

package procfind

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// allProcesses walks a toolhelp snapshot. Command-line arguments are not
// populated: reading another process's PEB/argv on Windows needs a
// separate open-process-memory step per entry, which belongs in memproc
// rather than this enumeration helper, so Cmdline is left empty here.
func allProcesses() ([]Info, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("procfind: create snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	var out []Info
	err = windows.Process32First(snap, &entry)
	for err == nil {
		out = append(out, infoFromEntry(entry))
		err = windows.Process32Next(snap, &entry)
	}
	return out, nil
}

func infoFromEntry(entry windows.ProcessEntry32) Info {
	return Info{
		PID:     PID(entry.ProcessID),
		PPID:    PID(entry.ParentProcessID),
		Name:    windows.UTF16ToString(entry.ExeFile[:]),
		Threads: int(entry.Threads),
	}
}

func infoByPID(pid PID) (Info, bool) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return Info{}, false
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	err = windows.Process32First(snap, &entry)
	for err == nil {
		if PID(entry.ProcessID) == pid {
			return infoFromEntry(entry), true
		}
		err = windows.Process32Next(snap, &entry)
	}
	return Info{}, false
}
