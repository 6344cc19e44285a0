//go:build windows

package memproc

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// processImplWindows regards the process handle as the OS resource.
// Liveness is probed with GetExitCodeProcess on that handle, which keeps
// referring to the process opened even if its PID is later reused; the
// creation time is recorded at open but is not compared afterwards.
type processImplWindows struct {
	pid          uint32
	handle       windows.Handle
	creationTime windows.Filetime
}

const processQueryAndReadAccess = windows.SYNCHRONIZE | windows.PROCESS_QUERY_LIMITED_INFORMATION | windows.PROCESS_VM_READ

func openImplByPID(pid int) (processImpl, bool) {
	h, err := windows.OpenProcess(processQueryAndReadAccess, false, uint32(pid))
	if err != nil {
		return nil, false
	}
	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(h, &creation, &exit, &kernel, &user); err != nil {
		windows.CloseHandle(h)
		return nil, false
	}
	return &processImplWindows{pid: uint32(pid), handle: h, creationTime: creation}, true
}

// findPIDByName walks a process snapshot looking for the first entry
// whose image name matches name (case-sensitive, as reported by the
// toolhelp snapshot).
func findPIDByName(name string) (int, bool) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, false
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	err = windows.Process32First(snap, &entry)
	for err == nil {
		exeName := windows.UTF16ToString(entry.ExeFile[:])
		if exeName == name {
			return int(entry.ProcessID), true
		}
		err = windows.Process32Next(snap, &entry)
	}
	return 0, false
}

func (p *processImplWindows) readToBuf(addr uintptr, buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	var read uintptr
	err := windows.ReadProcessMemory(p.handle, addr, &buf[0], uintptr(len(buf)), &read)
	return err == nil && read == uintptr(len(buf))
}

func (p *processImplWindows) regions() []Region {
	var out []Region
	addr := uintptr(0)
	for {
		var info windows.MemoryBasicInformation
		err := windows.VirtualQueryEx(p.handle, addr, &info, unsafe.Sizeof(info))
		if err != nil {
			break
		}
		const memCommit = 0x1000
		const pageExecuteRead = 0x20
		const pageExecuteReadWrite = 0x40
		const pageExecuteWriteCopy = 0x80
		const executableReadable = pageExecuteRead | pageExecuteReadWrite | pageExecuteWriteCopy
		readable := info.State == memCommit && info.Protect&executableReadable != 0
		if readable && info.RegionSize > 0 {
			out = append(out, Region{Base: info.BaseAddress, Size: info.RegionSize})
		}
		next := info.BaseAddress + info.RegionSize
		if next <= addr {
			break
		}
		addr = next
	}
	return out
}

func (p *processImplWindows) stillAlive() bool {
	if p.handle == 0 {
		return false
	}
	const stillActive = 259
	var code uint32
	if err := windows.GetExitCodeProcess(p.handle, &code); err != nil {
		return false
	}
	return code == stillActive
}

func (p *processImplWindows) reset() {
	if p.handle != 0 {
		windows.CloseHandle(p.handle)
		p.handle = 0
	}
	p.pid = 0
}
