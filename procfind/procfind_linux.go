//go:build linux

package procfind

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func allProcesses() ([]Info, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("procfind: read /proc: %w", err)
	}

	var out []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pidNum, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if info, ok := infoByPID(PID(pidNum)); ok {
			out = append(out, info)
		}
	}
	return out, nil
}

func infoByPID(pid PID) (Info, bool) {
	procPath := fmt.Sprintf("/proc/%d", pid)
	if _, err := os.Stat(procPath); err != nil {
		return Info{}, false
	}

	nameBytes, err := os.ReadFile(filepath.Join(procPath, "comm"))
	if err != nil {
		return Info{}, false
	}
	name := strings.TrimSpace(string(nameBytes))

	exe, _ := os.Readlink(filepath.Join(procPath, "exe"))

	var cmdline []string
	if raw, err := os.ReadFile(filepath.Join(procPath, "cmdline")); err == nil && len(raw) > 0 {
		if raw[len(raw)-1] == 0 {
			raw = raw[:len(raw)-1]
		}
		for _, arg := range bytes.Split(raw, []byte{0}) {
			cmdline = append(cmdline, string(arg))
		}
	}

	info := Info{PID: pid, Name: name, Exe: exe, Cmdline: cmdline}

	if statusBytes, err := os.ReadFile(filepath.Join(procPath, "status")); err == nil {
		for _, line := range strings.Split(string(statusBytes), "\n") {
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch strings.TrimSpace(key) {
			case "PPid":
				if v, err := strconv.Atoi(value); err == nil {
					info.PPID = PID(v)
				}
			case "Threads":
				if v, err := strconv.Atoi(value); err == nil {
					info.Threads = v
				}
			case "VmRSS":
				fields := strings.Fields(value)
				if len(fields) >= 1 {
					if v, err := strconv.ParseUint(fields[0], 10, 64); err == nil {
						if len(fields) > 1 && fields[1] == "kB" {
							v *= 1024
						}
						info.Memory = v
					}
				}
			}
		}
	}

	return info, true
}
