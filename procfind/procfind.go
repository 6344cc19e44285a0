// Package procfind enumerates processes on the local machine by PID,
// name, name pattern, or command-line content, and builds parent/child
// relationships from the result. It is a read-only discovery helper that
// works independently of memproc.Process; memproc does not use it.
package procfind

import (
	"fmt"
	"regexp"
)

// PID identifies a process; kept as a distinct type rather than a bare
// int so a PID can't be silently passed where some other integer is
// expected.
type PID int

// Info is a snapshot of one process's identity and resource usage at
// enumeration time.
type Info struct {
	PID     PID
	PPID    PID
	Name    string
	Exe     string
	Cmdline []string
	Threads int
	Memory  uint64 // resident set size, in bytes; 0 if unavailable
}

// TreeNode is one node of a process tree built by Tree.
type TreeNode struct {
	Info     Info
	Children []*TreeNode
}

// ByPID looks up a single process. ok is false if the process does not
// exist or its information could not be read.
func ByPID(pid PID) (Info, bool) {
	return infoByPID(pid)
}

// ByName returns processes whose name exactly matches name.
func ByName(name string) ([]Info, error) {
	return byNamePattern("^" + regexp.QuoteMeta(name) + "$")
}

// ByNamePattern returns processes whose name matches the given regular
// expression.
func ByNamePattern(pattern string) ([]Info, error) {
	return byNamePattern(pattern)
}

// All returns every process currently visible to the caller.
func All() ([]Info, error) {
	return allProcesses()
}

func byNamePattern(pattern string) ([]Info, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("procfind: invalid pattern: %w", err)
	}
	all, err := allProcesses()
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, p := range all {
		if re.MatchString(p.Name) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ByCommandLine returns processes with an argument exactly equal to arg.
func ByCommandLine(arg string) ([]Info, error) {
	return byCommandLinePattern("^" + regexp.QuoteMeta(arg) + "$")
}

// ByCommandLinePattern returns processes with at least one argument
// matching the given regular expression.
func ByCommandLinePattern(pattern string) ([]Info, error) {
	return byCommandLinePattern(pattern)
}

func byCommandLinePattern(pattern string) ([]Info, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("procfind: invalid pattern: %w", err)
	}
	all, err := allProcesses()
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, p := range all {
		for _, arg := range p.Cmdline {
			if re.MatchString(arg) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// Children returns the direct children of parent.
func Children(parent PID) ([]Info, error) {
	all, err := allProcesses()
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, p := range all {
		if p.PPID == parent {
			out = append(out, p)
		}
	}
	return out, nil
}

// Descendants returns every process reachable from root by following
// child links, in breadth-first order.
func Descendants(root PID) ([]Info, error) {
	all, err := allProcesses()
	if err != nil {
		return nil, err
	}

	children := make(map[PID][]PID)
	byPID := make(map[PID]Info, len(all))
	for _, p := range all {
		byPID[p.PID] = p
		children[p.PPID] = append(children[p.PPID], p.PID)
	}

	var out []Info
	visited := make(map[PID]bool)
	queue := append([]PID(nil), children[root]...)
	for len(queue) > 0 {
		pid := queue[0]
		queue = queue[1:]
		if visited[pid] {
			continue
		}
		visited[pid] = true
		if p, ok := byPID[pid]; ok {
			out = append(out, p)
			queue = append(queue, children[pid]...)
		}
	}
	return out, nil
}

// Tree builds the process tree rooted at root.
func Tree(root PID) (*TreeNode, error) {
	rootInfo, ok := infoByPID(root)
	if !ok {
		return nil, fmt.Errorf("procfind: no such process %d", root)
	}
	all, err := allProcesses()
	if err != nil {
		return nil, err
	}

	children := make(map[PID][]PID)
	byPID := make(map[PID]Info, len(all))
	for _, p := range all {
		byPID[p.PID] = p
		children[p.PPID] = append(children[p.PPID], p.PID)
	}
	return buildTree(rootInfo, children, byPID), nil
}

func buildTree(info Info, children map[PID][]PID, byPID map[PID]Info) *TreeNode {
	node := &TreeNode{Info: info}
	for _, childPID := range children[info.PID] {
		if child, ok := byPID[childPID]; ok {
			node.Children = append(node.Children, buildTree(child, children, byPID))
		}
	}
	return node
}
