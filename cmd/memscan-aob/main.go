// Command memscan-aob attaches to a running process by PID and scans its
// executable regions for a masked byte pattern, dumping the bytes around
// the first match.
package main

import (
	"flag"
	"fmt"
	"os"

	"memscan/hexdump"
	"memscan/memproc"
	"memscan/pattern"
	"memscan/signature"
)

func main() {
	pidFlag := flag.Int("pid", 0, "process ID to attach to")
	aobFlag := flag.String("aob", "", "pattern to scan for, e.g. '11 45 14 ??'")
	contextFlag := flag.Int("context", 32, "bytes of context to show around the match")
	flag.Parse()

	if *pidFlag == 0 {
		fmt.Fprintln(os.Stderr, "Error: --pid is required")
		flag.Usage()
		os.Exit(1)
	}
	if *aobFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: --aob is required")
		flag.Usage()
		os.Exit(1)
	}

	p, ok := memproc.OpenPID(*pidFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error attaching to process %d\n", *pidFlag)
		os.Exit(1)
	}
	defer p.Close()

	dp, err := pattern.New(*aobFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing pattern: %v\n", err)
		os.Exit(1)
	}

	sig := signature.NewDynamic(dp)
	addr, ok := sig.Scan(p)
	if !ok {
		fmt.Println("Pattern not found.")
		return
	}
	fmt.Printf("Found at 0x%x\n", addr)

	start := addr
	if uintptr(*contextFlag) < addr {
		start = addr - uintptr(*contextFlag)
	}
	data := memproc.ReadBytes(p, start, *contextFlag*2)
	if data == nil {
		return
	}
	fmt.Println(hexdump.HexdumpBasic(data, uint64(start), uint(len(data)), p.Regions()))
}
