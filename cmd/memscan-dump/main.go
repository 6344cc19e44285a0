// Command memscan-dump saves a running process's readable memory to a
// directory, or inspects a previously saved dump.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"memscan/hexdump"
	"memscan/memproc"
	"memscan/procdump"
	"memscan/procfind"
)

func main() {
	pidFlag := flag.Int("pid", 0, "process ID to dump (save mode)")
	outFlag := flag.String("out", "", "output directory (save mode)")
	fromFlag := flag.String("from", "", "dump directory to load (load mode)")
	addrFlag := flag.String("addr", "", "address to hexdump (load mode, hex)")
	sizeFlag := flag.Int("size", 256, "number of bytes to hexdump")
	flag.Parse()

	switch {
	case *outFlag != "":
		runSave(*pidFlag, *outFlag)
	case *fromFlag != "":
		runLoad(*fromFlag, *addrFlag, *sizeFlag)
	default:
		fmt.Fprintln(os.Stderr, "Error: specify --out (save) or --from (load)")
		flag.Usage()
		os.Exit(1)
	}
}

func runSave(pid int, out string) {
	if pid == 0 {
		fmt.Fprintln(os.Stderr, "Error: --pid is required with --out")
		os.Exit(1)
	}
	p, ok := memproc.OpenPID(pid)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error attaching to process %d\n", pid)
		os.Exit(1)
	}
	defer p.Close()

	name := "unknown"
	if info, ok := procfind.ByPID(procfind.PID(pid)); ok {
		name = info.Name
	}

	if err := procdump.Save(p, procdump.Metadata{PID: pid, Name: name}, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving dump: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Dump saved to %s\n", out)
}

func runLoad(from, addrFlag string, size int) {
	dump, err := procdump.Load(from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dump from %s: %v\n", from, err)
		os.Exit(1)
	}

	fmt.Printf("Process: %s (pid %d)\n", dump.Metadata.Name, dump.Metadata.PID)
	regions := dump.Regions()
	fmt.Printf("Regions: %d\n", len(regions))

	if addrFlag == "" {
		for _, r := range regions {
			fmt.Printf("  0x%016x - 0x%016x (%d bytes)\n", r.Base, r.Base+r.Size, r.Size)
		}
		return
	}

	addrStr := strings.TrimPrefix(addrFlag, "0x")
	addrVal, err := strconv.ParseUint(addrStr, 16, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing address: %v\n", err)
		os.Exit(1)
	}

	data := memproc.ReadBytes(dump, uintptr(addrVal), size)
	if data == nil {
		fmt.Fprintf(os.Stderr, "Address 0x%x is not readable in this dump\n", addrVal)
		os.Exit(1)
	}
	fmt.Println(hexdump.HexdumpBasic(data, addrVal, uint(size), regions))
}
