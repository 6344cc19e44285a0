// Command example walks through the basic pipeline for reading a live
// value out of a named process: reopen-by-name daemon, signature scan,
// then a short pointer-offset chain.
package main

import (
	"fmt"
	"time"

	"memscan/daemon"
	"memscan/memproc"
	"memscan/offsets"
	"memscan/pattern"
	"memscan/signature"
)

var sigRulesets = signature.New(pattern.MustCompile("7D 15 A1 ?? ?? ?? ?? 85 C0"))

var offsetsRuleset = offsets.New[uintptr](memproc.Width32, -0xB, 0x4)
var offsetsCombo = offsets.New[uint16](memproc.Width32, 0x68, 0x38, 0x94)

func getCombo(d *daemon.SingleProcessDaemon) (uint16, bool) {
	base, ok := sigRulesets.Scan(d)
	if !ok {
		return 0, false
	}
	ruleset, ok := offsetsRuleset.Read(d, base)
	if !ok {
		return 0, false
	}
	return offsetsCombo.Read(d, ruleset)
}

func main() {
	d := daemon.New("osu!.exe")
	defer d.Close()

	for i := 0; i < 300; i++ {
		if combo, ok := getCombo(d); ok {
			fmt.Println(combo)
		} else {
			fmt.Println("Fail to read combo.")
		}
		time.Sleep(200 * time.Millisecond)
	}
}
