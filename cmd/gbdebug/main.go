// gbdebug is a standalone entry point into the bubbletea step debugger,
// for attaching to a ROM directly rather than via gbemu's --debug flag.
package main

import (
	"fmt"
	"os"

	"github.com/dmgcore/gbcore/internal/gameboy"
	"github.com/dmgcore/gbcore/internal/ui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gbdebug ROM")
		os.Exit(1)
	}
	romPath := os.Args[1]

	rom, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read ROM: %v\n", err)
		os.Exit(1)
	}

	m := gameboy.New()
	if err := m.LoadROM(rom); err != nil {
		fmt.Fprintf(os.Stderr, "load ROM: %v\n", err)
		os.Exit(1)
	}

	if err := ui.RunDebugger(m, romPath); err != nil {
		fmt.Fprintf(os.Stderr, "debugger: %v\n", err)
		os.Exit(1)
	}
}
