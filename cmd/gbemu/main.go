package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dmgcore/gbcore/internal/gameboy"
	"github.com/dmgcore/gbcore/internal/ui"
	"github.com/urfave/cli"
)

// memRange is a parsed START:END memory-dump range, inclusive on both ends.
type memRange struct {
	start, end uint16
}

// parseMemRange accepts "START:END" where each endpoint is prefix-detected
// as hex (0x…), binary (0b…), or decimal. It rejects start > end and
// endpoints beyond the 16-bit address space.
func parseMemRange(s string) (memRange, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return memRange{}, fmt.Errorf("dump range %q: expected START:END", s)
	}
	start, err := parseAddr(parts[0])
	if err != nil {
		return memRange{}, fmt.Errorf("dump range %q: start: %w", s, err)
	}
	end, err := parseAddr(parts[1])
	if err != nil {
		return memRange{}, fmt.Errorf("dump range %q: end: %w", s, err)
	}
	if start > end {
		return memRange{}, fmt.Errorf("dump range %q: start exceeds end", s)
	}
	return memRange{start: start, end: end}, nil
}

func parseAddr(s string) (uint16, error) {
	var v uint64
	var err error
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 32)
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		v, err = strconv.ParseUint(s[2:], 2, 32)
	default:
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, err
	}
	if v > 0xFFFF {
		return 0, fmt.Errorf("address %#x exceeds 0xFFFF", v)
	}
	return uint16(v), nil
}

func dumpMemory(m *gameboy.Machine, r memRange) {
	for addr := uint32(r.start); addr <= uint32(r.end); addr++ {
		if addr%16 == 0 {
			fmt.Printf("\n%04X: ", addr)
		}
		fmt.Printf("%02X ", m.Bus().Read(uint16(addr)))
	}
	fmt.Println()
}

func main() {
	app := cli.NewApp()
	app.Name = "gbemu"
	app.Usage = "DMG-class Game Boy core host"
	app.ArgsUsage = "ROM"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "instructions", Usage: "stop after N CPU instructions (0 = no limit beyond a 100,000,000-instruction cap; ignored with --display)"},
		cli.StringSliceFlag{Name: "dump", Usage: "memory range START:END (hex 0x…, binary 0b…, or decimal) to print on exit"},
		cli.BoolFlag{Name: "display", Usage: "open a graphical window instead of running headless"},
		cli.BoolFlag{Name: "debug", Usage: "attach the interactive step debugger instead of free-running"},
		cli.IntFlag{Name: "scale", Value: 3, Usage: "window scale (with --display)"},
		cli.StringFlag{Name: "savefile", Usage: "path to persist battery RAM (defaults to ROM path + .sav)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("a ROM path is required", 1)
	}
	romPath := c.Args().Get(0)

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("read ROM: %v", err), 1)
	}

	m := gameboy.New()
	if err := m.LoadROM(rom); err != nil {
		return cli.NewExitError(fmt.Sprintf("load ROM: %v", err), 1)
	}

	savePath := c.String("savefile")
	if savePath == "" {
		savePath = romPath + ".sav"
	}
	if data, err := os.ReadFile(savePath); err == nil {
		m.LoadRAM(data)
	}

	var ranges []memRange
	for _, spec := range c.StringSlice("dump") {
		r, err := parseMemRange(spec)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		ranges = append(ranges, r)
	}

	if c.Bool("debug") {
		if err := ui.RunDebugger(m, romPath); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return nil
	}

	if c.Bool("display") {
		app := ui.NewApp(ui.Config{Scale: c.Int("scale")}, m, romPath)
		if err := app.Run(); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	} else {
		limit := c.Int("instructions")
		for limit <= 0 || m.InstructionCount() < uint64(limit) {
			m.Step()
			if limit <= 0 && m.InstructionCount() > 100_000_000 {
				break // runaway guard for unbounded headless runs with no ROM-driven halt
			}
		}
	}

	for _, r := range ranges {
		dumpMemory(m, r)
	}

	if save := m.SaveRAM(); len(save) > 0 {
		_ = os.WriteFile(savePath, save, 0o644)
	}
	return nil
}
