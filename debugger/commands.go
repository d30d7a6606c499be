package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

// regNames indexes the 15 stored registers by their conventional names;
// r15 (PC) is reported separately since it isn't backed by CPU.R.
var regNames = [...]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "sp", "lr",
}

// Execute runs one REPL-style debugger command line and returns the
// text to display. Grounded on debugger/commands.go's command-dispatch
// shape, narrowed to the handful of verbs spec.md §6 calls for.
func (d *Debugger) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "step", "s":
		return d.cmdStep()
	case "continue", "c":
		return d.cmdContinue()
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "breakpoints", "bl":
		return d.cmdListBreakpoints()
	case "regs", "r":
		return d.cmdRegs()
	case "mem", "m":
		return d.cmdMem(args)
	case "reset":
		d.VM.Reset()
		return "reset to entry point"
	default:
		return fmt.Sprintf("unknown command %q", fields[0])
	}
}

func (d *Debugger) cmdStep() string {
	reason := d.Step()
	switch reason {
	case StopError:
		return fmt.Sprintf("stopped: %v", d.LastError)
	case StopSVC:
		return fmt.Sprintf("svc #%d", d.SVCNumber)
	default:
		return d.DisasmLine(d.VM.CPU.PC)
	}
}

func (d *Debugger) cmdContinue() string {
	reason := d.Run(0)
	switch reason {
	case StopBreakpoint:
		return fmt.Sprintf("breakpoint hit at 0x%08X", d.VM.CPU.PC)
	case StopSVC:
		return fmt.Sprintf("svc #%d", d.SVCNumber)
	case StopError:
		return fmt.Sprintf("stopped: %v", d.LastError)
	default:
		return reason.String()
	}
}

func (d *Debugger) cmdBreak(args []string) string {
	if len(args) != 1 {
		return "usage: break <addr>"
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err.Error()
	}
	bp := d.Breakpoints.AddBreakpoint(addr, false)
	return fmt.Sprintf("breakpoint %d set at 0x%08X", bp.ID, bp.Address)
}

func (d *Debugger) cmdDelete(args []string) string {
	if len(args) != 1 {
		return "usage: delete <id>"
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("bad breakpoint id %q", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("breakpoint %d deleted", id)
}

func (d *Debugger) cmdListBreakpoints() string {
	bps := d.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		return "no breakpoints set"
	}
	var b strings.Builder
	for _, bp := range bps {
		fmt.Fprintf(&b, "#%d 0x%08X enabled=%v hits=%d\n", bp.ID, bp.Address, bp.Enabled, bp.HitCount)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Debugger) cmdRegs() string {
	c := d.VM.CPU
	var b strings.Builder
	for i, name := range regNames {
		fmt.Fprintf(&b, "%-4s 0x%08X\n", name, c.R[i])
	}
	fmt.Fprintf(&b, "pc   0x%08X\n", c.PC)
	fmt.Fprintf(&b, "cpsr N=%v Z=%v C=%v V=%v", c.CPSR.N, c.CPSR.Z, c.CPSR.C, c.CPSR.V)
	return b.String()
}

func (d *Debugger) cmdMem(args []string) string {
	if len(args) < 1 {
		return "usage: mem <addr> [count]"
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err.Error()
	}
	count := uint32(16)
	if len(args) >= 2 {
		n, perr := strconv.ParseUint(args[1], 0, 32)
		if perr != nil {
			return fmt.Sprintf("bad count %q", args[1])
		}
		count = uint32(n)
	}
	data, merr := d.VM.CopyFromMemory(addr, count)
	if merr != nil {
		return merr.Error()
	}
	var b strings.Builder
	for i, by := range data {
		if i%16 == 0 {
			if i != 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "0x%08X: ", addr+uint32(i))
		}
		fmt.Fprintf(&b, "%02X ", by)
	}
	return b.String()
}

func parseAddr(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return uint32(v), nil
}
