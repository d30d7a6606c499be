// Package debugger wraps a *vm.VM with breakpoints and a step/continue
// control loop. Grounded on debugger/debugger.go's Debugger struct and
// Run/Step contract, narrowed to spec.md §6's diagnostics surface: no
// expression watchpoints or command history, just address breakpoints
// and single-instruction stepping.
package debugger

import (
	"fmt"

	"github.com/lookbusy1344/narmvm/vm"
)

// StopReason explains why Run returned control to the caller.
type StopReason int

const (
	StopBreakpoint StopReason = iota
	StopStep
	StopSVC
	StopError
	StopMaxCycles
)

func (r StopReason) String() string {
	switch r {
	case StopBreakpoint:
		return "breakpoint"
	case StopStep:
		return "step"
	case StopSVC:
		return "svc"
	case StopError:
		return "error"
	case StopMaxCycles:
		return "max-cycles"
	default:
		return "unknown"
	}
}

// Debugger drives a VM one instruction (or one breakpoint-run) at a
// time, tracking hit breakpoints and the last fault.
type Debugger struct {
	VM          *vm.VM
	Breakpoints *BreakpointManager

	SVCNumber uint32
	LastError error
}

// New wraps machine in a fresh Debugger with no breakpoints set.
func New(machine *vm.VM) *Debugger {
	return &Debugger{
		VM:          machine,
		Breakpoints: NewBreakpointManager(),
	}
}

// Step executes exactly one instruction and reports why it stopped.
func (d *Debugger) Step() StopReason {
	svc, wasSVC, err := d.VM.Cycle()
	if err != nil {
		d.LastError = err
		return StopError
	}
	if wasSVC {
		d.SVCNumber = svc
		return StopSVC
	}
	return StopStep
}

// Run executes instructions until a breakpoint is hit, an SVC occurs,
// an error occurs, or maxCycles instructions have run (0 means
// unlimited). The breakpoint check happens before each instruction
// fetch, so a breakpoint set at the current PC is honored immediately.
func (d *Debugger) Run(maxCycles uint64) StopReason {
	var n uint64
	for {
		if bp := d.Breakpoints.ProcessHit(d.VM.CPU.PC); bp != nil {
			return StopBreakpoint
		}
		if maxCycles != 0 && n >= maxCycles {
			return StopMaxCycles
		}
		switch reason := d.Step(); reason {
		case StopStep:
			n++
			continue
		default:
			return reason
		}
	}
}

// DisasmLine renders one decoded instruction at addr for display,
// without advancing the VM. Decode failures render as a raw hex dump
// rather than aborting the listing.
func (d *Debugger) DisasmLine(addr uint32) string {
	hi, err := d.VM.Memory.GetU16(addr)
	if err != nil {
		return fmt.Sprintf("0x%08X: <unreadable>", addr)
	}
	if vm.IsThumb2Prefix(hi) {
		lo, err := d.VM.Memory.GetU16(addr + 2)
		if err != nil {
			return fmt.Sprintf("0x%08X: %04X ????  bl <truncated>", addr, hi)
		}
		inst, derr := vm.DecodeThumb2BL(hi, lo)
		if derr != nil {
			return fmt.Sprintf("0x%08X: %04X %04X  <invalid32>", addr, hi, lo)
		}
		return fmt.Sprintf("0x%08X: %04X %04X  bl %+d", addr, hi, lo, inst.Displacement)
	}
	inst, derr := vm.Decode(hi)
	if derr != nil {
		return fmt.Sprintf("0x%08X: %04X      <invalid>", addr, hi)
	}
	return fmt.Sprintf("0x%08X: %04X      op=%d rd=%d rn=%d rm=%d imm=%d",
		addr, hi, inst.Op, inst.Rd, inst.Rn, inst.Rm, inst.Imm)
}
