package vm

// VM ties together the CPU and MemorySystem into a runnable machine.
// Grounded on vm/executor.go's VM/Step/Run loop shape, re-pointed at the
// Thumb fetch/decode/execute contract of spec.md §4.4: virtual_pc/last_pc
// bookkeeping, the 16-bit-vs-32-bit fetch test, and the SVC-number return
// convention in place of ARM2's SWI trap table.
type VM struct {
	CPU    *CPU
	Memory *MemorySystem

	// GasRemaining is decremented once per Cycle when GasEnabled is set;
	// reaching zero surfaces ErrOutOfGas before the instruction that
	// would have run. Reserved per spec.md §9's Open Question on gas
	// metering: no per-instruction-weight charging is implemented yet,
	// only a flat one-unit-per-cycle charge.
	GasRemaining uint64
	GasEnabled   bool

	// CyclesExecuted counts successfully completed Cycle calls since the
	// last Reset, for diagnostics. Nothing limits execution by it; Execute's
	// maxCycles bound counts its own iterations.
	CyclesExecuted uint64

	// EntryPoint is the address Reset rewinds PC to; the loader sets it
	// once after placing an image in memory.
	EntryPoint uint32
}

// NewVM returns a VM with a fresh CPU and the given memory system.
func NewVM(mem *MemorySystem) *VM {
	return &VM{
		CPU:    NewCPU(),
		Memory: mem,
	}
}

// Reset zeroes the CPU; the memory system (and its segment layout) is
// left untouched, matching the teacher's Reset contract of reusing a
// loaded image across repeated runs.
func (v *VM) Reset() {
	v.CPU.Reset()
	v.CPU.PC = v.EntryPoint
	v.CyclesExecuted = 0
}

// SetPC sets the initial fetch address.
func (v *VM) SetPC(addr uint32) {
	v.CPU.PC = addr
}

// SetGas arms gas metering with the given budget. A budget of 0 makes the
// very first Cycle return ErrOutOfGas without executing anything.
func (v *VM) SetGas(budget uint64) {
	v.GasEnabled = true
	v.GasRemaining = budget
}

// fetch16 reads a little-endian halfword, tagging any memory error with
// the faulting PC for diagnostics.
func (v *VM) fetch16(addr uint32) (uint16, *Error) {
	val, err := v.Memory.GetU16(addr)
	if err != nil {
		verr := err.(*Error)
		verr.LastPC = v.CPU.LastPC
		return 0, verr
	}
	return val, nil
}

// Cycle executes exactly one instruction: it computes last_pc and
// virtual_pc per spec.md §3, fetches either a 16-bit Thumb instruction or
// the two halfwords of a 32-bit Thumb-2 BL, decodes, and dispatches.
//
// The return value is the SVC immediate when the executed instruction
// was SVC #imm (0 is a valid SVC number and is NOT a sentinel for "no
// SVC" — callers distinguish via the bool), or (0, false, nil) for any
// other successfully executed instruction.
func (v *VM) Cycle() (svcNumber uint32, wasSVC bool, err error) {
	if v.GasEnabled {
		if v.GasRemaining == 0 {
			return 0, false, &Error{Kind: ErrOutOfGas, LastPC: v.CPU.PC}
		}
		v.GasRemaining--
	}

	lastPC := v.CPU.PC
	v.CPU.LastPC = lastPC
	v.CPU.VirtualPC = Align4(lastPC) + 4

	hi, ferr := v.fetch16(lastPC)
	if ferr != nil {
		return 0, false, ferr
	}

	if IsThumb2Prefix(hi) {
		lo, ferr := v.fetch16(lastPC + 2)
		if ferr != nil {
			return 0, false, ferr
		}
		inst, derr := DecodeThumb2BL(hi, lo)
		if derr != nil {
			derr.LastPC = lastPC
			return 0, false, derr
		}
		v.CPU.PC = lastPC + 4
		v.execBL(inst)
		v.CyclesExecuted++
		return 0, false, nil
	}

	v.CPU.PC = lastPC + 2
	inst, derr := Decode(hi)
	if derr != nil {
		derr.LastPC = lastPC
		return 0, false, derr
	}

	svc, isSVC, xerr := v.execute(inst)
	if xerr != nil {
		if verr, ok := xerr.(*Error); ok {
			verr.LastPC = lastPC
		}
		return 0, false, xerr
	}
	v.CyclesExecuted++
	return svc, isSVC, nil
}

// Execute runs Cycle repeatedly until an SVC is hit, an error occurs, or
// maxCycles is reached (0 means unlimited). It returns the terminating
// SVC number when the loop ended on an SVC.
func (v *VM) Execute(maxCycles uint64) (svcNumber uint32, err error) {
	var n uint64
	for {
		if maxCycles != 0 && n >= maxCycles {
			return 0, &Error{Kind: ErrOutOfGas, LastPC: v.CPU.PC}
		}
		svc, wasSVC, err := v.Cycle()
		if err != nil {
			return 0, err
		}
		if wasSVC {
			return svc, nil
		}
		n++
	}
}

// CopyIntoMemory writes data into the VM's memory starting at addr.
func (v *VM) CopyIntoMemory(addr uint32, data []byte) error {
	return v.Memory.SetSizedMemory(addr, data)
}

// CopyFromMemory reads length bytes from the VM's memory starting at
// addr.
func (v *VM) CopyFromMemory(addr uint32, length uint32) ([]byte, error) {
	return v.Memory.GetSizedMemory(addr, length)
}

// DumpState renders a diagnostic snapshot of registers, flags, and PC
// bookkeeping, in the spirit of original_source's Display impl for
// debugging a stuck or faulted VM.
func (v *VM) DumpState() string {
	c := v.CPU
	out := "registers:\n"
	names := [...]string{
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"r8", "r9", "r10", "r11", "r12", "sp", "lr",
	}
	for i, name := range names {
		out += "  " + name + " = " + hex32(c.R[i]) + "\n"
	}
	out += "  pc = " + hex32(c.PC) + "  virtual_pc = " + hex32(c.VirtualPC) + "  last_pc = " + hex32(c.LastPC) + "\n"
	out += "flags: N=" + boolBit(c.CPSR.N) + " Z=" + boolBit(c.CPSR.Z) + " C=" + boolBit(c.CPSR.C) + " V=" + boolBit(c.CPSR.V) + "\n"
	return out
}

func hex32(v uint32) string {
	const digits = "0123456789ABCDEF"
	b := make([]byte, 10)
	b[0], b[1] = '0', 'x'
	for i := 0; i < 8; i++ {
		shift := uint(28 - 4*i)
		b[2+i] = digits[(v>>shift)&0xF]
	}
	return string(b)
}

func boolBit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
