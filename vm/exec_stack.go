package vm

// execX1RL8 handles PUSH and POP. Grounded on vm/stack_trace.go's (now
// removed) register-list walk and vm/memory_multi.go's STMDB/LDM shape,
// collapsed into the two stack-specific mnemonics this core supports.
func (v *VM) execX1RL8(inst Inst16) error {
	switch inst.Op {
	case opPUSH:
		return v.execPUSH(inst)
	case opPOP:
		return v.execPOP(inst)
	default:
		return &Error{Kind: ErrInvalidOpcode, Opcode: uint32(inst.Raw)}
	}
}

// execPUSH stores r0-r7 (per RegList) and, if ExtraBit is set, LR, in
// ascending register order at ascending addresses, starting 4*count bytes
// below the current SP (so LR lands in the top slot), then updates SP to
// point at the lowest address written.
func (v *VM) execPUSH(inst Inst16) error {
	count := popcount8(inst.RegList)
	if inst.ExtraBit {
		count++
	}
	addr := v.CPU.GetSP() - 4*uint32(count)
	cursor := addr
	for i := 0; i < 8; i++ {
		if inst.RegList&(1<<uint(i)) == 0 {
			continue
		}
		if err := v.Memory.SetU32(cursor, v.CPU.GetReg(LongReg(i))); err != nil {
			return err
		}
		cursor += 4
	}
	if inst.ExtraBit {
		if err := v.Memory.SetU32(cursor, v.CPU.GetLR()); err != nil {
			return err
		}
	}
	v.CPU.SetSP(addr)
	return nil
}

// execPOP loads r0-r7 (per RegList) starting at SP, and if ExtraBit is
// set, loads PC last (a function-epilogue return), then updates SP to
// point past everything popped.
func (v *VM) execPOP(inst Inst16) error {
	addr := v.CPU.GetSP()
	for i := 0; i < 8; i++ {
		if inst.RegList&(1<<uint(i)) == 0 {
			continue
		}
		val, err := v.Memory.GetU32(addr)
		if err != nil {
			return err
		}
		v.CPU.SetReg(LongReg(i), val)
		addr += 4
	}
	if inst.ExtraBit {
		val, err := v.Memory.GetU32(addr)
		if err != nil {
			return err
		}
		addr += 4
		if err := v.CPU.SetRegChecked(PC, val); err != nil {
			v.CPU.SetSP(addr)
			return err
		}
	}
	v.CPU.SetSP(addr)
	return nil
}

// execR4Q3 handles BX and BLX (register-indirect branch, with or
// without link). Grounded on vm/branch.go's BX/BLX handling.
func (v *VM) execR4Q3(inst Inst16) error {
	target := v.CPU.GetReg(inst.RmLong)

	switch inst.Op {
	case opBX:
		return v.CPU.SetRegChecked(PC, target)
	case opBLX:
		// v.CPU.PC already holds the address of the next instruction
		// (last_pc + 2), which is (virtual_pc - 2) for a word-aligned BLX
		// and virtual_pc for a BLX at last_pc%4 == 2.
		returnAddr := v.CPU.PC
		v.CPU.SetLR(returnAddr | 1)
		return v.CPU.SetRegChecked(PC, target)
	default:
		return &Error{Kind: ErrInvalidOpcode, Opcode: uint32(inst.Raw)}
	}
}
