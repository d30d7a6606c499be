package vm

// execC4IMM8 handles the C4_IMM8 family: the 14 real condition codes
// (conditional branch), cond==0b1110 (UDF, permanently undefined on this
// core), and cond==0b1111 (SVC). Grounded on vm/branch.go's conditional
// branch dispatch and original_source's svc/undefined handling.
func (v *VM) execC4IMM8(inst Inst16) (svcNumber uint32, wasSVC bool, err error) {
	switch inst.Cond {
	case 0b1111:
		return inst.Imm, true, nil
	case 0b1110:
		return 0, false, &Error{Kind: ErrInvalidOpcode, Opcode: uint32(inst.Raw)}
	}

	cond := ConditionCode(inst.Cond)
	if v.CPU.CPSR.Evaluate(cond) {
		disp := SignExtend(inst.Imm<<1, 9)
		v.CPU.PC = uint32(int64(v.CPU.VirtualPC) + int64(disp))
	}
	return 0, false, nil
}

// execBL executes the 32-bit Thumb-2 BL (branch with link): it sets LR
// to the return address (with the Thumb bit set, per the standard
// BLX-linkage convention) and redirects PC to virtual_pc + displacement.
// Grounded on original_source/src/narmvm.rs's BL handling.
func (v *VM) execBL(inst Inst32) {
	// v.CPU.PC already holds the address of the next instruction,
	// last_pc + 4 (the executor advances PC past the 32-bit encoding
	// before dispatch). That equals virtual_pc when the BL is word-aligned;
	// for a BL at last_pc%4 == 2 it is virtual_pc + 2.
	returnAddr := v.CPU.PC
	v.CPU.SetLR(returnAddr | 1)
	v.CPU.PC = uint32(int64(v.CPU.VirtualPC) + int64(inst.Displacement))
}
