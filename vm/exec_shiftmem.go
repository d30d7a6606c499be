package vm

// execIMM5R3R3 handles the IMM5_R3_R3 family: immediate shifts
// (LSL/LSR/ASR) and the immediate-offset load/store group. Grounded on
// vm/data_processing.go (shifts) and vm/inst_memory.go (offset
// load/store), with the LSL-imm5-zero special case documented on
// Decode in decode.go: LSLS Rd, Rm, #0 and MOVS Rd, Rm share an opcode, and
// per spec.md §4.3 the zero-immediate case is MOVS semantics (no C
// update) rather than a degenerate zero-width shift.
func (v *VM) execIMM5R3R3(inst Inst16) error {
	rd := LongReg(inst.Rd)
	rn := LongReg(inst.Rn)
	cpsr := &v.CPU.CPSR

	switch inst.Op {
	case opLSLImm:
		a := v.CPU.GetReg(rn)
		if inst.Imm == 0 {
			v.CPU.SetReg(rd, a)
			updateFlagsNZ(cpsr, a)
			return nil
		}
		amount := uint(inst.Imm)
		result := shiftLSL(a, amount)
		v.CPU.SetReg(rd, result)
		updateFlagsNZC(cpsr, result, shiftCarryLSL(a, amount))

	case opLSRImm:
		a := v.CPU.GetReg(rn)
		amount := uint(inst.Imm)
		result := shiftLSR32(a, amount)
		v.CPU.SetReg(rd, result)
		updateFlagsNZC(cpsr, result, shiftCarryLSR32(a, amount))

	case opASRImm:
		a := v.CPU.GetReg(rn)
		amount := uint(inst.Imm)
		result := shiftASR32(a, amount)
		v.CPU.SetReg(rd, result)
		updateFlagsNZC(cpsr, result, shiftCarryASR32(a, amount))

	case opSTRImm:
		addr := v.CPU.GetReg(rn) + inst.Imm*4
		return v.Memory.SetU32(addr, v.CPU.GetReg(rd))

	case opLDRImm:
		addr := v.CPU.GetReg(rn) + inst.Imm*4
		val, err := v.Memory.GetU32(addr)
		if err != nil {
			return err
		}
		v.CPU.SetReg(rd, val)

	case opSTRBImm:
		addr := v.CPU.GetReg(rn) + inst.Imm
		return v.Memory.SetU8(addr, uint8(v.CPU.GetReg(rd)))

	case opLDRBImm:
		addr := v.CPU.GetReg(rn) + inst.Imm
		val, err := v.Memory.GetU8(addr)
		if err != nil {
			return err
		}
		v.CPU.SetReg(rd, uint32(val))

	case opSTRHImm:
		addr := v.CPU.GetReg(rn) + inst.Imm*2
		return v.Memory.SetU16(addr, uint16(v.CPU.GetReg(rd)))

	case opLDRHImm:
		addr := v.CPU.GetReg(rn) + inst.Imm*2
		val, err := v.Memory.GetU16(addr)
		if err != nil {
			return err
		}
		v.CPU.SetReg(rd, uint32(val))

	default:
		return &Error{Kind: ErrInvalidOpcode, Opcode: uint32(inst.Raw)}
	}
	return nil
}
