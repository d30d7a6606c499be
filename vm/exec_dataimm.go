package vm

// execR3IMM8 handles the R3_IMM8 family: MOVS/CMP/ADDS/SUBS with an 8-bit
// immediate, PC-relative LDR literal, SP-relative LDR/STR, ADR, ADD
// (SP plus immediate), STM/LDM multiple, and the unconditional branch.
// Grounded on vm/data_processing.go and vm/inst_memory.go's per-opcode
// shape, collapsed into one family handler keyed on the decoder's Op
// constant.
func (v *VM) execR3IMM8(inst Inst16) (svcNumber uint32, wasSVC bool, err error) {
	rd := LongReg(inst.Rd)

	switch inst.Op {
	case opMOVSImm:
		result := inst.Imm
		v.CPU.SetReg(rd, result)
		updateFlagsNZ(&v.CPU.CPSR, result)

	case opCMPImm:
		a := v.CPU.GetReg(rd)
		opSub(&v.CPU.CPSR, a, inst.Imm, true)

	case opADDSImm:
		a := v.CPU.GetReg(rd)
		result := opAdd(&v.CPU.CPSR, a, inst.Imm, false, true)
		v.CPU.SetReg(rd, result)

	case opSUBSImm:
		a := v.CPU.GetReg(rd)
		result := opSub(&v.CPU.CPSR, a, inst.Imm, true)
		v.CPU.SetReg(rd, result)

	case opLDRLit:
		addr := v.CPU.VirtualPC + inst.Imm*4
		val, merr := v.Memory.GetU32(addr)
		if merr != nil {
			return 0, false, merr
		}
		v.CPU.SetReg(rd, val)

	case opSTRSP:
		addr := v.CPU.GetSP() + inst.Imm*4
		if merr := v.Memory.SetU32(addr, v.CPU.GetReg(rd)); merr != nil {
			return 0, false, merr
		}

	case opLDRSP:
		addr := v.CPU.GetSP() + inst.Imm*4
		val, merr := v.Memory.GetU32(addr)
		if merr != nil {
			return 0, false, merr
		}
		v.CPU.SetReg(rd, val)

	case opADR:
		v.CPU.SetReg(rd, v.CPU.VirtualPC+inst.Imm*4)

	case opADDSP:
		v.CPU.SetReg(rd, v.CPU.GetSP()+inst.Imm*4)

	case opSTMIA:
		return 0, false, v.execSTMIA(inst)

	case opLDMIA:
		return 0, false, v.execLDMIA(inst)

	case opBUncond:
		imm11 := uint32(inst.Raw & 0x7FF)
		disp := SignExtend(imm11<<1, 12)
		target := uint32(int64(v.CPU.VirtualPC) + int64(disp))
		v.CPU.PC = target

	default:
		return 0, false, &Error{Kind: ErrInvalidOpcode, Opcode: uint32(inst.Raw)}
	}
	return 0, false, nil
}

// execSTMIA stores the registers named in the list, starting at [Rn],
// incrementing after each store, then always writes Rn back to the
// final address. Unlike LDM, STM always writes back: a valid encoding
// never lists Rn among the stored registers, so there's no loaded
// value to prefer over the incremented address.
func (v *VM) execSTMIA(inst Inst16) error {
	rn := LongReg(inst.Rd)
	addr := v.CPU.GetReg(rn)
	for i := 0; i < 8; i++ {
		if inst.Imm&(1<<uint(i)) == 0 {
			continue
		}
		if merr := v.Memory.SetU32(addr, v.CPU.GetReg(LongReg(i))); merr != nil {
			return merr
		}
		addr += 4
	}
	v.CPU.SetReg(rn, addr)
	return nil
}

// execLDMIA loads the registers named in the list, starting at [Rn],
// incrementing after each load, then writes Rn back unless Rn is itself
// in the list (in which case the loaded value stands and write-back is
// skipped).
func (v *VM) execLDMIA(inst Inst16) error {
	rn := LongReg(inst.Rd)
	addr := v.CPU.GetReg(rn)
	rnInList := inst.Imm&(1<<uint(rn)) != 0
	for i := 0; i < 8; i++ {
		if inst.Imm&(1<<uint(i)) == 0 {
			continue
		}
		val, merr := v.Memory.GetU32(addr)
		if merr != nil {
			return merr
		}
		v.CPU.SetReg(LongReg(i), val)
		addr += 4
	}
	if !rnInList {
		v.CPU.SetReg(rn, addr)
	}
	return nil
}

func popcount8(v uint8) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}
