package vm

// execR3R3R3 handles the R3_R3_R3 family: three-low-register ADD/SUB
// (register and immediate-3 forms) and the register-offset load/store
// group. Grounded on vm/data_processing.go (ADD/SUB) and
// vm/inst_memory.go (the LDR/STR register-offset opcodes).
func (v *VM) execR3R3R3(inst Inst16) error {
	rd := LongReg(inst.Rd)
	rn := LongReg(inst.Rn)
	cpsr := &v.CPU.CPSR

	switch inst.Op {
	case opADDSReg:
		a := v.CPU.GetReg(rn)
		b := v.CPU.GetReg(LongReg(inst.Rm))
		result := opAdd(cpsr, a, b, false, true)
		v.CPU.SetReg(rd, result)

	case opSUBSReg:
		a := v.CPU.GetReg(rn)
		b := v.CPU.GetReg(LongReg(inst.Rm))
		result := opSub(cpsr, a, b, true)
		v.CPU.SetReg(rd, result)

	case opADDSImm3:
		a := v.CPU.GetReg(rn)
		result := opAdd(cpsr, a, uint32(inst.Rm), false, true)
		v.CPU.SetReg(rd, result)

	case opSUBSImm3:
		a := v.CPU.GetReg(rn)
		result := opSub(cpsr, a, uint32(inst.Rm), true)
		v.CPU.SetReg(rd, result)

	case opSTRReg:
		addr := v.CPU.GetReg(rn) + v.CPU.GetReg(LongReg(inst.Rm))
		return v.Memory.SetU32(addr, v.CPU.GetReg(rd))

	case opSTRHReg:
		addr := v.CPU.GetReg(rn) + v.CPU.GetReg(LongReg(inst.Rm))
		return v.Memory.SetU16(addr, uint16(v.CPU.GetReg(rd)))

	case opSTRBReg:
		addr := v.CPU.GetReg(rn) + v.CPU.GetReg(LongReg(inst.Rm))
		return v.Memory.SetU8(addr, uint8(v.CPU.GetReg(rd)))

	case opLDRSBReg:
		addr := v.CPU.GetReg(rn) + v.CPU.GetReg(LongReg(inst.Rm))
		val, err := v.Memory.GetU8(addr)
		if err != nil {
			return err
		}
		v.CPU.SetReg(rd, uint32(SignExtend(uint32(val), 8)))

	case opLDRReg:
		addr := v.CPU.GetReg(rn) + v.CPU.GetReg(LongReg(inst.Rm))
		val, err := v.Memory.GetU32(addr)
		if err != nil {
			return err
		}
		v.CPU.SetReg(rd, val)

	case opLDRHReg:
		addr := v.CPU.GetReg(rn) + v.CPU.GetReg(LongReg(inst.Rm))
		val, err := v.Memory.GetU16(addr)
		if err != nil {
			return err
		}
		v.CPU.SetReg(rd, uint32(val))

	case opLDRBReg:
		addr := v.CPU.GetReg(rn) + v.CPU.GetReg(LongReg(inst.Rm))
		val, err := v.Memory.GetU8(addr)
		if err != nil {
			return err
		}
		v.CPU.SetReg(rd, uint32(val))

	case opLDRSHReg:
		addr := v.CPU.GetReg(rn) + v.CPU.GetReg(LongReg(inst.Rm))
		val, err := v.Memory.GetU16(addr)
		if err != nil {
			return err
		}
		v.CPU.SetReg(rd, uint32(SignExtend(uint32(val), 16)))

	default:
		return &Error{Kind: ErrInvalidOpcode, Opcode: uint32(inst.Raw)}
	}
	return nil
}
