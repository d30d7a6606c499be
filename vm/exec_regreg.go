package vm

// execR3R3 handles the R3_R3 family: the 16 two-register ALU operations
// reached through the 010000 prefix, plus the sign/zero-extend and
// byte-reverse operations that share the same Rm:Rd field layout.
// Grounded on vm/data_processing.go's per-opcode ALU functions, unified
// through opAdd where the operation is additive.
func (v *VM) execR3R3(inst Inst16) error {
	rd := LongReg(inst.Rd)
	rm := LongReg(inst.Rm)
	a := v.CPU.GetReg(rd)
	b := v.CPU.GetReg(rm)
	cpsr := &v.CPU.CPSR

	switch inst.Op {
	case opAND:
		result := a & b
		v.CPU.SetReg(rd, result)
		updateFlagsNZ(cpsr, result)

	case opEOR:
		result := a ^ b
		v.CPU.SetReg(rd, result)
		updateFlagsNZ(cpsr, result)

	case opLSLReg:
		amount := uint(b & 0xFF)
		result := shiftLSL(a, amount)
		v.CPU.SetReg(rd, result)
		if amount == 0 {
			updateFlagsNZ(cpsr, result)
		} else {
			updateFlagsNZC(cpsr, result, shiftCarryLSL(a, amount))
		}

	case opLSRReg:
		amount := uint(b & 0xFF)
		if amount == 0 {
			v.CPU.SetReg(rd, a)
			updateFlagsNZ(cpsr, a)
		} else {
			result := shiftLSR32(a, amount)
			v.CPU.SetReg(rd, result)
			updateFlagsNZC(cpsr, result, shiftCarryLSR32(a, amount))
		}

	case opASRReg:
		amount := uint(b & 0xFF)
		if amount == 0 {
			v.CPU.SetReg(rd, a)
			updateFlagsNZ(cpsr, a)
		} else {
			result := shiftASR32(a, amount)
			v.CPU.SetReg(rd, result)
			updateFlagsNZC(cpsr, result, shiftCarryASR32(a, amount))
		}

	case opADC:
		result := opAdd(cpsr, a, b, cpsr.C, true)
		v.CPU.SetReg(rd, result)

	case opSBC:
		result := opAdd(cpsr, a, ^b, cpsr.C, true)
		v.CPU.SetReg(rd, result)

	case opRORReg:
		amount := uint(b & 0xFF)
		result := shiftROR(a, amount)
		v.CPU.SetReg(rd, result)
		if amount == 0 {
			updateFlagsNZ(cpsr, result)
		} else {
			updateFlagsNZC(cpsr, result, shiftCarryROR(a, amount))
		}

	case opTST:
		updateFlagsNZ(cpsr, a&b)

	case opRSBImm:
		result := opRsb(cpsr, b, 0, true)
		v.CPU.SetReg(rd, result)

	case opCMPReg:
		opSub(cpsr, a, b, true)

	case opCMN:
		opAdd(cpsr, a, b, false, true)

	case opORR:
		result := a | b
		v.CPU.SetReg(rd, result)
		updateFlagsNZ(cpsr, result)

	case opMUL:
		result := a * b
		v.CPU.SetReg(rd, result)
		updateFlagsNZ(cpsr, result)

	case opBIC:
		result := a &^ b
		v.CPU.SetReg(rd, result)
		updateFlagsNZ(cpsr, result)

	case opMVN:
		result := ^b
		v.CPU.SetReg(rd, result)
		updateFlagsNZ(cpsr, result)

	case opSXTB:
		v.CPU.SetReg(rd, uint32(SignExtend(b&0xFF, 8)))
	case opSXTH:
		v.CPU.SetReg(rd, uint32(SignExtend(b&0xFFFF, 16)))
	case opUXTB:
		v.CPU.SetReg(rd, b&0xFF)
	case opUXTH:
		v.CPU.SetReg(rd, b&0xFFFF)

	case opREV:
		v.CPU.SetReg(rd, reverseBytes32(b))
	case opREV16:
		lo := reverseBytes16(uint16(b))
		hi := reverseBytes16(uint16(b >> 16))
		v.CPU.SetReg(rd, uint32(lo)|uint32(hi)<<16)
	case opREVSH:
		rev := reverseBytes16(uint16(b))
		v.CPU.SetReg(rd, uint32(SignExtend(uint32(rev), 16)))

	default:
		return &Error{Kind: ErrInvalidOpcode, Opcode: uint32(inst.Raw)}
	}
	return nil
}

func reverseBytes32(v uint32) uint32 {
	return v>>24&0xFF | v>>8&0xFF00 | v<<8&0xFF0000 | v<<24&0xFF000000
}

func reverseBytes16(v uint16) uint16 {
	return v>>8&0xFF | v<<8&0xFF00
}
