package vm

// execute dispatches a decoded 16-bit instruction to its family handler.
// Grounded on vm/executor.go's Execute big-switch style, split across the
// exec_*.go files by encoding form instead of by ARM2 opcode class.
func (v *VM) execute(inst Inst16) (svcNumber uint32, wasSVC bool, err error) {
	switch inst.Form {
	case FormR3IMM8:
		return v.execR3IMM8(inst)
	case FormR3R3:
		err = v.execR3R3(inst)
	case FormR3R3R3:
		err = v.execR3R3R3(inst)
	case FormN1R4RN3:
		err = v.execN1R4RN3(inst)
	case FormIMM5R3R3:
		err = v.execIMM5R3R3(inst)
	case FormC4IMM8:
		return v.execC4IMM8(inst)
	case FormX1RL8:
		err = v.execX1RL8(inst)
	case FormR4Q3:
		err = v.execR4Q3(inst)
	case FormNopHint:
		// NOP and the other hint variants (YIELD, WFE, WFI, SEV) are all
		// no-ops for this emulator; only the encoding's bottom byte
		// distinguishes them and none affect architectural state.
	default:
		err = &Error{Kind: ErrInvalidOpcode, Opcode: uint32(inst.Raw)}
	}
	return 0, false, err
}
