package asm

import "testing"

func assembleOne(t *testing.T, src string) uint16 {
	t.Helper()
	prog := Parse(src)
	out, err := Assemble(prog, 0x1000)
	if err != nil {
		t.Fatalf("Assemble(%q): %v", src, err)
	}
	if len(out) != 2 {
		t.Fatalf("Assemble(%q): got %d bytes, want 2", src, len(out))
	}
	return uint16(out[0]) | uint16(out[1])<<8
}

func TestEncodeMOVSImmediate(t *testing.T) {
	if got := assembleOne(t, "MOVS r0, #5"); got != 0x2005 {
		t.Errorf("got 0x%04X, want 0x2005", got)
	}
}

func TestEncodeADDSRegister(t *testing.T) {
	if got := assembleOne(t, "ADDS r0, r0, r1"); got != 0x1840 {
		t.Errorf("got 0x%04X, want 0x1840", got)
	}
}

func TestEncodeSUBSRegister(t *testing.T) {
	if got := assembleOne(t, "SUBS r0, r0, r1"); got != 0x1A40 {
		t.Errorf("got 0x%04X, want 0x1A40", got)
	}
}

func TestEncodePushPopAll(t *testing.T) {
	if got := assembleOne(t, "PUSH {r0-r7}"); got != 0xB4FF {
		t.Errorf("push range-form got 0x%04X, want 0xB4FF", got)
	}
	if got := assembleOne(t, "PUSH {r0,r1,r2,r3,r4,r5,r6,r7}"); got != 0xB4FF {
		t.Errorf("got 0x%04X, want 0xB4FF", got)
	}
	if got := assembleOne(t, "POP {r0,r1,r2,r3,r4,r5,r6,r7}"); got != 0xBCFF {
		t.Errorf("got 0x%04X, want 0xBCFF", got)
	}
}

func TestEncodeConditionalBranchToLabel(t *testing.T) {
	// BEQ at 0x10000, virtual_pc = 0x10004, label 4 bytes further on.
	src := "BEQ target\nNOP\nNOP\nNOP\ntarget:\nNOP\n"
	prog := Parse(src)
	out, err := Assemble(prog, 0x10000)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	first := uint16(out[0]) | uint16(out[1])<<8
	if first != 0xD002 {
		t.Errorf("got 0x%04X, want 0xD002", first)
	}
}

func TestEncodeBLDisplacement(t *testing.T) {
	// Mirrors the documented BL scenario: BL at 0x10000, virtual_pc =
	// 0x10004, label at 0x10008 (two halfwords after the 4-byte BL).
	src := "BL target\nNOP\nNOP\ntarget:\nNOP\n"
	prog := Parse(src)
	out, err := Assemble(prog, 0x10000)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(out) != 10 {
		t.Fatalf("got %d bytes, want 10 (BL + 3 NOPs)", len(out))
	}
	hi := uint16(out[0]) | uint16(out[1])<<8
	lo := uint16(out[2]) | uint16(out[3])<<8
	if hi != 0xF000 || lo != 0xF802 {
		t.Errorf("got hi=0x%04X lo=0x%04X, want hi=0xF000 lo=0xF802", hi, lo)
	}
}

func TestEncodeLDRSBRegisterOffset(t *testing.T) {
	if got := assembleOne(t, "LDRSB r0, [r1, r2]"); got != 0x5688 {
		t.Errorf("got 0x%04X, want 0x5688", got)
	}
}

func TestEncodeSTRImmediateOffset(t *testing.T) {
	// imm5=3 words -> byte displacement 12.
	if got := assembleOne(t, "STR r0, [r1, #12]"); got != 0x60C8 {
		t.Errorf("got 0x%04X, want 0x60C8", got)
	}
}

func TestEncodeLDRRegisterOffset(t *testing.T) {
	if got := assembleOne(t, "LDR r0, [r1, r2]"); got != 0x5888 {
		t.Errorf("got 0x%04X, want 0x5888", got)
	}
}

func TestEncodeLDRSHRequiresRegisterOffset(t *testing.T) {
	prog := Parse("LDRSH r0, [r1, #4]")
	_, err := Assemble(prog, 0x1000)
	if err == nil {
		t.Fatal("expected error for immediate-offset LDRSH")
	}
}

func TestEncodeUnknownMnemonic(t *testing.T) {
	prog := Parse("FROB r0, r1")
	_, err := Assemble(prog, 0x1000)
	if err == nil {
		t.Fatal("expected error for unknown mnemonic")
	}
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrUnknownMnemonic {
		t.Errorf("got %v, want ErrUnknownMnemonic", err)
	}
}

func TestEncodeUnknownLabel(t *testing.T) {
	prog := Parse("BEQ nowhere")
	_, err := Assemble(prog, 0x1000)
	if err == nil {
		t.Fatal("expected error for undefined label")
	}
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrUnknownSymbol {
		t.Errorf("got %v, want ErrUnknownSymbol", err)
	}
}

func TestParseLineStripsComments(t *testing.T) {
	l := ParseLine(Position{Line: 1}, "  MOVS r0, #1 ; load one")
	if l.Mnemonic != "MOVS" || len(l.Operands) != 2 {
		t.Fatalf("got %+v", l)
	}
}

func TestParseLineLabelOnly(t *testing.T) {
	l := ParseLine(Position{Line: 1}, "loop:")
	if l.Label != "loop" || l.Mnemonic != "" {
		t.Fatalf("got %+v", l)
	}
}
