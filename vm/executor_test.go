package vm

import "testing"

func newTestVM(t *testing.T, base, size uint32) *VM {
	t.Helper()
	mem := NewMemorySystem()
	if err := mem.AddMemory(base, size, PermRead|PermWrite); err != nil {
		t.Fatalf("AddMemory: %v", err)
	}
	return NewVM(mem)
}

// Scenario 1: ADDS flags.
func TestScenarioADDSFlags(t *testing.T) {
	v := newTestVM(t, 0, 0x1000)
	v.CPU.SetReg(R0, 0x7FFFFFFF)
	v.CPU.SetReg(R1, 0x00000001)
	// ADDS r0, r0, r1
	if err := v.Memory.SetU16(0, 0x1840); err != nil {
		t.Fatal(err)
	}
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if got := v.CPU.GetReg(R0); got != 0x80000000 {
		t.Errorf("r0 = 0x%X, want 0x80000000", got)
	}
	if !v.CPU.CPSR.N || v.CPU.CPSR.Z || v.CPU.CPSR.C || !v.CPU.CPSR.V {
		t.Errorf("flags N=%v Z=%v C=%v V=%v, want N=1 Z=0 C=0 V=1",
			v.CPU.CPSR.N, v.CPU.CPSR.Z, v.CPU.CPSR.C, v.CPU.CPSR.V)
	}
}

// Scenario 2: SUBS zero.
func TestScenarioSUBSZero(t *testing.T) {
	v := newTestVM(t, 0, 0x1000)
	v.CPU.SetReg(R0, 0xFF)
	v.CPU.SetReg(R1, 0xFF)
	// SUBS r0, r0, r1
	if err := v.Memory.SetU16(0, 0x1A40); err != nil {
		t.Fatal(err)
	}
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if got := v.CPU.GetReg(R0); got != 0 {
		t.Errorf("r0 = 0x%X, want 0", got)
	}
	if !v.CPU.CPSR.Z || !v.CPU.CPSR.C || v.CPU.CPSR.V {
		t.Errorf("flags Z=%v C=%v V=%v, want Z=1 C=1 V=0",
			v.CPU.CPSR.Z, v.CPU.CPSR.C, v.CPU.CPSR.V)
	}
}

// Scenario 3: BL displacement.
func TestScenarioBLDisplacement(t *testing.T) {
	v := newTestVM(t, 0x00010000, 0x10)
	v.SetPC(0x00010000)
	if err := v.Memory.SetU16(0x00010000, 0xF000); err != nil {
		t.Fatal(err)
	}
	if err := v.Memory.SetU16(0x00010002, 0xF802); err != nil {
		t.Fatal(err)
	}
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if got := v.CPU.GetLR(); got != 0x00010005 {
		t.Errorf("lr = 0x%X, want 0x00010005", got)
	}
	if got := v.CPU.PC; got != 0x00010008 {
		t.Errorf("pc = 0x%X, want 0x00010008", got)
	}
}

// Scenario 4: PUSH then POP round-trip.
func TestScenarioPushPopRoundTrip(t *testing.T) {
	v := newTestVM(t, 0x81000000, 0x10000)
	for i := 0; i < 8; i++ {
		v.CPU.SetReg(LongReg(i), 0xB0+uint32(i))
	}
	v.CPU.SetSP(0x81008000)

	v.SetPC(0x81000000)
	if err := v.Memory.SetU16(0x81000000, 0xB4FF); err != nil { // PUSH {r0-r7}
		t.Fatal(err)
	}
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle (PUSH): %v", err)
	}

	for i := 0; i < 8; i++ {
		v.CPU.SetReg(LongReg(i), 0)
	}

	v.SetPC(0x81000002)
	if err := v.Memory.SetU16(0x81000002, 0xBCFF); err != nil { // POP {r0-r7}
		t.Fatal(err)
	}
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle (POP): %v", err)
	}

	for i := 0; i < 8; i++ {
		want := 0xB0 + uint32(i)
		if got := v.CPU.GetReg(LongReg(i)); got != want {
			t.Errorf("r%d = 0x%X, want 0x%X", i, got, want)
		}
	}
	if got := v.CPU.GetSP(); got != 0x81008000 {
		t.Errorf("sp = 0x%X, want 0x81008000", got)
	}
}

// Scenario 5: LDRSB sign extension.
func TestScenarioLDRSBSignExtension(t *testing.T) {
	v := newTestVM(t, 0x81000000, 0x20000)
	if err := v.Memory.SetU8(0x8100BEEC, 0x9D); err != nil {
		t.Fatal(err)
	}
	v.CPU.SetReg(R1, 0x81000000)
	v.CPU.SetReg(R2, 0xBEEC)
	// LDRSB r0, [r1, r2]
	if err := v.Memory.SetU16(0x81000000, 0x5688); err != nil {
		t.Fatal(err)
	}
	v.SetPC(0x81000000)
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if got := v.CPU.GetReg(R0); got != 0xFFFFFF9D {
		t.Errorf("r0 = 0x%X, want 0xFFFFFF9D", got)
	}
}

// Scenario 6: conditional branch chain.
func TestScenarioConditionalBranchChain(t *testing.T) {
	v := newTestVM(t, 0, 0x1000)

	// BEQ with Z=1 must jump.
	v.CPU.CPSR = CPSR{Z: true}
	v.SetPC(0)
	if err := v.Memory.SetU16(0, 0xD002); err != nil { // BEQ, imm8=2
		t.Fatal(err)
	}
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if v.CPU.PC == 2 {
		t.Error("BEQ with Z=1 should have branched, not fallen through")
	}

	// BEQ with Z=0 must fall through.
	v.CPU.CPSR = CPSR{Z: false}
	v.SetPC(0)
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if v.CPU.PC != 2 {
		t.Errorf("BEQ with Z=0 should fall through to pc=2, got 0x%X", v.CPU.PC)
	}

	// BGE with N=V=true must jump.
	v.CPU.CPSR = CPSR{N: true, V: true}
	v.SetPC(0)
	if err := v.Memory.SetU16(0, 0xDA02); err != nil { // BGE, imm8=2
		t.Fatal(err)
	}
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if v.CPU.PC == 2 {
		t.Error("BGE with N==V should have branched, not fallen through")
	}

	// BGE with N=true, V=false must not jump.
	v.CPU.CPSR = CPSR{N: true, V: false}
	v.SetPC(0)
	if _, _, err := v.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if v.CPU.PC != 2 {
		t.Errorf("BGE with N!=V should fall through to pc=2, got 0x%X", v.CPU.PC)
	}
}
