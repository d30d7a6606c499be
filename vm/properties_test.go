package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("universal invariants", func() {
	Describe("stack pointer writes", func() {
		It("always clears the low two bits", func() {
			c := NewCPU()
			c.SetSP(0x2000_1003)
			Expect(c.GetSP() & 0x3).To(BeZero())

			c.SetReg(SP, 0x2000_2001)
			Expect(c.R[SP] & 0x3).To(BeZero())
		})
	})

	Describe("flag-setting arithmetic", func() {
		DescribeTable("N matches bit31 and Z matches zero-result",
			func(a, b uint32) {
				cpsr := &CPSR{}
				result := opAdd(cpsr, a, b, false, true)
				Expect(cpsr.N).To(Equal(result&0x80000000 != 0))
				Expect(cpsr.Z).To(Equal(result == 0))
			},
			Entry("zero result", uint32(1), ^uint32(0)),
			Entry("negative result", uint32(0x80000000), uint32(1)),
			Entry("positive result", uint32(1), uint32(2)),
		)
	})

	Describe("subtraction carry and overflow", func() {
		DescribeTable("C is NOT-borrow, V is signed overflow",
			func(a, b uint32, wantCarry, wantOverflow bool) {
				cpsr := &CPSR{}
				opSub(cpsr, a, b, true)
				Expect(cpsr.C).To(Equal(wantCarry), "carry")
				Expect(cpsr.V).To(Equal(wantOverflow), "overflow")
			},
			Entry("equal operands: no borrow", uint32(0xFF), uint32(0xFF), true, false),
			Entry("A < B: borrow occurs", uint32(5), uint32(10), false, false),
			Entry("A >= B: no borrow", uint32(10), uint32(5), true, false),
			Entry("signed overflow: MIN - 1", uint32(0x80000000), uint32(1), true, true),
		)
	})

	Describe("NOP idempotence", func() {
		It("advances pc by 2 and changes nothing else", func() {
			mem := NewMemorySystem()
			Expect(mem.AddMemory(0x8000_0000, 0x100, PermRead|PermWrite)).To(Succeed())
			Expect(mem.SetSizedMemory(0x8000_0000, []byte{0x00, 0xBF})).To(Succeed())

			machine := NewVM(mem)
			machine.SetPC(0x8000_0000)
			for i := range machine.CPU.R {
				machine.CPU.R[i] = uint32(i * 7)
			}
			before := machine.CPU.R
			beforeFlags := machine.CPU.CPSR

			_, wasSVC, err := machine.Cycle()
			Expect(err).NotTo(HaveOccurred())
			Expect(wasSVC).To(BeFalse())

			Expect(machine.CPU.PC).To(Equal(uint32(0x8000_0002)))
			Expect(machine.CPU.R).To(Equal(before))
			Expect(machine.CPU.CPSR).To(Equal(beforeFlags))
		})
	})

	Describe("REV family round-trips", func() {
		It("REV(REV(x)) == x", func() {
			for _, x := range []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF, 0x12345678} {
				Expect(reverseBytes32(reverseBytes32(x))).To(Equal(x))
			}
		})

		It("REV16(REV16(x)) == x", func() {
			// REV16 as execR3R3 computes it: each halfword byte-swapped.
			rev16 := func(v uint32) uint32 {
				return uint32(reverseBytes16(uint16(v))) | uint32(reverseBytes16(uint16(v>>16)))<<16
			}
			for _, x := range []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF, 0x12345678} {
				Expect(rev16(rev16(x))).To(Equal(x))
			}
		})
	})

	Describe("instruction boundary advancement", func() {
		It("advances pc by exactly 2 for a 16-bit instruction", func() {
			mem := NewMemorySystem()
			Expect(mem.AddMemory(0x1000, 0x10, PermRead|PermWrite)).To(Succeed())
			Expect(mem.SetSizedMemory(0x1000, []byte{0x05, 0x20})).To(Succeed()) // MOVS r0, #5

			machine := NewVM(mem)
			machine.SetPC(0x1000)
			_, _, err := machine.Cycle()
			Expect(err).NotTo(HaveOccurred())
			Expect(machine.CPU.PC).To(Equal(uint32(0x1002)))
		})

		It("advances pc by exactly 4 for a 32-bit BL instruction", func() {
			mem := NewMemorySystem()
			Expect(mem.AddMemory(0x1_0000, 0x20, PermRead|PermWrite)).To(Succeed())
			// BL +4: hi=0xF000, lo=0xF802
			Expect(mem.SetSizedMemory(0x1_0000, []byte{0x00, 0xF0, 0x02, 0xF8})).To(Succeed())

			machine := NewVM(mem)
			machine.SetPC(0x1_0000)
			_, _, err := machine.Cycle()
			Expect(err).NotTo(HaveOccurred())
			Expect(machine.CPU.PC).To(Equal(uint32(0x1_0008)))
		})
	})
})
