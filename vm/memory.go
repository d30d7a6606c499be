package vm

// Memory subsystem: a MemorySystem owns an ordered set of non-overlapping
// segments, each with a permission bitmask and a backing byte buffer.
// Grounded on vm/memory.go's MemorySegment/permission model, adapted to
// spec.md §4.2: byte-granular accesses (no alignment enforcement at this
// layer), caller-declared segments (no fixed code/data/heap/stack layout
// baked in), and the typed vm.Error taxonomy instead of fmt.Errorf.

// MemoryPermission is a bitmask of segment access rights. Code is
// implicitly readable once created with PermRead.
type MemoryPermission uint8

const (
	PermNone  MemoryPermission = 0
	PermRead  MemoryPermission = 1 << 0
	PermWrite MemoryPermission = 1 << 1
)

// MemorySegment is a contiguous, fixed-size region of virtual memory.
type MemorySegment struct {
	Base        uint32
	Size        uint32
	Permissions MemoryPermission
	Data        []byte
}

func (s *MemorySegment) contains(addr uint32) bool {
	return addr >= s.Base && addr < s.Base+s.Size
}

// inBounds reports whether [addr, addr+length) falls entirely within the
// segment's declared length (an in-segment-but-past-length access is the
// "empty memory" case reserved for growable regions per spec.md §4.2/§7;
// no segment here is actually growable, but the distinction is surfaced).
func (s *MemorySegment) inBounds(addr uint32, length uint32) bool {
	offset := addr - s.Base
	return uint64(offset)+uint64(length) <= uint64(len(s.Data))
}

// MemorySystem is the VM's byte-addressable virtual memory.
type MemorySystem struct {
	Segments []*MemorySegment
}

// NewMemorySystem returns an empty memory system; segments are declared
// explicitly via AddMemory, mirroring spec.md's add_memory contract.
func NewMemorySystem() *MemorySystem {
	return &MemorySystem{}
}

// AddMemory creates a new segment at [base, base+size) with the given
// permissions. base must be 4-aligned and must not overlap any existing
// segment.
func (m *MemorySystem) AddMemory(base, size uint32, perm MemoryPermission) error {
	if base != Align4(base) {
		return &Error{Kind: ErrUnalignedMemoryAddition, Addr: base}
	}
	if uint64(base)+uint64(size) > uint64(Address32BitMax)+1 {
		return &Error{Kind: ErrConflictingMemoryAddition, Addr: base}
	}
	for _, seg := range m.Segments {
		if rangesOverlap(base, size, seg.Base, seg.Size) {
			return &Error{Kind: ErrConflictingMemoryAddition, Addr: base}
		}
	}
	m.Segments = append(m.Segments, &MemorySegment{
		Base:        base,
		Size:        size,
		Permissions: perm,
		Data:        make([]byte, size),
	})
	return nil
}

func rangesOverlap(baseA, sizeA, baseB, sizeB uint32) bool {
	endA := uint64(baseA) + uint64(sizeA)
	endB := uint64(baseB) + uint64(sizeB)
	return uint64(baseA) < endB && uint64(baseB) < endA
}

func (m *MemorySystem) find(addr uint32) *MemorySegment {
	for _, seg := range m.Segments {
		if seg.contains(addr) {
			return seg
		}
	}
	return nil
}

// GetU8 reads a single byte.
func (m *MemorySystem) GetU8(addr uint32) (uint8, error) {
	seg := m.find(addr)
	if seg == nil {
		return 0, memReadErr(ErrUnloadedMemoryRead, addr)
	}
	if !seg.inBounds(addr, 1) {
		return 0, memReadErr(ErrEmptyMemoryRead, addr)
	}
	return seg.Data[addr-seg.Base], nil
}

// SetU8 writes a single byte.
func (m *MemorySystem) SetU8(addr uint32, value uint8) error {
	seg := m.find(addr)
	if seg == nil {
		return memWriteErr(ErrUnloadedMemoryWrite, addr)
	}
	if !seg.inBounds(addr, 1) {
		return memWriteErr(ErrEmptyMemoryWrite, addr)
	}
	if seg.Permissions&PermWrite == 0 {
		return memWriteErr(ErrReadOnlyMemoryWrite, addr)
	}
	seg.Data[addr-seg.Base] = value
	return nil
}

// GetU16 reads a little-endian halfword. Byte-granular: no alignment
// requirement is enforced here (per spec.md §4.2).
func (m *MemorySystem) GetU16(addr uint32) (uint16, error) {
	b0, err := m.GetU8(addr)
	if err != nil {
		return 0, err
	}
	b1, err := m.GetU8(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(b0) | uint16(b1)<<8, nil
}

// SetU16 writes a little-endian halfword.
func (m *MemorySystem) SetU16(addr uint32, value uint16) error {
	if err := m.SetU8(addr, uint8(value)); err != nil {
		return err
	}
	return m.SetU8(addr+1, uint8(value>>8))
}

// GetU32 reads a little-endian word.
func (m *MemorySystem) GetU32(addr uint32) (uint32, error) {
	if addr > Address32BitMaxSafe {
		return 0, memReadErr(ErrEmptyMemoryRead, addr)
	}
	lo, err := m.GetU16(addr)
	if err != nil {
		return 0, err
	}
	hi, err := m.GetU16(addr + 2)
	if err != nil {
		return 0, err
	}
	return uint32(lo) | uint32(hi)<<16, nil
}

// SetU32 writes a little-endian word.
func (m *MemorySystem) SetU32(addr uint32, value uint32) error {
	if addr > Address32BitMaxSafe {
		return memWriteErr(ErrEmptyMemoryWrite, addr)
	}
	if err := m.SetU16(addr, uint16(value)); err != nil {
		return err
	}
	return m.SetU16(addr+2, uint16(value>>16))
}

// GetSizedMemory returns a copy of length bytes starting at addr.
func (m *MemorySystem) GetSizedMemory(addr uint32, length uint32) ([]byte, error) {
	out := make([]byte, length)
	for i := uint32(0); i < length; i++ {
		b, err := m.GetU8(addr + i)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// SetSizedMemory writes data starting at addr.
func (m *MemorySystem) SetSizedMemory(addr uint32, data []byte) error {
	for i, b := range data {
		if err := m.SetU8(addr+uint32(i), b); err != nil {
			return err
		}
	}
	return nil
}
