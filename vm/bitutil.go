package vm

// Bit manipulation helpers shared by the decoder, the CPU core, and the
// memory subsystem. Grounded on original_source/src/bitmanip.rs
// (BitManipulation trait, IntAlign::align4, sign_extend32).

// GetBit32 reports whether bit index (0=LSB) of v is set.
func GetBit32(v uint32, index uint) bool {
	return v&(1<<index) != 0
}

// SetBit32 returns v with bit index set to value.
func SetBit32(v uint32, index uint, value bool) uint32 {
	if value {
		return v | (1 << index)
	}
	return v &^ (1 << index)
}

// GetBitBigEndian32 indexes bits from the MSB (index 0 = bit 31).
func GetBitBigEndian32(v uint32, index uint) bool {
	return GetBit32(v, 31-index)
}

// GetBit16 reports whether bit index of v is set.
func GetBit16(v uint16, index uint) bool {
	return v&(1<<index) != 0
}

// SetBit16 returns v with bit index set to value.
func SetBit16(v uint16, index uint, value bool) uint16 {
	if value {
		return v | (1 << index)
	}
	return v &^ (1 << index)
}

// GetBitBigEndian16 indexes bits from the MSB (index 0 = bit 15).
func GetBitBigEndian16(v uint16, index uint) bool {
	return GetBit16(v, 15-index)
}

// GetBit8 reports whether bit index of v is set.
func GetBit8(v uint8, index uint) bool {
	return v&(1<<index) != 0
}

// SetBit8 returns v with bit index set to value.
func SetBit8(v uint8, index uint, value bool) uint8 {
	if value {
		return v | (1 << index)
	}
	return v &^ (1 << index)
}

// GetBitBigEndian8 indexes bits from the MSB (index 0 = bit 7).
func GetBitBigEndian8(v uint8, index uint) bool {
	return GetBit8(v, 7-index)
}

// SignExtend sign-extends the low size bits of value (size in 1..32) to
// a signed 32-bit integer, by shifting left then arithmetic-shifting
// right (mirrors original_source's sign_extend32).
func SignExtend(value uint32, size uint) int32 {
	shift := 32 - size
	return int32(value<<shift) >> shift
}

// Align4 masks off the low two bits of v, rounding down to a 4-byte
// boundary.
func Align4(v uint32) uint32 {
	return v &^ 0x3
}
