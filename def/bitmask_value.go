package def

import "fmt"

// bitposValue renders a flag bit as it appears in the C header: eight hex
// digits, with a ULL suffix for bits that do not fit an int or that belong to
// a 64 bit flag group.
func bitposValue(pos, bitWidth int) (int64, string) {
	bits := uint64(1) << uint(pos)
	str := fmt.Sprintf("0x%08x", bits)
	if pos >= 32 || bitWidth == 64 {
		str += "ULL"
	}
	return int64(bits), str
}
