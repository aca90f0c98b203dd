package simd

// ByteFrequencies ranks how often each byte value occurs in executable
// images: x86-64 machine code, PE/ELF headers and their string tables.
//
// Lower rank = rarer byte (better anchor for candidate search).
// Higher rank = more common byte (worse anchor).
//
// Zero padding, REX prefixes, mov/lea opcodes, int3 and nop padding dominate
// code sections, so anchoring a signature on them produces a flood of
// candidates. The table follows the same approach as the memchr crate's rare
// byte heuristic, retuned for binaries rather than prose.
var ByteFrequencies = [256]byte{
	// 0x00-0x0F: zero padding dominates; 0x0F two-byte opcode escape
	255, 175, 140, 130, 150, 90, 80, 70, 150, 80, 70, 24, 90, 24, 24, 190,
	// 0x10-0x1F: small displacements and ModRM operands
	150, 70, 24, 24, 90, 24, 24, 24, 120, 24, 24, 24, 24, 24, 24, 24,
	// 0x20-0x2F: space; 0x24 SIB byte for [rsp+disp]; 0x28 and 0x20 stack offsets
	150, 40, 40, 40, 180, 40, 40, 40, 120, 40, 40, 40, 40, 40, 40, 40,
	// 0x30-0x3F: digits; 0x33 and 0x31 xor
	120, 110, 60, 120, 60, 60, 60, 60, 110, 60, 40, 40, 40, 40, 40, 40,
	// 0x40-0x4F: REX prefixes (0x48 REX.W, 0x4C REX.WR, 0x41/0x44/0x45/0x49/0x4D)
	150, 160, 45, 45, 170, 140, 45, 45, 230, 140, 45, 45, 175, 120, 45, 45,
	// 0x50-0x5F: push/pop registers, upper-case letters
	110, 45, 45, 100, 45, 100, 100, 100, 45, 45, 45, 90, 120, 90, 90, 90,
	// 0x60-0x6F: lower-case letters from string tables; 0x66 operand-size prefix
	40, 102, 34, 66, 74, 110, 100, 46, 82, 94, 22, 26, 70, 58, 90, 98,
	// 0x70-0x7F: short conditional jumps (je/jne 0x74/0x75) and letters
	38, 14, 80, 70, 150, 150, 70, 60, 18, 42, 10, 40, 70, 40, 60, 70,
	// 0x80-0x8F: 0x83 group-1 imm8, 0x85 test, 0x89/0x8B mov, 0x8D lea
	110, 18, 18, 180, 110, 165, 18, 18, 18, 215, 100, 225, 18, 175, 18, 18,
	// 0x90-0x9F: 0x90 nop padding
	150, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18,
	// 0xA0-0xAF
	18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18,
	// 0xB0-0xBF: mov r32, imm32
	18, 18, 18, 18, 18, 18, 18, 18, 90, 18, 80, 18, 18, 18, 18, 18,
	// 0xC0-0xCF: 0xC0 ModRM, 0xC3 ret, 0xC7 mov imm, 0xCC int3 padding
	170, 110, 18, 140, 18, 18, 18, 140, 18, 18, 18, 18, 200, 18, 18, 18,
	// 0xD0-0xDF
	18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18,
	// 0xE0-0xEF: 0xE8 call rel32, 0xE9/0xEB jmp
	18, 18, 18, 18, 18, 18, 18, 18, 185, 120, 18, 130, 18, 18, 18, 18,
	// 0xF0-0xFF: 0xFF group-5 and sign-extended -1 immediates
	80, 18, 60, 80, 18, 18, 18, 18, 18, 18, 18, 18, 18, 18, 90, 240,
}

// ByteRank returns the frequency rank of a byte.
// Lower values indicate rarer bytes (better for search optimization).
func ByteRank(b byte) byte {
	return ByteFrequencies[b]
}

// RareByteInfo holds the anchors chosen for a masked needle.
//
// Index1 < Index2 whenever two distinct anchors exist, so the pair can be
// handed to MemchrPair with offset Index2-Index1. Count reports how many
// anchors were found: 0 when the needle has no exact unit, 1 when all exact
// units share one value.
type RareByteInfo struct {
	Byte1  byte
	Index1 int
	Byte2  byte
	Index2 int
	Count  int
}

// SelectRareBytes picks the two rarest exact bytes of a masked needle.
//
// Only positions whose mask is 0xFF are eligible: a partial or wildcard unit
// cannot be located with byte equality. A nil masks slice means every
// position is exact. The second anchor must hold a value different from the
// first, otherwise the pair adds no selectivity.
//
// The algorithm:
//  1. Walk the exact positions, tracking the rarest byte seen
//  2. Track the rarest byte whose value differs from the current rarest
//  3. Order the two anchors by position
func SelectRareBytes(values, masks []byte) RareByteInfo {
	var info RareByteInfo
	idx1, idx2 := -1, -1

	for i, b := range values {
		if masks != nil && masks[i] != 0xFF {
			continue
		}
		rank := ByteFrequencies[b]
		switch {
		case idx1 < 0:
			idx1 = i
		case rank < ByteFrequencies[values[idx1]] && b != values[idx1]:
			// New rarest byte; the old one becomes the runner-up.
			idx2 = idx1
			idx1 = i
		case b != values[idx1] && (idx2 < 0 || rank < ByteFrequencies[values[idx2]]):
			idx2 = i
		}
	}

	if idx1 < 0 {
		return info
	}
	info.Byte1, info.Index1, info.Count = values[idx1], idx1, 1
	if idx2 < 0 {
		return info
	}

	if idx2 < idx1 {
		idx1, idx2 = idx2, idx1
	}
	info.Byte1, info.Index1 = values[idx1], idx1
	info.Byte2, info.Index2 = values[idx2], idx2
	info.Count = 2
	return info
}
