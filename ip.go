package weburl

import (
	"math"
	"strconv"
	"strings"
)

// parseIPv4Number parses one dotted part in decimal, 0x hex or 0 octal.
// Values that do not fit in 32 bits are saturated to math.MaxUint64.
func parseIPv4Number(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	radix := uint64(10)
	switch {
	case len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		radix, s = 16, s[2:]
	case len(s) >= 2 && s[0] == '0':
		radix, s = 8, s[1:]
	}
	if s == "" {
		return 0, true
	}

	var n uint64
	for i := 0; i < len(s); i++ {
		var d uint64
		c := s[i]
		switch {
		case '0' <= c && c <= '9':
			d = uint64(c - '0')
		case radix == 16 && ishex(c):
			d = uint64(unhex(c))
		default:
			return 0, false
		}
		if d >= radix {
			return 0, false
		}
		if n > math.MaxUint32 {
			continue
		}
		n = n*radix + d
	}
	if n > math.MaxUint32 {
		n = math.MaxUint64
	}
	return n, true
}

// endsInNumber reports whether the last label of the domain looks
// numeric, which makes it subject to IPv4 parsing.
func endsInNumber(s string) bool {
	parts := strings.Split(s, ".")
	if parts[len(parts)-1] == "" {
		if len(parts) == 1 {
			return false
		}
		parts = parts[:len(parts)-1]
	}
	last := parts[len(parts)-1]
	if last != "" && strings.Trim(last, "0123456789") == "" {
		return true
	}
	if len(last) >= 2 && last[0] == '0' && (last[1] == 'x' || last[1] == 'X') {
		return strings.TrimLeft(last[2:], "0123456789abcdefABCDEF") == ""
	}
	return false
}

// parseIPv4 parses the dotted form, a shorter form fills the
// remaining bytes with the last part: "1.2" is 1.0.0.2.
func parseIPv4(s string) (uint32, error) {
	parts := strings.Split(s, ".")
	if parts[len(parts)-1] == "" && len(parts) > 1 {
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 4 {
		return 0, &HostParseError{s, "too many IPv4 parts"}
	}

	numbers := make([]uint64, len(parts))
	for i, part := range parts {
		n, ok := parseIPv4Number(part)
		if !ok {
			return 0, &HostParseError{s, "invalid IPv4 number"}
		}
		numbers[i] = n
	}
	for _, n := range numbers[:len(numbers)-1] {
		if n > 255 {
			return 0, &HostParseError{s, "IPv4 part out of range"}
		}
	}
	last := numbers[len(numbers)-1]
	if last >= 1<<(8*(5-len(numbers))) {
		return 0, &HostParseError{s, "IPv4 address out of range"}
	}

	ipv4 := last
	for i, n := range numbers[:len(numbers)-1] {
		ipv4 += n << (8 * (3 - i))
	}
	return uint32(ipv4), nil
}

func serializeIPv4(addr uint32) string {
	var b strings.Builder
	for i := 3; i >= 0; i-- {
		b.WriteString(strconv.Itoa(int(addr >> (8 * i) & 0xFF)))
		if i > 0 {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// parseIPv6 parses the text between the brackets of an IPv6 literal.
func parseIPv6(input string) (addr [8]uint16, err error) {
	fail := func(reason string) ([8]uint16, error) {
		return [8]uint16{}, &HostParseError{"[" + input + "]", reason}
	}
	// at returns the byte at i, or 0 past the end.
	at := func(i int) byte {
		if i < len(input) {
			return input[i]
		}
		return 0
	}

	pieceIndex, compress, pointer := 0, -1, 0
	if at(0) == ':' {
		if at(1) != ':' {
			return fail("unexpected leading colon")
		}
		pointer += 2
		pieceIndex++
		compress = pieceIndex
	}

loop:
	for pointer < len(input) {
		if pieceIndex == 8 {
			return fail("too many pieces")
		}
		if input[pointer] == ':' {
			if compress != -1 {
				return fail("multiple compressions")
			}
			pointer++
			pieceIndex++
			compress = pieceIndex
			continue
		}

		value, length := 0, 0
		for length < 4 && ishex(at(pointer)) {
			value = value<<4 | int(unhex(at(pointer)))
			pointer++
			length++
		}

		switch at(pointer) {
		case '.':
			if length == 0 {
				return fail("invalid IPv4 in IPv6")
			}
			pointer -= length
			if pieceIndex > 6 {
				return fail("too many pieces for embedded IPv4")
			}
			numbersSeen := 0
			for pointer < len(input) {
				ipv4Piece := -1
				if numbersSeen > 0 {
					if input[pointer] == '.' && numbersSeen < 4 {
						pointer++
					} else {
						return fail("invalid IPv4 in IPv6")
					}
				}
				if !isDigit(at(pointer)) {
					return fail("invalid IPv4 in IPv6")
				}
				for isDigit(at(pointer)) {
					number := int(at(pointer) - '0')
					switch ipv4Piece {
					case -1:
						ipv4Piece = number
					case 0:
						return fail("leading zero in embedded IPv4")
					default:
						ipv4Piece = ipv4Piece*10 + number
					}
					if ipv4Piece > 255 {
						return fail("embedded IPv4 out of range")
					}
					pointer++
				}
				addr[pieceIndex] = addr[pieceIndex]<<8 | uint16(ipv4Piece)
				numbersSeen++
				if numbersSeen == 2 || numbersSeen == 4 {
					pieceIndex++
				}
			}
			if numbersSeen != 4 {
				return fail("too few parts in embedded IPv4")
			}
			break loop
		case ':':
			pointer++
			if pointer >= len(input) {
				return fail("unexpected trailing colon")
			}
		case 0:
			if pointer < len(input) {
				return fail("invalid code point")
			}
		default:
			return fail("invalid code point")
		}
		addr[pieceIndex] = uint16(value)
		pieceIndex++
	}

	if compress != -1 {
		swaps := pieceIndex - compress
		pieceIndex = 7
		for pieceIndex != 0 && swaps > 0 {
			addr[pieceIndex], addr[compress+swaps-1] = addr[compress+swaps-1], addr[pieceIndex]
			pieceIndex--
			swaps--
		}
	} else if pieceIndex != 8 {
		return fail("too few pieces")
	}
	return addr, nil
}

// serializeIPv6 renders the address without brackets, compressing
// the first longest run of two or more zero pieces.
func serializeIPv6(addr [8]uint16) string {
	start, size := -1, 1
	for i := 0; i < 8; {
		if addr[i] != 0 {
			i++
			continue
		}
		j := i
		for j < 8 && addr[j] == 0 {
			j++
		}
		if j-i > size {
			start, size = i, j-i
		}
		i = j
	}

	var b strings.Builder
	ignore0 := false
	for i := 0; i < 8; i++ {
		if ignore0 && addr[i] == 0 {
			continue
		}
		ignore0 = false
		if i == start {
			if i == 0 {
				b.WriteString("::")
			} else {
				b.WriteByte(':')
			}
			ignore0 = true
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(addr[i]), 16))
		if i != 7 {
			b.WriteByte(':')
		}
	}
	return b.String()
}
