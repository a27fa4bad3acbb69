package dialog

const (
	minMatch = 3
	maxChain = 64
)

// lzEncode produces a bitmask stream for DecompressBlock using greedy
// matching over hash chains of three byte prefixes.
func lzEncode(src []byte) []byte {
	out := make([]byte, 0, len(src)+len(src)/8+2)

	head := make(map[uint32]int)
	prev := make([]int, len(src))
	insert := func(i int) {
		if i+minMatch > len(src) {
			return
		}
		k := key(src, i)
		if p, ok := head[k]; ok {
			prev[i] = p
		} else {
			prev[i] = -1
		}
		head[k] = i
	}

	match := func(i int) (offset, length int) {
		if i+minMatch > len(src) {
			return 0, 0
		}
		p, ok := head[key(src, i)]
		if !ok {
			return 0, 0
		}
		limit := len(src) - i
		if limit > maxLength {
			limit = maxLength
		}
		for steps := 0; p >= 0 && i-p <= maxOffset && steps < maxChain; steps++ {
			n := 0
			for n < limit && src[p+n] == src[i+n] {
				n++
			}
			if n > length {
				offset, length = i-p, n
				if n == limit {
					break
				}
			}
			p = prev[p]
		}
		return offset, length
	}

	maskPos, bit := 0, 16
	for i := 0; i < len(src); {
		if bit == 16 {
			maskPos = len(out)
			out = append(out, 0, 0)
			bit = 0
		}

		if offset, length := match(i); length >= minMatch {
			out[maskPos+bit/8] |= 1 << (bit % 8)
			out = append(out, byte(offset>>8)<<4|byte(length-1), byte(offset))
			for j := 0; j < length; j++ {
				insert(i + j)
			}
			i += length
		} else {
			out = append(out, src[i])
			insert(i)
			i++
		}
		bit++
	}
	return out
}

func key(b []byte, i int) uint32 {
	return uint32(b[i]) | uint32(b[i+1])<<8 | uint32(b[i+2])<<16
}
