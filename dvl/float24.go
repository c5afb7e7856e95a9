package dvl

import "math"

// Float24 converts f to the PICA200 24-bit float format:
// 1 sign bit, 7 exponent bits (bias 63) and 16 mantissa bits.
// The result occupies the low 24 bits of the returned word.
func Float24(f float32) uint32 {
	return Float24Bits(math.Float32bits(f))
}

// Float24Bits converts an IEEE-754 single precision bit pattern to f24.
//
// The mantissa is truncated, not rounded. Exponents below the f24 range
// flush to a signed zero and exponents above it saturate to the largest
// exponent with a zero mantissa. NaN and infinity patterns go through the
// same arithmetic and saturate as well.
func Float24Bits(bits uint32) uint32 {
	mantissa := (bits << 9) >> 9
	exponent := int32((bits << 1) >> 24)
	sign := bits >> 31

	mantissa >>= 7

	exponent = exponent - 127 + 63
	if exponent < 0 {
		return sign << 23
	} else if exponent > 0x7F {
		return (sign << 23) | (0x7F << 16)
	}

	return (sign << 23) | (uint32(exponent) << 16) | mantissa
}

// Float24ToFloat32 expands an f24 value back to float32.
// A zero exponent field decodes as a signed zero.
func Float24ToFloat32(v uint32) float32 {
	sign := (v >> 23) & 1
	exponent := (v >> 16) & 0x7F
	mantissa := v & 0xFFFF

	if exponent == 0 {
		return math.Float32frombits(sign << 31)
	}
	return math.Float32frombits(sign<<31 | (exponent-63+127)<<23 | mantissa<<7)
}
