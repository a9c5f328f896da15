package format

import (
	"strconv"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal string,
// keeping a leading minus sign.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}
	var b strings.Builder
	b.Grow(len(prefix) + n + (n-1)/3)
	b.WriteString(prefix)
	head := n % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatLimbs renders a limb count with separators and its size in bits,
// for example "10,000 limbs (640,000 bits)".
func FormatLimbs(limbs, wordBits int) string {
	return FormatNumberString(strconv.Itoa(limbs)) + " limbs (" + FormatNumberString(strconv.Itoa(limbs*wordBits)) + " bits)"
}
