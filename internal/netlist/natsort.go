package netlist

import (
	"sort"
	"strings"
)

// CompareNatural orders strings by alternating text and numeric runs:
// numeric runs compare as integers, text runs compare case-insensitively,
// and a shorter prefix orders first. This places U2 before U10.
func CompareNatural(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			// Compare the full numeric runs as integers without overflow:
			// strip leading zeros, then longer run wins, then bytewise.
			ai, bj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := strings.TrimLeft(a[ai:i], "0")
			nb := strings.TrimLeft(b[bj:j], "0")
			if len(na) != len(nb) {
				if len(na) < len(nb) {
					return -1
				}
				return 1
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			continue
		}
		ca, cb := lower(a[i]), lower(b[j])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	return 0
}

// SortNatural sorts in place using CompareNatural.
func SortNatural(items []string) {
	sort.SliceStable(items, func(i, j int) bool {
		return CompareNatural(items[i], items[j]) < 0
	})
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
