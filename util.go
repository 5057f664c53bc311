package fptable

import (
	"encoding/hex"
	"log/slog"
)

// inc increments data in place as a big-endian counter, returning false
// if it overflowed (all bytes were already 0xFF) and true otherwise. Used
// by storageCursor.SeekLast to probe the successor of a key prefix.
func inc(data []byte) bool {
	n := len(data)
	for i := n - 1; i >= 0; i-- {
		if data[i] != 0xFF {
			for j := i; j < n; j++ {
				data[j]++
			}
			return true
		}
	}
	return false
}

// dec is inc's inverse, returning false if it underflowed (all bytes
// were already 0x00). Nothing in the package calls it outside tests.
func dec(data []byte) bool {
	n := len(data)
	for i := n - 1; i >= 0; i-- {
		if data[i] != 0 {
			for j := i; j < n; j++ {
				data[j]--
			}
			return true
		}
	}
	return false
}

func hexstr(b []byte) string {
	if b == nil {
		return "<nil>"
	}
	if len(b) == 0 {
		return "<empty>"
	}
	return hex.EncodeToString(b)
}

func hexAttr(key string, b []byte) slog.Attr {
	return slog.String(key, hexstr(b))
}
