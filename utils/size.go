package utils

import "fmt"

// ByteSize is a count of bytes in snapshot memory
type ByteSize int64

const (
	Byte ByteSize = 1
	KB   ByteSize = 1024 * Byte
	MB   ByteSize = 1024 * KB
	GB   ByteSize = 1024 * MB
)

// String renders the size with a binary unit, e.g. 1.50K
func (b ByteSize) String() string {
	if b < KB {
		return fmt.Sprintf("%dB", b)
	}

	unit, suffix := KB, "K"
	switch {
	case b >= GB:
		unit, suffix = GB, "G"
	case b >= MB:
		unit, suffix = MB, "M"
	}

	val := float64(b) / float64(unit)
	if val == float64(int64(val)) {
		return fmt.Sprintf("%.0f%s", val, suffix)
	}
	return fmt.Sprintf("%.2f%s", val, suffix)
}
