package utils

import "testing"

func TestByteSizeString(t *testing.T) {
	tests := []struct {
		size ByteSize
		want string
	}{
		{0, "0B"},
		{168, "168B"},
		{KB, "1K"},
		{1536, "1.50K"},
		{3 * MB, "3M"},
		{GB + GB/4, "1.25G"},
	}

	for _, tt := range tests {
		if got := tt.size.String(); got != tt.want {
			t.Errorf("ByteSize(%d).String() = %q, want %q", int64(tt.size), got, tt.want)
		}
	}
}
