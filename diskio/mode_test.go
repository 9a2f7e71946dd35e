package diskio

import "testing"

func TestNamedModeValues(t *testing.T) {
	tests := []struct {
		name string
		mode OpenMode
		want byte
	}{
		{"r", ModeR, 0x01},
		{"r+", ModeRPlus, 0x03},
		{"w", ModeW, 0x0A},
		{"w+", ModeWPlus, 0x0B},
		{"a", ModeA, 0x32},
		{"a+", ModeAPlus, 0x33},
		{"wx", ModeWX, 0x06},
		{"w+x", ModeWPlusX, 0x07},
		{"open-always write", ModeOAW, 0x12},
		{"open-always read-write", ModeOAWR, 0x13},
		{"open-existing write", ModeOEW, 0x02},
		{"open-existing read-write", ModeOEWR, 0x03},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if byte(test.mode) != test.want {
				t.Fatalf("mode = %#02x, want %#02x", byte(test.mode), test.want)
			}
		})
	}
}

func TestModeAccess(t *testing.T) {
	if !ModeR.CanRead() || ModeR.CanWrite() {
		t.Fatal("read-only mode misreports access")
	}
	if ModeOEW.CanRead() || !ModeOEW.CanWrite() {
		t.Fatal("write-only mode misreports access")
	}
	if !ModeRPlus.CanRead() || !ModeRPlus.CanWrite() {
		t.Fatal("read-write mode misreports access")
	}
}
