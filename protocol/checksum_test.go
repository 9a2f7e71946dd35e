package protocol

import "testing"

func TestCRC7(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{
			name:     "CMD0 with zero argument",
			data:     []byte{0x40, 0x00, 0x00, 0x00, 0x00},
			expected: 0x95 >> 1, // frame byte 0x95 carries crc7<<1|1
		},
		{
			name:     "CMD8 with interface condition argument",
			data:     []byte{0x48, 0x00, 0x00, 0x01, 0xAA},
			expected: 0x87 >> 1,
		},
		{
			name:     "CMD58 with zero argument",
			data:     []byte{0x7A, 0x00, 0x00, 0x00, 0x00},
			expected: 0xFD >> 1,
		},
		{
			name:     "empty data",
			data:     []byte{},
			expected: 0x00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CRC7(tt.data)
			if got != tt.expected {
				t.Errorf("CRC7(%v) = 0x%02X, want 0x%02X", tt.data, got, tt.expected)
			}
		})
	}
}

func TestCRC16(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name:     "empty data",
			data:     []byte{},
			expected: 0x0000,
		},
		{
			name:     "XMODEM check string",
			data:     []byte("123456789"),
			expected: 0x31C3,
		},
		{
			name:     "block of 0xFF",
			data:     fillBlock(0xFF),
			expected: 0x7FA1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CRC16(tt.data)
			if got != tt.expected {
				t.Errorf("CRC16 = 0x%04X, want 0x%04X", got, tt.expected)
			}
		})
	}
}

func fillBlock(b byte) []byte {
	block := make([]byte, BlockSize)
	for i := range block {
		block[i] = b
	}
	return block
}
