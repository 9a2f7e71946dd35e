package protocol

import "testing"

func TestParseCSD(t *testing.T) {
	tests := []struct {
		name        string
		reg         []byte
		wantVersion int
		wantSectors uint32
		wantErase   uint32
		wantErr     bool
	}{
		{
			name: "version 1 standard capacity 512 MiB",
			// READ_BL_LEN=9, C_SIZE=2047, C_SIZE_MULT=7, SECTOR_SIZE=63
			reg: []byte{
				0x00, 0x00, 0x00, 0x00, 0x00, 0x09, 0x01, 0xFF,
				0xC0, 0x03, 0x9F, 0x80, 0x00, 0x00, 0x00, 0x00,
			},
			wantVersion: 1,
			wantSectors: 1048576,
			wantErase:   64,
		},
		{
			name: "version 2 high capacity",
			// C_SIZE=15159
			reg: []byte{
				0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x3B, 0x37, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			wantVersion: 2,
			wantSectors: 15523840,
			wantErase:   1,
		},
		{
			name:    "truncated register",
			reg:     []byte{0x40, 0x00},
			wantErr: true,
		},
		{
			name: "unknown structure version",
			reg: []byte{
				0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csd, err := ParseCSD(tt.reg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if csd.Version != tt.wantVersion {
				t.Errorf("Version = %d, want %d", csd.Version, tt.wantVersion)
			}
			if csd.Sectors != tt.wantSectors {
				t.Errorf("Sectors = %d, want %d", csd.Sectors, tt.wantSectors)
			}
			if csd.EraseBlockSectors != tt.wantErase {
				t.Errorf("EraseBlockSectors = %d, want %d", csd.EraseBlockSectors, tt.wantErase)
			}
		})
	}
}
