package protocol

// ParseCSD decodes a 16-byte card-specific data register.
//
// Two register layouts exist. Version 1.0 (standard capacity cards and
// MMC) encodes capacity as (C_SIZE+1) * 2^(C_SIZE_MULT+2) blocks of
// 2^READ_BL_LEN bytes. Version 2.0 (high capacity cards) encodes it as
// (C_SIZE+1) * 512 KiB directly.
//
// Returns CSDFormatError if the register length or structure version is
// not recognized.
func ParseCSD(reg []byte) (CSD, error) {
	if len(reg) != RegisterSize {
		return CSD{}, &TruncatedResponseError{Response: "CSD", Want: RegisterSize, Got: len(reg)}
	}

	switch reg[0] >> 6 {
	case 0: // CSD version 1.0
		readBlockLen := uint(reg[5] & 0x0F)
		cSize := uint32(reg[6]&0x03)<<10 | uint32(reg[7])<<2 | uint32(reg[8])>>6
		cSizeMult := uint(reg[9]&0x03)<<1 | uint(reg[10])>>7

		// capacity in read blocks, then rescaled to 512-byte sectors
		blocks := (cSize + 1) << (cSizeMult + 2)
		sectors := blocks << readBlockLen >> 9

		// SECTOR_SIZE field: erase sector size in write blocks
		eraseSize := uint32(reg[10]&0x3F)<<1 | uint32(reg[11])>>7
		eraseSectors := (eraseSize + 1) << readBlockLen >> 9
		if eraseSectors == 0 {
			eraseSectors = 1
		}

		return CSD{Version: 1, Sectors: sectors, EraseBlockSectors: eraseSectors}, nil

	case 1: // CSD version 2.0
		cSize := uint32(reg[7]&0x3F)<<16 | uint32(reg[8])<<8 | uint32(reg[9])

		// The erase unit (AU size) of version 2 cards lives in the SD
		// status register, not the CSD. Report 1 for unknown.
		return CSD{Version: 2, Sectors: (cSize + 1) << 10, EraseBlockSectors: 1}, nil

	default:
		return CSD{}, &CSDFormatError{Structure: reg[0] >> 6}
	}
}
