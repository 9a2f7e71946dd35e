package protocol

// OCR is the 32-bit operating conditions register returned by CMD58.
type OCR uint32

// Ready reports whether the card's power-up routine has finished.
func (o OCR) Ready() bool {
	return uint32(o)&OCRPowerUpBit != 0
}

// BlockAddressed reports whether the CCS flag is set, meaning the card
// uses block (sector) addressing rather than byte addressing.
func (o OCR) BlockAddressed() bool {
	return uint32(o)&OCRCCSBit != 0
}

// CSD holds the fields of the card-specific data register that the driver
// needs for capacity reporting. Returned by ParseCSD.
type CSD struct {
	// Version is the CSD structure version: 1 for standard capacity,
	// 2 for high/extended capacity
	Version int

	// Sectors is the card capacity in 512-byte sectors
	Sectors uint32

	// EraseBlockSectors is the erase unit size in 512-byte sectors
	EraseBlockSectors uint32
}
