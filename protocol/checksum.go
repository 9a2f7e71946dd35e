package protocol

// Checksum algorithm constants.
const (
	// CRC7Polynomial is the CRC-7 polynomial x^7 + x^3 + 1 (0x09)
	CRC7Polynomial = 0x09

	// CRC16Polynomial is the CRC-16-CCITT polynomial (0x1021)
	CRC16Polynomial = 0x1021

	// CRC16HighBitMask is the high bit mask for CRC-16 calculations
	CRC16HighBitMask = 0x8000

	// BitsPerByte is the number of bits per byte
	BitsPerByte = 8
)

// CRC7 computes the 7-bit cyclic redundancy check used by command frames.
//
// The CRC covers the first five frame bytes (index byte plus the 32-bit
// argument). The returned value occupies the low 7 bits; the caller shifts
// it left by one and sets the end bit to form the final frame byte.
func CRC7(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < BitsPerByte; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ (CRC7Polynomial << 1)
			} else {
				crc <<= 1
			}
		}
	}
	return crc >> 1
}

// CRC16 computes the CRC-16-CCITT checksum used by data blocks.
//
// SD cards use the CCITT polynomial with a zero initial value (the XMODEM
// variant). In SPI mode the data CRC is only checked when the host has
// explicitly enabled it, but the two CRC bytes are always present on the
// wire and must always be clocked.
func CRC16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < BitsPerByte; i++ {
			if crc&CRC16HighBitMask != 0 {
				crc = (crc << 1) ^ CRC16Polynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
