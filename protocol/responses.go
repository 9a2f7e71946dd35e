package protocol

import "encoding/binary"

// R1Valid reports whether a polled byte is a valid R1 response.
// The card holds the line at 0xFF until the response starts; a valid R1
// always has the most significant bit clear.
func R1Valid(b byte) bool {
	return b&0x80 == 0
}

// R1Err reports whether an R1 response carries any error bit.
// The idle bit is not an error; it simply means initialization is still
// in progress.
func R1Err(r1 byte) bool {
	return r1&^R1Idle != 0
}

// ParseR7 validates the 4 trailing bytes of a CMD8 (SEND_IF_COND) response.
// It returns the echoed voltage-accepted nibble and check pattern.
//
// A version 2.00 card echoes the voltage window and check pattern from the
// command argument; any mismatch means the card cannot operate at the
// supplied voltage (or the bus is corrupting frames) and initialization
// must not proceed.
func ParseR7(data []byte) (voltage byte, pattern byte, err error) {
	if len(data) != 4 {
		return 0, 0, &TruncatedResponseError{Response: "R7", Want: 4, Got: len(data)}
	}
	return data[2] & 0x0F, data[3], nil
}

// ParseOCR decodes the 4 trailing bytes of a CMD58 (READ_OCR) response
// into the 32-bit operating conditions register.
func ParseOCR(data []byte) (OCR, error) {
	if len(data) != 4 {
		return 0, &TruncatedResponseError{Response: "R3", Want: 4, Got: len(data)}
	}
	return OCR(binary.BigEndian.Uint32(data)), nil
}

// DataAccepted reports whether a write data response token signals
// acceptance of the data block.
func DataAccepted(token byte) bool {
	return token&DataRespMask == DataRespAccepted
}
