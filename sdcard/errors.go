package sdcard

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by driver operations.
var (
	// ErrNotPresent means no card acknowledged the reset command.
	ErrNotPresent = errors.New("sdcard: no card present")

	// ErrNotReady means a transfer was attempted while the card is not
	// in the Ready state. The bus is not touched in this case.
	ErrNotReady = errors.New("sdcard: card not initialized")

	// ErrReadTimeout means the card never raised the data-start token
	// within the read timeout. The destination buffer contents are
	// undefined.
	ErrReadTimeout = errors.New("sdcard: timeout waiting for data token")

	// ErrWriteTimeout means the card stayed busy past the write timeout.
	ErrWriteTimeout = errors.New("sdcard: timeout waiting for write completion")
)

// CommandTimeoutError means the card never produced a response byte for a
// command within the bounded polling window.
type CommandTimeoutError struct {
	// Cmd is the index of the unanswered command
	Cmd byte
}

func (e *CommandTimeoutError) Error() string {
	return fmt.Sprintf("sdcard: CMD%d: no response from card", e.Cmd)
}

// VoltageMismatchError means the CMD8 echo did not match the supplied
// voltage window and check pattern. The card cannot operate at the host
// voltage, or the bus is corrupting frames.
type VoltageMismatchError struct {
	Voltage byte
	Pattern byte
}

func (e *VoltageMismatchError) Error() string {
	return fmt.Sprintf("sdcard: interface condition mismatch: voltage 0x%X, pattern 0x%02X",
		e.Voltage, e.Pattern)
}

// WriteRejectedError means the card refused a write data block.
// Token holds the masked data response bits.
type WriteRejectedError struct {
	Token byte
}

func (e *WriteRejectedError) Error() string {
	reason := "unknown"
	switch e.Token {
	case 0x0B:
		reason = "CRC error"
	case 0x0D:
		reason = "write error"
	}
	return fmt.Sprintf("sdcard: write rejected: %s (0x%02X)", reason, e.Token)
}

// DataTokenError means the card answered a read with an error token
// instead of the data-start token.
type DataTokenError struct {
	Token byte
}

func (e *DataTokenError) Error() string {
	return fmt.Sprintf("sdcard: unexpected data token 0x%02X", e.Token)
}

// CRCError means a read data block failed its CRC16 check. Only produced
// when CRC checking is enabled via WithCRCCheck.
type CRCError struct {
	Want uint16
	Got  uint16
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("sdcard: data CRC mismatch: computed 0x%04X, received 0x%04X",
		e.Want, e.Got)
}

// BufferSizeError means a transfer buffer is not a whole number of
// 512-byte blocks.
type BufferSizeError struct {
	Len int
}

func (e *BufferSizeError) Error() string {
	return fmt.Sprintf("sdcard: buffer length %d is not a multiple of the 512-byte block size", e.Len)
}
