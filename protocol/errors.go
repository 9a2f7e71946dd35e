package protocol

import (
	"fmt"
	"strings"
)

// ResponseError represents a command rejected by the card.
// It carries the command index and the R1 status byte whose error bits
// describe the rejection reason.
type ResponseError struct {
	// Cmd is the index of the rejected command
	Cmd byte

	// R1 is the response byte returned by the card
	R1 byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("CMD%d rejected: %s (0x%02X)", e.Cmd, r1Reasons(e.R1), e.R1)
}

// IsResponseError returns true if the error is a ResponseError.
func IsResponseError(err error) bool {
	_, ok := err.(*ResponseError)
	return ok
}

// TruncatedResponseError indicates that a multi-byte response or register
// was shorter than the wire format requires.
type TruncatedResponseError struct {
	// Response names the response or register ("R3", "R7", "CSD")
	Response string

	Want int
	Got  int
}

func (e *TruncatedResponseError) Error() string {
	return fmt.Sprintf("truncated %s response: got %d bytes, want %d", e.Response, e.Got, e.Want)
}

// CSDFormatError indicates an unrecognized CSD structure version.
type CSDFormatError struct {
	// Structure is the 2-bit CSD_STRUCTURE field value
	Structure byte
}

func (e *CSDFormatError) Error() string {
	return fmt.Sprintf("unrecognized CSD structure version %d", e.Structure)
}

// r1Reasons returns a human-readable list of the error bits set in an R1
// response byte.
func r1Reasons(r1 byte) string {
	var reasons []string
	if r1&R1EraseReset != 0 {
		reasons = append(reasons, "erase reset")
	}
	if r1&R1IllegalCommand != 0 {
		reasons = append(reasons, "illegal command")
	}
	if r1&R1CRCError != 0 {
		reasons = append(reasons, "CRC error")
	}
	if r1&R1EraseSeqError != 0 {
		reasons = append(reasons, "erase sequence error")
	}
	if r1&R1AddressError != 0 {
		reasons = append(reasons, "address error")
	}
	if r1&R1ParameterError != 0 {
		reasons = append(reasons, "parameter error")
	}
	if len(reasons) == 0 {
		return "no error bits set"
	}
	return strings.Join(reasons, ", ")
}
