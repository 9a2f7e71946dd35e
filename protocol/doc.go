// Package protocol implements the SD/MMC SPI-mode wire format.
//
// This package provides functions to build command frames and decode
// response tokens and registers according to the SD Physical Layer
// Simplified Specification (SPI mode).
//
// # Protocol Overview
//
// Every command is a fixed 6-byte frame:
//
//	Command: [0x40|INDEX][ARG(4, big-endian)][CRC7<<1|1]
//
// Responses are polled byte-by-byte; the card holds the line at 0xFF
// until the response starts. Three response formats matter in SPI mode:
//
//   - R1: a single status byte (most significant bit clear)
//   - R3: R1 followed by the 4-byte OCR register (CMD58)
//   - R7: R1 followed by 4 bytes echoing voltage and check pattern (CMD8)
//
// Data blocks are framed by a start token, 512 payload bytes, and a
// 16-bit CRC:
//
//	Read:  ... [0xFE][DATA(512)][CRC16(2)]
//	Write: [0xFE or 0xFC][DATA(512)][CRC16(2)] ... [data response token]
//
// # Command Builders
//
// Use BuildCommand to create frames:
//
//	frame := protocol.BuildCommand(protocol.CmdReadSingleBlock, addr)
//
// # Response Decoding
//
// Use R1Valid when polling for a response and R1Err to check it:
//
//	if protocol.R1Err(r1) {
//	    return &protocol.ResponseError{Cmd: cmd, R1: r1}
//	}
//
// The trailing bytes of R3/R7 responses and the CSD register have their
// own decoders: ParseOCR, ParseR7, ParseCSD.
//
// # Checksums
//
// CRC7 covers command frames and is mandatory for CMD0 and CMD8 (the
// commands sent before CRC checking can be disabled). CRC16 covers data
// blocks; cards ignore it in SPI mode unless explicitly enabled, but the
// two CRC bytes are always present and must be clocked to keep the bus
// framing aligned.
//
// This package is a pure codec: it never touches the bus. Sending frames
// and pacing the polling loops is the sdcard package's job.
package protocol
