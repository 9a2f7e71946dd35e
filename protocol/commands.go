package protocol

import "encoding/binary"

// Frame is a 6-byte SPI-mode command frame ready to clock out on the bus.
//
// Frame structure:
//
//	[0x40|INDEX][ARG_31:24][ARG_23:16][ARG_15:8][ARG_7:0][CRC7<<1|1]
//
// The start bit is always 0 and the transmission bit always 1, so the
// first byte is the command index OR'd with 0x40. The final byte carries
// the 7-bit CRC over the first five bytes and a fixed end bit of 1.
type Frame [FrameSize]byte

// BuildCommand constructs the frame for a command index and 32-bit argument.
// The CRC is computed unconditionally; cards ignore it for most commands in
// SPI mode but CMD0 and CMD8 are always checked.
//
// BuildCommand is a pure function with no side effects; sending the frame
// and collecting the response is the driver's job.
func BuildCommand(index byte, arg uint32) Frame {
	var f Frame
	f[0] = 0x40 | (index & 0x3F)
	binary.BigEndian.PutUint32(f[1:5], arg)
	f[5] = CRC7(f[0:5])<<1 | 0x01
	return f
}

// Index returns the command index encoded in the frame.
func (f Frame) Index() byte {
	return f[0] & 0x3F
}

// Arg returns the 32-bit argument encoded in the frame.
func (f Frame) Arg() uint32 {
	return binary.BigEndian.Uint32(f[1:5])
}
