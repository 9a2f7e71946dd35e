package sdcard

import (
	"time"

	"github.com/sdonnelly11/go-sdspi/protocol"
)

// CardType identifies the card generation determined during initialization.
// It selects the addressing arithmetic used by every subsequent transfer:
// block-addressed cards take a sector index as the command argument,
// byte-addressed cards take a byte offset.
type CardType byte

// Card type values. The bit layout matches the usual MMC/SDC convention:
// bit 0 MMC, bit 1 SD v1, bit 2 SD v2, bit 3 block addressing.
const (
	// TypeUnknown means initialization has not completed
	TypeUnknown CardType = 0x00

	// TypeMMC is an MMC version 3 card
	TypeMMC CardType = 0x01

	// TypeSDv1 is an SD version 1 card (byte addressed)
	TypeSDv1 CardType = 0x02

	// TypeSDv2Byte is a standard capacity SD version 2 card
	TypeSDv2Byte CardType = 0x04

	// TypeSDv2Block is a high capacity SD version 2 card
	TypeSDv2Block CardType = 0x0C
)

// BlockAddressed reports whether command arguments are sector indexes
// rather than byte offsets for this card type.
func (t CardType) BlockAddressed() bool {
	return t == TypeSDv2Block
}

func (t CardType) String() string {
	switch t {
	case TypeMMC:
		return "MMC"
	case TypeSDv1:
		return "SDv1"
	case TypeSDv2Byte:
		return "SDv2 (byte addressed)"
	case TypeSDv2Block:
		return "SDv2 (block addressed)"
	default:
		return "unknown"
	}
}

// State is the drive state gating transfer operations.
type State byte

const (
	// StateUninitialized means Initialize has not been called (or is in
	// progress)
	StateUninitialized State = iota

	// StateReady means the handshake succeeded and transfers are allowed
	StateReady

	// StateNotPresent means no card answered the handshake
	StateNotPresent

	// StateError means the handshake or a transfer failed; only a fresh
	// Initialize leaves this state
	StateError
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateNotPresent:
		return "not present"
	case StateError:
		return "error"
	default:
		return "uninitialized"
	}
}

// responseAttempts is the bounded number of byte exchanges polled for a
// command response (NCR in the protocol timing tables).
const responseAttempts = 8

// idleClockBytes provides the mandatory pre-command idle clocks: 10 bytes
// are 80 cycles, beyond the required 74.
const idleClockBytes = 10

// Card drives one SD or MMC card attached over a synchronous serial bus.
//
// A Card owns no global state: multiple cards on separate transports can
// coexist in one process. Card is not safe for concurrent use; the bus is
// a single shared resource and callers must serialize access (the diskio
// package does this at the adapter boundary).
type Card struct {
	bus      Transport
	config   Config
	state    State
	cardType CardType
}

// New creates a driver for a card reachable through the given transport.
// No bus traffic happens until Initialize is called.
//
// Example:
//
//	card := sdcard.New(bus,
//	    sdcard.WithLogger(myLogger),
//	    sdcard.WithFullRate(25_000_000),
//	)
func New(bus Transport, opts ...Option) *Card {
	if bus == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Card{
		bus:    bus,
		config: cfg,
	}
}

// State returns the current drive state.
func (c *Card) State() State {
	return c.state
}

// Type returns the card type determined by the last successful
// initialization, or TypeUnknown.
func (c *Card) Type() CardType {
	return c.cardType
}

// Initialize brings the card from power-on to the Ready state and
// determines its type.
//
// Initialize is idempotent: when the card is already Ready it returns
// immediately without any bus traffic. After a failure (including a
// transfer timeout that downgraded the state) calling Initialize again
// restarts the handshake from scratch.
func (c *Card) Initialize() error {
	if c.state == StateReady {
		return nil
	}
	c.state = StateUninitialized
	c.cardType = TypeUnknown

	// mandatory pre-command idle clocks, chip select released
	c.bus.Deselect()
	for i := 0; i < idleClockBytes; i++ {
		if _, err := c.bus.Exchange(idleByte); err != nil {
			c.state = StateError
			return err
		}
	}

	typ, err := c.handshake()
	c.release()
	if err != nil {
		if err == ErrNotPresent {
			c.state = StateNotPresent
		} else {
			c.state = StateError
		}
		c.logError("initialization failed", "err", err.Error())
		return err
	}

	c.cardType = typ
	c.state = StateReady
	c.logInfo("card initialized", "type", typ.String())

	if rater, ok := c.bus.(ClockRater); ok && c.config.FullRateHz > 0 {
		if err := rater.SetClockRate(c.config.FullRateHz); err != nil {
			// the card works at the handshake rate; stay there
			c.logError("full clock rate not applied", "err", err.Error())
		}
	}
	return nil
}

// handshake runs the reset-and-identify sequence and returns the card
// type. The caller owns state transitions and bus release.
func (c *Card) handshake() (CardType, error) {
	// CMD0: software reset, expect the idle response
	idle := false
	for i := 0; i < c.config.ResetAttempts; i++ {
		r1, err := c.command(protocol.CmdGoIdleState, 0)
		if err == nil && r1 == protocol.R1Idle {
			idle = true
			break
		}
	}
	if !idle {
		return TypeUnknown, ErrNotPresent
	}

	deadline := c.config.Clock().Add(c.config.InitTimeout)

	// CMD8: interface condition. Version 2 cards echo the argument;
	// older cards reject the command as illegal.
	r1, err := c.command(protocol.CmdSendIfCond, protocol.IfCondArg)
	if err != nil {
		return TypeUnknown, err
	}
	if r1&protocol.R1IllegalCommand != 0 {
		c.logDebug("interface condition rejected, legacy card")
		return c.initLegacy(deadline)
	}

	tail, err := c.responseTail(4)
	if err != nil {
		return TypeUnknown, err
	}
	voltage, pattern, err := protocol.ParseR7(tail)
	if err != nil {
		return TypeUnknown, err
	}
	if voltage != protocol.IfCondVoltageOK || pattern != protocol.IfCondCheckPattern {
		return TypeUnknown, &VoltageMismatchError{Voltage: voltage, Pattern: pattern}
	}

	// ACMD41 with host capacity support until the busy bit clears
	if err := c.waitOpCond(true, protocol.HCSBit, deadline); err != nil {
		return TypeUnknown, err
	}

	// CMD58: the CCS bit in the OCR separates byte from block addressing
	r1, err = c.command(protocol.CmdReadOCR, 0)
	if err != nil {
		return TypeUnknown, err
	}
	if protocol.R1Err(r1) {
		return TypeUnknown, &protocol.ResponseError{Cmd: protocol.CmdReadOCR, R1: r1}
	}
	tail, err = c.responseTail(4)
	if err != nil {
		return TypeUnknown, err
	}
	ocr, err := protocol.ParseOCR(tail)
	if err != nil {
		return TypeUnknown, err
	}
	c.logDebug("operating conditions read", "ocr", uint32(ocr))
	if ocr.BlockAddressed() {
		return TypeSDv2Block, nil
	}

	if err := c.setBlockLen(); err != nil {
		return TypeUnknown, err
	}
	return TypeSDv2Byte, nil
}

// initLegacy disambiguates SD version 1 from MMC and runs the matching
// initialization loop. A version 1 SD card answers the application
// command; an MMC card rejects it and wants CMD1 instead.
func (c *Card) initLegacy(deadline time.Time) (CardType, error) {
	r1, err := c.appCommand(protocol.AcmdSDSendOpCond, 0)
	sd := err == nil && r1 <= protocol.R1Idle

	typ := TypeMMC
	if sd {
		typ = TypeSDv1
	}
	if err := c.waitOpCond(sd, 0, deadline); err != nil {
		return TypeUnknown, err
	}
	if err := c.setBlockLen(); err != nil {
		return TypeUnknown, err
	}
	return typ, nil
}

// waitOpCond repeats the initialization command until the card leaves the
// idle state or the deadline passes. SD cards use ACMD41, with the host
// capacity flag in arg on the version 2 path; MMC cards use CMD1.
func (c *Card) waitOpCond(sd bool, arg uint32, deadline time.Time) error {
	cmd := byte(protocol.CmdSendOpCond)
	if sd {
		cmd = protocol.AcmdSDSendOpCond
	}

	for {
		var r1 byte
		var err error
		if sd {
			r1, err = c.appCommand(cmd, arg)
		} else {
			r1, err = c.command(cmd, arg)
		}
		if err == nil && r1 == 0 {
			return nil
		}
		if err == nil && protocol.R1Err(r1) {
			return &protocol.ResponseError{Cmd: cmd, R1: r1}
		}
		if !c.config.Clock().Before(deadline) {
			return &CommandTimeoutError{Cmd: cmd}
		}
	}
}

// setBlockLen forces 512-byte blocks on byte-addressed cards so every
// card type moves the same sector size.
func (c *Card) setBlockLen() error {
	r1, err := c.command(protocol.CmdSetBlocklen, protocol.BlockSize)
	if err != nil {
		return err
	}
	if protocol.R1Err(r1) {
		return &protocol.ResponseError{Cmd: protocol.CmdSetBlocklen, R1: r1}
	}
	return nil
}

// command asserts chip select, waits for the card to leave any previous
// busy phase, clocks out the 6-byte frame, and polls a bounded number of
// byte exchanges for the R1 response.
//
// Chip select stays asserted on return so the caller can continue with a
// data phase; every public operation releases the bus on all exit paths.
func (c *Card) command(cmd byte, arg uint32) (byte, error) {
	c.bus.Select()

	if cmd != protocol.CmdStopTransmission {
		if err := c.waitReady(c.config.WriteTimeout); err != nil {
			return 0, err
		}
	}

	frame := protocol.BuildCommand(cmd, arg)
	for _, b := range frame {
		if _, err := c.bus.Exchange(b); err != nil {
			return 0, err
		}
	}

	// CMD12 is followed by one stuff byte before the response window
	if cmd == protocol.CmdStopTransmission {
		if _, err := c.bus.Exchange(idleByte); err != nil {
			return 0, err
		}
	}

	for i := 0; i < responseAttempts; i++ {
		b, err := c.bus.Exchange(idleByte)
		if err != nil {
			return 0, err
		}
		if protocol.R1Valid(b) {
			return b, nil
		}
	}
	return 0, &CommandTimeoutError{Cmd: cmd}
}

// appCommand escapes cmd with CMD55 and sends it.
func (c *Card) appCommand(cmd byte, arg uint32) (byte, error) {
	r1, err := c.command(protocol.CmdAppCmd, 0)
	if err != nil {
		return 0, err
	}
	if protocol.R1Err(r1) {
		return 0, &protocol.ResponseError{Cmd: protocol.CmdAppCmd, R1: r1}
	}
	return c.command(cmd, arg)
}

// responseTail reads the n bytes trailing an R1 in R3/R7 responses.
func (c *Card) responseTail(n int) ([]byte, error) {
	tail := make([]byte, n)
	for i := range tail {
		b, err := c.bus.Exchange(idleByte)
		if err != nil {
			return nil, err
		}
		tail[i] = b
	}
	return tail, nil
}

// waitReady busy-polls until the card releases the data-out line (0xFF)
// or the timeout passes. The card holds the line low while an internal
// write or erase is in flight.
func (c *Card) waitReady(timeout time.Duration) error {
	deadline := c.config.Clock().Add(timeout)
	for {
		b, err := c.bus.Exchange(idleByte)
		if err != nil {
			return err
		}
		if b == idleByte {
			return nil
		}
		if !c.config.Clock().Before(deadline) {
			return ErrWriteTimeout
		}
	}
}

// release deasserts chip select and clocks one trailing idle byte so the
// card can finish internal processing, as the protocol requires after
// every transaction.
func (c *Card) release() {
	c.bus.Deselect()
	c.bus.Exchange(idleByte)
}

// transferArg translates a logical sector number into the command
// argument for the current card type.
func (c *Card) transferArg(sector uint32) uint32 {
	if c.cardType.BlockAddressed() {
		return sector
	}
	return sector * protocol.BlockSize
}
