// Package sdcard drives SD and MMC cards attached over a synchronous
// serial bus (SPI mode), exposing them as 512-byte block devices.
//
// # Overview
//
// The package covers the two hard parts of the protocol:
//
//   - the reset-and-identify handshake, which negotiates voltage, card
//     generation (MMC, SD v1, SD v2) and addressing mode (byte or block)
//   - single- and multiple-block transfers with data-token framing,
//     busy polling, and timeout enforcement
//
// # Basic Usage
//
//	// User provides the bus capability (byte exchange + chip select)
//	bus := myboard.OpenSPI()
//
//	card := sdcard.New(bus)
//	if err := card.Initialize(); err != nil {
//	    log.Fatal(err)
//	}
//
//	buf := make([]byte, 512)
//	if err := card.ReadBlocks(0, buf); err != nil {
//	    log.Fatal(err)
//	}
//
// # Hardware Independence
//
// This package does NOT implement hardware communication. Users provide a
// Transport for their specific bus:
//
//	type MySPI struct {
//	    // ... your SPI peripheral
//	}
//
//	func (s *MySPI) Exchange(b byte) (byte, error) { ... }
//	func (s *MySPI) Select()                       { ... }
//	func (s *MySPI) Deselect()                     { ... }
//
// This design allows the driver to work with any byte-exchange capable
// link: a microcontroller SPI peripheral, a USB bridge, or a simulated
// card for testing. A transport that also implements ClockRater gets a
// rate-raise request once initialization completes.
//
// # Time and Timeouts
//
// Every wait is a time-bounded polling loop against an injected clock
// (WithClock); there is no blocking I/O and no cancellation path
// mid-transfer. When a wait expires the operation returns a timeout error
// and the drive state is downgraded, because the card's internal state
// after a truncated transfer is unknown. A fresh Initialize recovers.
//
// # Configuration Options
//
//	card := sdcard.New(bus,
//	    sdcard.WithLogger(myLogger),
//	    sdcard.WithReadTimeout(100*time.Millisecond),
//	    sdcard.WithWriteTimeout(500*time.Millisecond),
//	    sdcard.WithCRCCheck(true),
//	    sdcard.WithFullRate(25_000_000),
//	)
//
// # Error Handling
//
// The package provides structured error types:
//   - ErrNotPresent: no card answered the reset command
//   - ErrNotReady: transfer attempted before a successful Initialize
//   - ErrReadTimeout / ErrWriteTimeout: a bounded wait expired
//   - CommandTimeoutError: a command got no response byte
//   - VoltageMismatchError: the CMD8 echo did not match
//   - WriteRejectedError: the card refused a write data block
//   - protocol.ResponseError: a command was rejected with R1 error bits
//
// No error is fatal to the process; every one is recoverable by calling
// Initialize again.
//
// # Concurrency
//
// Card is not safe for concurrent use. The bus (chip select, clock) is a
// single shared resource; callers needing multi-task access must
// serialize at an outer boundary. The diskio package holds a mutex for
// the duration of each adapter call.
package sdcard
