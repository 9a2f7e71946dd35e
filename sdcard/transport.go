package sdcard

// Transport is the physical bus capability the driver is built on.
// Implementations exchange single bytes over a synchronous serial link
// (SPI mode 0) and control the card's chip-select line.
//
// The driver never generates clock edges or touches pins itself; it only
// calls Exchange and Select/Deselect. This keeps the protocol logic
// independent of the host: a memory-mapped SPI peripheral, a USB bridge,
// or a simulated card all satisfy the same interface.
//
// Transport implementations are not required to be safe for concurrent
// use. The bus is a single shared resource; see the diskio package for
// the serialization boundary.
type Transport interface {
	// Exchange clocks one byte out while clocking one byte in.
	// SPI is full duplex: to receive, the driver transmits 0xFF.
	Exchange(b byte) (byte, error)

	// Select asserts the chip-select line (drives it low).
	Select()

	// Deselect releases the chip-select line.
	Deselect()
}

// ClockRater is optionally implemented by transports whose bus clock rate
// can be changed at runtime. The handshake must run at 400 kHz or below;
// once the card reports ready the driver asks for the configured full rate.
type ClockRater interface {
	SetClockRate(hz uint32) error
}

// idleByte is what the host transmits while listening. The data-out line
// idles high, so a full 0xFF byte produces eight clock cycles without
// starting a frame.
const idleByte = 0xFF
