package sdcard

import (
	"github.com/sdonnelly11/go-sdspi/protocol"
)

// ReadBlocks reads len(buf)/512 consecutive blocks starting at the given
// logical sector into buf. A single block uses CMD17; longer reads use the
// CMD18 multiple-block path with a CMD12 stop.
//
// On any error the buffer contents are undefined and must not be trusted.
// A timeout downgrades the drive state; a fresh Initialize is required
// before further transfers.
func (c *Card) ReadBlocks(sector uint32, buf []byte) error {
	if c.state != StateReady {
		return ErrNotReady
	}
	if len(buf) == 0 || len(buf)%protocol.BlockSize != 0 {
		return &BufferSizeError{Len: len(buf)}
	}
	count := len(buf) / protocol.BlockSize

	defer c.release()

	if count == 1 {
		return c.fail(c.readSingle(sector, buf))
	}
	return c.fail(c.readMulti(sector, buf, count))
}

// WriteBlocks writes len(buf)/512 consecutive blocks from buf starting at
// the given logical sector. A single block uses CMD24; longer writes
// pre-announce the count (ACMD23 on SD, CMD23 on MMC) and stream blocks
// with CMD25.
//
// A rejected or timed-out block is not retried; the caller owns retry
// decisions. A timeout downgrades the drive state.
func (c *Card) WriteBlocks(sector uint32, buf []byte) error {
	if c.state != StateReady {
		return ErrNotReady
	}
	if len(buf) == 0 || len(buf)%protocol.BlockSize != 0 {
		return &BufferSizeError{Len: len(buf)}
	}
	count := len(buf) / protocol.BlockSize

	defer c.release()

	if count == 1 {
		return c.fail(c.writeSingle(sector, buf))
	}
	return c.fail(c.writeMulti(sector, buf, count))
}

// Sync blocks until the card has finished any pending internal write, or
// the write timeout passes. The filesystem layer calls this through the
// diskio sync ioctl before reporting a flush complete.
func (c *Card) Sync() error {
	if c.state != StateReady {
		return ErrNotReady
	}
	c.bus.Select()
	defer c.release()
	return c.fail(c.waitReady(c.config.WriteTimeout))
}

// SectorCount reads the CSD register and returns the card capacity in
// 512-byte sectors.
func (c *Card) SectorCount() (uint32, error) {
	csd, err := c.ReadCSD()
	if err != nil {
		return 0, err
	}
	return csd.Sectors, nil
}

// EraseBlockSize reads the CSD register and returns the erase unit size
// in 512-byte sectors (1 when the card does not report one).
func (c *Card) EraseBlockSize() (uint32, error) {
	csd, err := c.ReadCSD()
	if err != nil {
		return 0, err
	}
	return csd.EraseBlockSectors, nil
}

// ReadCSD reads and decodes the 16-byte card-specific data register.
func (c *Card) ReadCSD() (protocol.CSD, error) {
	reg, err := c.readRegister(protocol.CmdSendCSD)
	if err != nil {
		return protocol.CSD{}, err
	}
	return protocol.ParseCSD(reg)
}

// ReadCID reads the raw 16-byte card identification register.
func (c *Card) ReadCID() ([]byte, error) {
	return c.readRegister(protocol.CmdSendCID)
}

func (c *Card) readRegister(cmd byte) ([]byte, error) {
	if c.state != StateReady {
		return nil, ErrNotReady
	}
	defer c.release()

	r1, err := c.command(cmd, 0)
	if err != nil {
		return nil, c.fail(err)
	}
	if protocol.R1Err(r1) {
		return nil, &protocol.ResponseError{Cmd: cmd, R1: r1}
	}
	reg := make([]byte, protocol.RegisterSize)
	if err := c.readData(reg); err != nil {
		return nil, c.fail(err)
	}
	return reg, nil
}

func (c *Card) readSingle(sector uint32, buf []byte) error {
	r1, err := c.command(protocol.CmdReadSingleBlock, c.transferArg(sector))
	if err != nil {
		return err
	}
	if protocol.R1Err(r1) {
		return &protocol.ResponseError{Cmd: protocol.CmdReadSingleBlock, R1: r1}
	}
	return c.readData(buf)
}

func (c *Card) readMulti(sector uint32, buf []byte, count int) error {
	r1, err := c.command(protocol.CmdReadMultipleBlock, c.transferArg(sector))
	if err != nil {
		return err
	}
	if protocol.R1Err(r1) {
		return &protocol.ResponseError{Cmd: protocol.CmdReadMultipleBlock, R1: r1}
	}

	for i := 0; i < count; i++ {
		block := buf[i*protocol.BlockSize : (i+1)*protocol.BlockSize]
		if err := c.readData(block); err != nil {
			// best effort: stop the stream before reporting
			c.command(protocol.CmdStopTransmission, 0)
			return err
		}
	}

	r1, err = c.command(protocol.CmdStopTransmission, 0)
	if err != nil {
		return err
	}
	if protocol.R1Err(r1) {
		return &protocol.ResponseError{Cmd: protocol.CmdStopTransmission, R1: r1}
	}
	return nil
}

// readData waits for the data-start token within the read timeout, then
// clocks one data block plus its two CRC bytes. The CRC bytes are always
// consumed to keep the bus framing aligned; they are only verified when
// CRC checking is enabled.
func (c *Card) readData(buf []byte) error {
	deadline := c.config.Clock().Add(c.config.ReadTimeout)
	for {
		b, err := c.bus.Exchange(idleByte)
		if err != nil {
			return err
		}
		if b != idleByte {
			if b != protocol.TokenStartBlock {
				return &DataTokenError{Token: b}
			}
			break
		}
		if !c.config.Clock().Before(deadline) {
			return ErrReadTimeout
		}
	}

	for i := range buf {
		b, err := c.bus.Exchange(idleByte)
		if err != nil {
			return err
		}
		buf[i] = b
	}

	hi, err := c.bus.Exchange(idleByte)
	if err != nil {
		return err
	}
	lo, err := c.bus.Exchange(idleByte)
	if err != nil {
		return err
	}

	if c.config.CRCCheck {
		got := uint16(hi)<<8 | uint16(lo)
		if want := protocol.CRC16(buf); want != got {
			return &CRCError{Want: want, Got: got}
		}
	}
	return nil
}

func (c *Card) writeSingle(sector uint32, buf []byte) error {
	r1, err := c.command(protocol.CmdWriteBlock, c.transferArg(sector))
	if err != nil {
		return err
	}
	if protocol.R1Err(r1) {
		return &protocol.ResponseError{Cmd: protocol.CmdWriteBlock, R1: r1}
	}

	if err := c.writeData(protocol.TokenStartBlock, buf); err != nil {
		return err
	}
	return c.waitReady(c.config.WriteTimeout)
}

func (c *Card) writeMulti(sector uint32, buf []byte, count int) error {
	// pre-announce the block count so the card can pre-erase
	if c.cardType == TypeMMC {
		if r1, err := c.command(protocol.CmdSetBlockCount, uint32(count)); err != nil {
			return err
		} else if protocol.R1Err(r1) {
			return &protocol.ResponseError{Cmd: protocol.CmdSetBlockCount, R1: r1}
		}
	} else {
		if r1, err := c.appCommand(protocol.AcmdSetWrBlockEraseCount, uint32(count)); err != nil {
			return err
		} else if protocol.R1Err(r1) {
			return &protocol.ResponseError{Cmd: protocol.AcmdSetWrBlockEraseCount, R1: r1}
		}
	}

	r1, err := c.command(protocol.CmdWriteMultipleBlock, c.transferArg(sector))
	if err != nil {
		return err
	}
	if protocol.R1Err(r1) {
		return &protocol.ResponseError{Cmd: protocol.CmdWriteMultipleBlock, R1: r1}
	}

	for i := 0; i < count; i++ {
		block := buf[i*protocol.BlockSize : (i+1)*protocol.BlockSize]
		if err := c.writeData(protocol.TokenStartBlockMulti, block); err != nil {
			return err
		}
		if err := c.waitReady(c.config.WriteTimeout); err != nil {
			return err
		}
	}

	// stop token, one skipped byte, then the final busy phase
	if _, err := c.bus.Exchange(protocol.TokenStopTran); err != nil {
		return err
	}
	if _, err := c.bus.Exchange(idleByte); err != nil {
		return err
	}
	return c.waitReady(c.config.WriteTimeout)
}

// writeData clocks one spacer byte, the start token, the data block, and
// its CRC, then checks the data response token.
func (c *Card) writeData(token byte, buf []byte) error {
	if _, err := c.bus.Exchange(idleByte); err != nil {
		return err
	}
	if _, err := c.bus.Exchange(token); err != nil {
		return err
	}
	for _, b := range buf {
		if _, err := c.bus.Exchange(b); err != nil {
			return err
		}
	}

	// cards ignore the data CRC unless checking was enabled, but the two
	// bytes are part of the packet either way
	crc := uint16(0xFFFF)
	if c.config.CRCCheck {
		crc = protocol.CRC16(buf)
	}
	if _, err := c.bus.Exchange(byte(crc >> 8)); err != nil {
		return err
	}
	if _, err := c.bus.Exchange(byte(crc)); err != nil {
		return err
	}

	resp, err := c.bus.Exchange(idleByte)
	if err != nil {
		return err
	}
	if !protocol.DataAccepted(resp) {
		return &WriteRejectedError{Token: resp & protocol.DataRespMask}
	}
	return nil
}

// fail downgrades the drive state when a transfer ends in a timeout.
// The card's internal state after a truncated transfer is unknown, so
// Ready must not be assumed; only a fresh Initialize restores it.
func (c *Card) fail(err error) error {
	switch err.(type) {
	case nil:
		return nil
	case *CommandTimeoutError:
		c.state = StateError
	}
	switch err {
	case ErrReadTimeout, ErrWriteTimeout:
		c.state = StateError
	}
	return err
}
