package diskio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sdonnelly11/go-sdspi/protocol"
	"github.com/sdonnelly11/go-sdspi/sdcard"
)

// DiskStatus is the drive status bitmask consumed by the filesystem
// layer. Zero means the drive is initialized and ready.
type DiskStatus byte

const (
	// StatusNoInit is set until a successful Initialize
	StatusNoInit DiskStatus = 0x01

	// StatusNoDisk is set when no medium answered the handshake
	StatusNoDisk DiskStatus = 0x02

	// StatusProtected is set when the medium is write protected
	StatusProtected DiskStatus = 0x04
)

// OK reports whether the drive is ready for transfers.
func (s DiskStatus) OK() bool {
	return s == 0
}

// IoctlCmd selects a control operation.
type IoctlCmd byte

const (
	// CtrlSync flushes any pending write; it returns only once the
	// medium has finished its internal write processing
	CtrlSync IoctlCmd = iota

	// GetSectorCount reports the medium capacity in sectors
	GetSectorCount

	// GetSectorSize reports the sector size in bytes (always 512)
	GetSectorSize

	// GetBlockSize reports the erase block size in sectors
	GetBlockSize
)

// ErrInvalidIoctl is returned for an unrecognized control command.
var ErrInvalidIoctl = errors.New("diskio: invalid ioctl command")

// SizeMismatchError means a transfer buffer does not hold exactly the
// requested number of sectors.
type SizeMismatchError struct {
	Count  uint32
	BufLen int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("diskio: buffer holds %d bytes, %d sectors need %d",
		e.BufLen, e.Count, int(e.Count)*protocol.BlockSize)
}

// BlockDevice is the driver capability the adapter sits on.
// *sdcard.Card satisfies it.
type BlockDevice interface {
	Initialize() error
	State() sdcard.State
	ReadBlocks(sector uint32, buf []byte) error
	WriteBlocks(sector uint32, buf []byte) error
	Sync() error
	SectorCount() (uint32, error)
	EraseBlockSize() (uint32, error)
}

// Drive adapts a block device to the narrow disk-I/O contract the
// filesystem layer consumes: status, initialize, read, write, ioctl.
//
// Drive is the serialization boundary for multi-task embeddings: a mutex
// is held for the duration of every call, released on every exit path,
// so concurrent filesystem operations never interleave on the bus.
type Drive struct {
	mu  sync.Mutex
	dev BlockDevice
}

// NewDrive wraps a block device in the disk-I/O contract.
func NewDrive(dev BlockDevice) *Drive {
	if dev == nil {
		panic("block device cannot be nil")
	}
	return &Drive{dev: dev}
}

// Status reports the current drive status without touching the bus.
func (d *Drive) Status() DiskStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return statusOf(d.dev.State())
}

// Initialize brings the medium to the ready state if it is not already,
// and reports the resulting status. Errors from the handshake are fully
// reflected in the status bits; callers wanting the cause should
// initialize through the sdcard package directly.
func (d *Drive) Initialize() DiskStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dev.Initialize()
	return statusOf(d.dev.State())
}

// Read reads count sectors starting at sector into buf, whose length
// must be exactly count*512 bytes.
func (d *Drive) Read(buf []byte, sector, count uint32) error {
	if int(count)*protocol.BlockSize != len(buf) || count == 0 {
		return &SizeMismatchError{Count: count, BufLen: len(buf)}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dev.ReadBlocks(sector, buf)
}

// Write writes count sectors from buf starting at sector; buf length
// must be exactly count*512 bytes.
func (d *Drive) Write(buf []byte, sector, count uint32) error {
	if int(count)*protocol.BlockSize != len(buf) || count == 0 {
		return &SizeMismatchError{Count: count, BufLen: len(buf)}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dev.WriteBlocks(sector, buf)
}

// Ioctl executes a control command and returns its value where the
// command produces one (sector count, sector size, block size).
func (d *Drive) Ioctl(cmd IoctlCmd) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch cmd {
	case CtrlSync:
		return 0, d.dev.Sync()
	case GetSectorCount:
		return d.dev.SectorCount()
	case GetSectorSize:
		return protocol.BlockSize, nil
	case GetBlockSize:
		return d.dev.EraseBlockSize()
	default:
		return 0, ErrInvalidIoctl
	}
}

func statusOf(state sdcard.State) DiskStatus {
	switch state {
	case sdcard.StateReady:
		return 0
	case sdcard.StateNotPresent:
		return StatusNoInit | StatusNoDisk
	default:
		return StatusNoInit
	}
}
