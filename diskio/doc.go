// Package diskio adapts an SD card driver to the flat disk-I/O contract
// consumed by embedded FAT filesystem layers: a status bitmask, an
// initialize entry point, sector-granular read and write, and a small
// ioctl set for capacity and flush queries.
//
// The adapter deliberately exposes the contract with C-compatible
// semantics so a Go port of such a filesystem can drop in on top of it:
// status is a DiskStatus bitmask rather than an error, sector size is
// fixed at 512 bytes, and the ioctl commands mirror the conventional
// command ids.
//
// Every Drive method holds an internal mutex for its full duration, so a
// Drive can be shared between goroutines without external locking. The
// underlying card driver is not itself safe for concurrent use; all
// access must go through the Drive once one is constructed.
//
// Typical wiring:
//
//	card := sdcard.New(bus)
//	drive := diskio.NewDrive(card)
//	if st := drive.Initialize(); !st.OK() {
//		// no card, or handshake failed
//	}
//	count, err := drive.Ioctl(diskio.GetSectorCount)
package diskio
