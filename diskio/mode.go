package diskio

// OpenMode is the open-mode flag byte passed through to the filesystem
// layer when opening files on the drive.
type OpenMode byte

// Primitive open-mode flags. These combine with bitwise OR; the named
// combinations below cover the twelve modes filesystem callers use.
const (
	// ModeRead grants read access
	ModeRead OpenMode = 0x01

	// ModeWrite grants write access
	ModeWrite OpenMode = 0x02

	// OpenExisting opens the file only if it exists
	OpenExisting OpenMode = 0x00

	// CreateNew creates the file and fails if it already exists
	CreateNew OpenMode = 0x04

	// CreateAlways creates the file, truncating any existing one
	CreateAlways OpenMode = 0x08

	// OpenAlways opens the file, creating it if missing
	OpenAlways OpenMode = 0x10

	// OpenAppend opens or creates the file and positions at its end
	OpenAppend OpenMode = 0x30
)

// Named open-mode combinations, mirroring the fopen mode strings.
const (
	// ModeR opens an existing file read-only ("r").
	ModeR = ModeRead

	// ModeRPlus opens an existing file for read and write ("r+").
	ModeRPlus = ModeRead | ModeWrite

	// ModeW creates or truncates a file for writing ("w").
	ModeW = CreateAlways | ModeWrite

	// ModeWPlus creates or truncates a file for read and write ("w+").
	ModeWPlus = CreateAlways | ModeWrite | ModeRead

	// ModeA opens or creates a file for appending ("a").
	ModeA = OpenAppend | ModeWrite

	// ModeAPlus opens or creates a file for reading and appending ("a+").
	ModeAPlus = OpenAppend | ModeWrite | ModeRead

	// ModeWX creates a new file for writing, failing if it exists ("wx").
	ModeWX = CreateNew | ModeWrite

	// ModeWPlusX creates a new file for read and write, failing if it
	// exists ("w+x").
	ModeWPlusX = CreateNew | ModeWrite | ModeRead

	// ModeOAW opens or creates a file for writing without truncation.
	ModeOAW = OpenAlways | ModeWrite

	// ModeOAWR opens or creates a file for read and write without
	// truncation.
	ModeOAWR = OpenAlways | ModeWrite | ModeRead

	// ModeOEW opens an existing file write-only.
	ModeOEW = OpenExisting | ModeWrite

	// ModeOEWR opens an existing file for read and write.
	ModeOEWR = OpenExisting | ModeWrite | ModeRead
)

// Mount timing for volume registration.
const (
	// MountLater defers the volume mount to the first file access
	MountLater = 0

	// MountNow mounts the volume immediately at registration
	MountNow = 1
)

// CanRead reports whether the mode grants read access.
func (m OpenMode) CanRead() bool {
	return m&ModeRead != 0
}

// CanWrite reports whether the mode grants write access.
func (m OpenMode) CanWrite() bool {
	return m&ModeWrite != 0
}
