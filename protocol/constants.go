package protocol

// FrameSize is the fixed size of an SPI-mode command frame in bytes:
// start/index byte(1) + argument(4) + CRC7/end bit(1).
const FrameSize = 6

// BlockSize is the fixed data block (sector) size in bytes.
// SPI-mode transfers always move whole 512-byte blocks.
const BlockSize = 512

// Command indexes per the SD Physical Layer Simplified Specification,
// section 7.3.1.1 (SPI mode command set).
const (
	// CmdGoIdleState (CMD0) resets the card into idle state
	CmdGoIdleState = 0

	// CmdSendOpCond (CMD1) starts initialization on MMC cards
	CmdSendOpCond = 1

	// CmdSendIfCond (CMD8) checks the interface operating condition;
	// only version 2.00+ cards accept it
	CmdSendIfCond = 8

	// CmdSendCSD (CMD9) reads the 16-byte card-specific data register
	CmdSendCSD = 9

	// CmdSendCID (CMD10) reads the 16-byte card identification register
	CmdSendCID = 10

	// CmdStopTransmission (CMD12) terminates a multiple-block read
	CmdStopTransmission = 12

	// CmdSetBlocklen (CMD16) sets the block length for byte-addressed cards
	CmdSetBlocklen = 16

	// CmdReadSingleBlock (CMD17) reads one data block
	CmdReadSingleBlock = 17

	// CmdReadMultipleBlock (CMD18) streams data blocks until CMD12
	CmdReadMultipleBlock = 18

	// CmdSetBlockCount (CMD23) predefines the block count on MMC cards
	CmdSetBlockCount = 23

	// CmdWriteBlock (CMD24) writes one data block
	CmdWriteBlock = 24

	// CmdWriteMultipleBlock (CMD25) writes blocks until the stop token
	CmdWriteMultipleBlock = 25

	// CmdAppCmd (CMD55) escapes the next command as application-specific
	CmdAppCmd = 55

	// CmdReadOCR (CMD58) reads the 32-bit operating conditions register
	CmdReadOCR = 58

	// AcmdSDSendOpCond (ACMD41) starts initialization on SD cards;
	// must be preceded by CmdAppCmd
	AcmdSDSendOpCond = 41

	// AcmdSetWrBlockEraseCount (ACMD23) pre-erases blocks before a
	// multiple-block write on SD cards
	AcmdSetWrBlockEraseCount = 23
)

// R1 response status bits per spec section 7.3.2.1.
// A response of 0x00 means ready; 0x01 means in idle state (initializing).
const (
	// R1Idle indicates the card is in idle state running initialization
	R1Idle = 1 << 0

	// R1EraseReset indicates an erase sequence was cleared before executing
	R1EraseReset = 1 << 1

	// R1IllegalCommand indicates an illegal command code was detected
	R1IllegalCommand = 1 << 2

	// R1CRCError indicates the command CRC check failed
	R1CRCError = 1 << 3

	// R1EraseSeqError indicates an error in the sequence of erase commands
	R1EraseSeqError = 1 << 4

	// R1AddressError indicates a misaligned address
	R1AddressError = 1 << 5

	// R1ParameterError indicates the command argument was out of range
	R1ParameterError = 1 << 6
)

// Data packet tokens per spec section 7.3.3.2.
const (
	// TokenStartBlock precedes the data block of CMD17/18/24 transfers
	TokenStartBlock = 0xFE

	// TokenStartBlockMulti precedes each data block of a CMD25 transfer
	TokenStartBlockMulti = 0xFC

	// TokenStopTran terminates a CMD25 multiple-block write
	TokenStopTran = 0xFD
)

// Data response token values (low 5 bits) per spec section 7.3.3.1,
// returned by the card after each write data packet.
const (
	// DataRespMask selects the status bits of a data response token
	DataRespMask = 0x1F

	// DataRespAccepted means the data block was accepted
	DataRespAccepted = 0x05

	// DataRespCRCRejected means the block was rejected due to a CRC error
	DataRespCRCRejected = 0x0B

	// DataRespWriteRejected means the block was rejected due to a write error
	DataRespWriteRejected = 0x0D
)

// CMD8 / ACMD41 / OCR argument and flag values.
const (
	// IfCondArg is the CMD8 argument: 2.7-3.6V supply range (0x1) in
	// bits 11:8 and the 0xAA check pattern in bits 7:0
	IfCondArg = 0x1AA

	// IfCondVoltageOK is the expected voltage-accepted nibble echoed
	// in the R7 response
	IfCondVoltageOK = 0x1

	// IfCondCheckPattern is the check pattern echoed in the R7 response
	IfCondCheckPattern = 0xAA

	// HCSBit is the host-capacity-support flag in the ACMD41 argument,
	// announcing that the host understands block addressing
	HCSBit = 1 << 30

	// OCRCCSBit is the card-capacity-status flag in the OCR register;
	// set on block-addressed (high capacity) cards
	OCRCCSBit = 1 << 30

	// OCRPowerUpBit is clear while the card's power-up routine is busy
	OCRPowerUpBit = 1 << 31
)

// Fixed CRC bytes for the two commands issued before card generation is
// known. Every later command may carry a dummy CRC in SPI mode.
const (
	// CRCGoIdleState is the complete CRC byte of CMD0 with argument 0
	CRCGoIdleState = 0x95

	// CRCSendIfCond is the complete CRC byte of CMD8 with argument 0x1AA
	CRCSendIfCond = 0x87
)

// RegisterSize is the size of the CSD and CID registers in bytes.
// Register reads use the same start-token framing as data blocks.
const RegisterSize = 16
