package sdcard

import (
	"encoding/binary"
	"time"

	"github.com/sdonnelly11/go-sdspi/protocol"
)

// simCard simulates an SD or MMC card on the far end of the bus for
// testing. It implements Transport and speaks just enough of the SPI-mode
// protocol to exercise every driver path: handshake for all four card
// generations, single and multiple block transfers, write busy phases,
// and the register reads.
type simCard struct {
	typ     CardType
	sectors map[uint32][]byte
	csd     []byte

	// fault injection
	noCard      bool // never respond to anything
	noToken     bool // accept reads but never raise the data token
	rejectWrite byte // nonzero: data response token for writes
	stuckBusy   bool // set after a write to hold the busy line forever
	hangAfterWrite bool
	echoVoltage byte
	echoPattern byte
	initPolls   int // op-cond polls before the card reports ready

	// observability
	exchanges   int // every Exchange call, the transport traffic counter
	lastDataCmd byte
	lastDataArg uint32
	blocklen    uint32

	// protocol state
	phase      int
	frame      []byte
	out        []byte
	acmd       bool
	idle       bool
	ready      bool
	polls      int
	multiRead  bool
	multiWrite bool
	readAddr   uint32
	writeAddr  uint32
	wbuf       []byte
	selected   bool
}

const (
	simPhaseCmd = iota
	simPhaseWriteToken
	simPhaseWriteData
)

// CSD register fixtures; the same vectors as the protocol package tests.
var (
	simCSDv1 = []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x09, 0x01, 0xFF,
		0xC0, 0x03, 0x9F, 0x80, 0x00, 0x00, 0x00, 0x00,
	}
	simCSDv2 = []byte{
		0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x3B, 0x37, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
)

func newSimCard(typ CardType) *simCard {
	csd := simCSDv1
	if typ == TypeSDv2Block {
		csd = simCSDv2
	}
	return &simCard{
		typ:         typ,
		sectors:     make(map[uint32][]byte),
		csd:         csd,
		echoVoltage: protocol.IfCondVoltageOK,
		echoPattern: protocol.IfCondCheckPattern,
		initPolls:   2,
	}
}

func (s *simCard) Select()   { s.selected = true }
func (s *simCard) Deselect() { s.selected = false }

func (s *simCard) Exchange(b byte) (byte, error) {
	s.exchanges++

	if len(s.out) > 0 {
		r := s.out[0]
		s.out = s.out[1:]
		return r, nil
	}
	if s.noCard {
		return 0xFF, nil
	}

	switch s.phase {
	case simPhaseWriteToken:
		switch b {
		case protocol.TokenStartBlock, protocol.TokenStartBlockMulti:
			s.phase = simPhaseWriteData
			s.wbuf = s.wbuf[:0]
		case protocol.TokenStopTran:
			// skipped byte, short busy phase, then ready
			s.queue(0xFF, 0x00, 0xFF)
			s.phase = simPhaseCmd
		}
		return 0xFF, nil

	case simPhaseWriteData:
		s.wbuf = append(s.wbuf, b)
		if len(s.wbuf) == protocol.BlockSize+2 { // payload + CRC16
			s.finishWrite()
		}
		return 0xFF, nil

	default:
		if len(s.frame) == 0 && b&0xC0 == 0x40 {
			s.frame = append(s.frame, b)
			return 0xFF, nil
		}
		if len(s.frame) > 0 {
			s.frame = append(s.frame, b)
			if len(s.frame) == protocol.FrameSize {
				s.handleCommand(s.frame[0]&0x3F, binary.BigEndian.Uint32(s.frame[1:5]))
				s.frame = s.frame[:0]
			}
			return 0xFF, nil
		}
		if s.stuckBusy {
			return 0x00, nil
		}
		if s.multiRead {
			s.queueBlock(s.readAddr)
			s.readAddr++
			r := s.out[0]
			s.out = s.out[1:]
			return r, nil
		}
		return 0xFF, nil
	}
}

func (s *simCard) queue(bytes ...byte) {
	s.out = append(s.out, bytes...)
}

// queueBlock queues a data token, one stored sector and its CRC.
func (s *simCard) queueBlock(sector uint32) {
	data := s.sector(sector)
	crc := protocol.CRC16(data)
	s.queue(protocol.TokenStartBlock)
	s.queue(data...)
	s.queue(byte(crc>>8), byte(crc))
}

func (s *simCard) sector(n uint32) []byte {
	if data, ok := s.sectors[n]; ok {
		return data
	}
	return make([]byte, protocol.BlockSize)
}

// translate converts a command argument to a sector index per the
// simulated card's addressing mode.
func (s *simCard) translate(arg uint32) uint32 {
	if s.typ == TypeSDv2Block {
		return arg
	}
	return arg / protocol.BlockSize
}

func (s *simCard) finishWrite() {
	if s.rejectWrite != 0 {
		s.queue(s.rejectWrite)
		s.phase = simPhaseCmd
		return
	}

	data := make([]byte, protocol.BlockSize)
	copy(data, s.wbuf[:protocol.BlockSize])
	s.sectors[s.writeAddr] = data
	s.writeAddr++

	s.queue(protocol.DataRespAccepted)
	if s.hangAfterWrite {
		s.stuckBusy = true
	} else {
		s.queue(0x00, 0x00, 0xFF) // busy, then done
	}

	if s.multiWrite {
		s.phase = simPhaseWriteToken
	} else {
		s.phase = simPhaseCmd
	}
}

func (s *simCard) idleR1() byte {
	if s.idle && !s.ready {
		return protocol.R1Idle
	}
	return 0x00
}

func (s *simCard) handleCommand(cmd byte, arg uint32) {
	acmd := s.acmd
	s.acmd = false

	isSD := s.typ != TypeMMC
	isV2 := s.typ == TypeSDv2Byte || s.typ == TypeSDv2Block

	switch {
	case cmd == protocol.CmdGoIdleState:
		s.idle = true
		s.ready = false
		s.polls = 0
		s.queue(protocol.R1Idle)

	case cmd == protocol.CmdSendIfCond:
		if !isV2 {
			s.queue(protocol.R1Idle | protocol.R1IllegalCommand)
			return
		}
		s.queue(protocol.R1Idle, 0x00, 0x00, s.echoVoltage, s.echoPattern)

	case cmd == protocol.CmdAppCmd:
		if !isSD {
			s.queue(s.idleR1() | protocol.R1IllegalCommand)
			return
		}
		s.acmd = true
		s.queue(s.idleR1())

	case cmd == protocol.AcmdSDSendOpCond && acmd:
		if !isSD {
			s.queue(s.idleR1() | protocol.R1IllegalCommand)
			return
		}
		s.opCondPoll()

	case cmd == protocol.CmdSendOpCond:
		if isSD {
			s.queue(s.idleR1() | protocol.R1IllegalCommand)
			return
		}
		s.opCondPoll()

	case cmd == protocol.CmdReadOCR:
		hi := byte(0x80) // power-up done
		if s.typ == TypeSDv2Block {
			hi |= 0x40 // CCS
		}
		s.queue(0x00, hi, 0xFF, 0x80, 0x00)

	case cmd == protocol.CmdSetBlocklen:
		s.blocklen = arg
		s.queue(0x00)

	case cmd == protocol.CmdSendCSD || cmd == protocol.CmdSendCID:
		crc := protocol.CRC16(s.csd)
		s.queue(0x00, protocol.TokenStartBlock)
		s.queue(s.csd...)
		s.queue(byte(crc>>8), byte(crc))

	case cmd == protocol.CmdReadSingleBlock:
		s.lastDataCmd, s.lastDataArg = cmd, arg
		if s.noToken {
			s.queue(0x00)
			return
		}
		s.queue(0x00)
		s.queueBlock(s.translate(arg))

	case cmd == protocol.CmdReadMultipleBlock:
		s.lastDataCmd, s.lastDataArg = cmd, arg
		s.queue(0x00)
		if !s.noToken {
			s.multiRead = true
			s.readAddr = s.translate(arg)
		}

	case cmd == protocol.CmdStopTransmission:
		s.multiRead = false
		s.queue(0xFF, 0x00) // stuff byte, then R1

	case cmd == protocol.CmdWriteBlock:
		s.lastDataCmd, s.lastDataArg = cmd, arg
		s.queue(0x00)
		s.writeAddr = s.translate(arg)
		s.multiWrite = false
		s.phase = simPhaseWriteToken

	case cmd == protocol.CmdWriteMultipleBlock:
		s.lastDataCmd, s.lastDataArg = cmd, arg
		s.queue(0x00)
		s.writeAddr = s.translate(arg)
		s.multiWrite = true
		s.phase = simPhaseWriteToken

	case cmd == protocol.CmdSetBlockCount || (cmd == protocol.AcmdSetWrBlockEraseCount && acmd):
		s.queue(s.idleR1())

	default:
		s.queue(s.idleR1() | protocol.R1IllegalCommand)
	}
}

func (s *simCard) opCondPoll() {
	s.polls++
	if s.polls > s.initPolls {
		s.ready = true
		s.queue(0x00)
		return
	}
	s.queue(protocol.R1Idle)
}

// fakeClock advances a fixed step on every reading so timeout loops
// expire without real delay.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Unix(0, 0), step: step}
}

func (f *fakeClock) Now() time.Time {
	f.now = f.now.Add(f.step)
	return f.now
}
