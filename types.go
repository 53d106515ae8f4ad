package nrf24

// PaLevel selects the radio's Power Amplifier output level.
type PaLevel byte

const (
	PaMin  PaLevel = 0 // -18 dBm
	PaLow  PaLevel = 2 // -12 dBm
	PaHigh PaLevel = 4 // -6 dBm
	PaMax  PaLevel = 6 // 0 dBm
)

const paLevelMask byte = 0x06

func paLevelFromBits(b byte) PaLevel {
	return PaLevel(b & paLevelMask)
}

func (l PaLevel) String() string {
	switch l {
	case PaMin:
		return "Min"
	case PaLow:
		return "Low"
	case PaHigh:
		return "High"
	default:
		return "Max"
	}
}

// DataRate selects the over-the-air data rate.
type DataRate byte

const (
	Rate1Mbps   DataRate = 0x00
	Rate2Mbps   DataRate = 0x08
	Rate250Kbps DataRate = 0x20
)

const dataRateMask byte = 0x28

func dataRateFromBits(b byte) DataRate {
	switch b & dataRateMask {
	case byte(Rate2Mbps):
		return Rate2Mbps
	case byte(Rate250Kbps):
		return Rate250Kbps
	default:
		return Rate1Mbps
	}
}

func (r DataRate) String() string {
	switch r {
	case Rate2Mbps:
		return "2 Mbps"
	case Rate250Kbps:
		return "250 Kbps"
	default:
		return "1 Mbps"
	}
}

// CrcLength selects the hardware CRC checksum length appended to every
// over-the-air packet. Disabling CRC also voids auto-ack reliability since
// acknowledgement packets go unverified.
type CrcLength byte

const (
	CrcDisabled CrcLength = 0x00
	Crc8Bit     CrcLength = 0x08
	Crc16Bit    CrcLength = 0x0C
)

func (c CrcLength) String() string {
	switch c {
	case CrcDisabled:
		return "disabled"
	case Crc8Bit:
		return "8 bit"
	default:
		return "16 bit"
	}
}

// FifoState describes the occupancy of one of the radio's 3-level FIFOs.
type FifoState byte

const (
	FifoOccupied FifoState = iota
	FifoEmpty
	FifoFull
)

func (f FifoState) String() string {
	switch f {
	case FifoEmpty:
		return "Empty"
	case FifoFull:
		return "Full"
	default:
		return "Occupied"
	}
}

// StatusFlags names the three IRQ events latched in the STATUS register.
// Used both to select which events to clear and to report which are set.
type StatusFlags struct {
	// RxDR is the "RX Data Ready" event.
	RxDR bool
	// TxDS is the "TX Data Sent" event.
	TxDS bool
	// TxDF is the "TX Data Failed" event (max retries exceeded).
	TxDF bool
}

// AllStatusFlags selects every IRQ event.
var AllStatusFlags = StatusFlags{RxDR: true, TxDS: true, TxDF: true}

func (f StatusFlags) bits() byte {
	var b byte
	if f.RxDR {
		b |= maskRxDR
	}
	if f.TxDS {
		b |= maskTxDS
	}
	if f.TxDF {
		b |= maskMaxRT
	}
	return b
}

func statusFlagsFromBits(b byte) StatusFlags {
	return StatusFlags{
		RxDR: b&maskRxDR != 0,
		TxDS: b&maskTxDS != 0,
		TxDF: b&maskMaxRT != 0,
	}
}

// rxPipe extracts the pipe number of the next RX payload from a raw STATUS
// byte, or 7 when the RX FIFO is empty.
func rxPipe(status byte) byte {
	return (status >> 1) & 0x07
}

func txFull(status byte) bool {
	return status&1 != 0
}
