package nrf24

// Register offsets per the nRF24L01+ datasheet.
const (
	regConfig     byte = 0x00
	regEnAA       byte = 0x01
	regEnRxAddr   byte = 0x02
	regSetupAW    byte = 0x03
	regSetupRetr  byte = 0x04
	regRFChannel  byte = 0x05
	regRFSetup    byte = 0x06
	regStatus     byte = 0x07
	regObserveTx  byte = 0x08
	regRPD        byte = 0x09
	regRxAddrP0   byte = 0x0A
	regTxAddr     byte = 0x10
	regRxPwP0     byte = 0x11
	regFifoStatus byte = 0x17
	regDynPd      byte = 0x1C
	regFeature    byte = 0x1D
)

// SPI command bytes.
const (
	cmdWRegister       byte = 0x20
	cmdActivate        byte = 0x50
	cmdRRxPayloadLen   byte = 0x60
	cmdRRxPayload      byte = 0x61
	cmdWTxPayload      byte = 0xA0
	cmdWTxPayloadNoAck byte = 0xB0
	cmdWAckPayload     byte = 0xA8
	cmdFlushTx         byte = 0xE1
	cmdFlushRx         byte = 0xE2
	cmdReuseTxPayload  byte = 0xE3
	cmdNop             byte = 0xFF
)

// STATUS register IRQ event bits.
const (
	maskRxDR  byte = 1 << 6
	maskTxDS  byte = 1 << 5
	maskMaxRT byte = 1 << 4
	maskIRQ   byte = maskRxDR | maskTxDS | maskMaxRT
)
