package nrf24

// Typed views over single-byte hardware registers. All encoding is explicit
// shift/mask so the wire value never depends on in-memory layout.

// configReg mirrors the CONFIG register.
//
//	bit 6: MASK_RX_DR  (1 = IRQ masked)
//	bit 5: MASK_TX_DS
//	bit 4: MASK_MAX_RT
//	bits 3-2: EN_CRC / CRCO
//	bit 1: PWR_UP
//	bit 0: PRIM_RX
type configReg byte

const configCrcMask byte = 0x0C

func (c configReg) asRX() configReg { return c | 1 }
func (c configReg) asTX() configReg { return c &^ 1 }
func (c configReg) isRX() bool      { return c&1 != 0 }

func (c configReg) power() bool { return c&2 != 0 }
func (c configReg) withPower(on bool) configReg {
	if on {
		return c | 2
	}
	return c &^ 2
}

func (c configReg) crcLength() CrcLength {
	return CrcLength(byte(c) & configCrcMask)
}

func (c configReg) withCrcLength(l CrcLength) configReg {
	return configReg(byte(c)&^configCrcMask | byte(l))
}

// The IRQ mask bits are active-low: a set bit disables the event on the IRQ
// pin. Accessors speak in terms of "event enabled".
func (c configReg) rxDR() bool { return byte(c)&maskRxDR == 0 }
func (c configReg) txDS() bool { return byte(c)&maskTxDS == 0 }
func (c configReg) txDF() bool { return byte(c)&maskMaxRT == 0 }

func (c configReg) withIRQMask(enabled StatusFlags) configReg {
	return configReg(byte(c)&^maskIRQ | (^enabled.bits() & maskIRQ))
}

// featureReg mirrors the FEATURE register (low 3 bits).
//
//	bit 2: EN_DPL     (dynamic payload lengths)
//	bit 1: EN_ACK_PAY (ack payloads)
//	bit 0: EN_DYN_ACK (W_TX_PAYLOAD_NO_ACK allowed)
type featureReg byte

const featureRegMask byte = 0x07

func (f featureReg) dynamicPayloads() bool { return f&4 != 0 }
func (f featureReg) ackPayloads() bool     { return f&2 != 0 }
func (f featureReg) askNoAck() bool        { return f&1 != 0 }

// withDynamicPayloads also drops ack payloads when disabling, since ack
// payloads require dynamic lengths.
func (f featureReg) withDynamicPayloads(enable bool) featureReg {
	if enable {
		return f | 4
	}
	return f &^ 6
}

// withAckPayloads also raises dynamic payloads when enabling.
func (f featureReg) withAckPayloads(enable bool) featureReg {
	if enable {
		return f | 6
	}
	return f &^ 2
}

func (f featureReg) withAskNoAck(enable bool) featureReg {
	if enable {
		return f | 1
	}
	return f &^ 1
}

// setupRetry mirrors SETUP_RETR: auto-retry delay in the high nibble
// (units of 250µs past a 250µs base), attempt count in the low nibble.
type setupRetry byte

func newSetupRetry(delay, count uint8) setupRetry {
	return setupRetry(min(delay, 15)<<4 | min(count, 15))
}

func (s setupRetry) delay() uint8 { return uint8(s) >> 4 }
func (s setupRetry) count() uint8 { return uint8(s) & 0x0F }

// rfSetup mirrors RF_SETUP.
//
//	bit 7: CONT_WAVE
//	bit 5, 3: RF_DR_LOW / RF_DR_HIGH (data rate)
//	bits 2-1: RF_PWR (PA level)
//	bit 0: LNA_HCURR
type rfSetup byte

const rfCarrierBits byte = 0x90 // CONT_WAVE | PLL_LOCK

func (s rfSetup) dataRate() DataRate { return dataRateFromBits(byte(s)) }
func (s rfSetup) withDataRate(r DataRate) rfSetup {
	return rfSetup(byte(s)&^dataRateMask | byte(r))
}

func (s rfSetup) paLevel() PaLevel { return paLevelFromBits(byte(s)) }
func (s rfSetup) withPaLevel(l PaLevel) rfSetup {
	return rfSetup(byte(s)&^paLevelMask | byte(l))
}

func (s rfSetup) lnaEnabled() bool { return s&1 != 0 }
func (s rfSetup) withLNA(enable bool) rfSetup {
	if enable {
		return s | 1
	}
	return s &^ 1
}
