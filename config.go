package nrf24

// pipeConfig is the address book for the TX pipe and the 6 RX pipes.
// Pipes 2-5 only store their distinct low byte; the remaining bytes are
// shared with pipe 1 (hardware constraint).
type pipeConfig struct {
	txAddress [5]byte
	pipe0     [5]byte
	pipe1     [5]byte
	prefixes  [4]byte
	enabled   byte
}

func defaultPipeConfig() pipeConfig {
	return pipeConfig{
		txAddress: [5]byte{0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
		pipe0:     [5]byte{0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
		pipe1:     [5]byte{0xC2, 0xC2, 0xC2, 0xC2, 0xC2},
		prefixes:  [4]byte{0xC3, 0xC4, 0xC5, 0xC6},
		enabled:   0x02,
	}
}

func (p *pipeConfig) setRxAddress(pipe uint8, address []byte) {
	if len(address) == 0 || pipe > 5 {
		return
	}
	p.enabled |= 1 << pipe
	n := min(len(address), 5)
	switch pipe {
	case 0:
		copy(p.pipe0[:n], address[:n])
	case 1:
		copy(p.pipe1[:n], address[:n])
	default:
		p.prefixes[pipe-2] = address[0]
	}
}

func (p *pipeConfig) rxAddress(pipe uint8) []byte {
	out := make([]byte, 5)
	switch pipe {
	case 0:
		copy(out, p.pipe0[:])
	case 1:
		copy(out, p.pipe1[:])
	default:
		copy(out, p.pipe1[:])
		out[0] = p.prefixes[pipe-2]
	}
	return out
}

// RadioConfig is a pure-value snapshot of every cold configuration register.
// Build one with DefaultConfig and the chainable With* methods, then apply it
// with RF24.WithConfig. Applying is a sequence of register writes, not an
// atomic operation; a bus failure partway through leaves mixed settings.
type RadioConfig struct {
	config        configReg
	retry         setupRetry
	rf            rfSetup
	feature       featureReg
	addressLength uint8
	channel       uint8
	payloadLength uint8
	autoAck       byte
	pipes         pipeConfig
}

// DefaultConfig returns the library defaults: channel 76, 5-byte addresses,
// max PA with LNA, 16-bit CRC, 1 Mbps, 32-byte static payloads, auto-ack on
// all pipes, 15 retries at 1500µs, all IRQ events enabled, RX pipe 1 open.
func DefaultConfig() RadioConfig {
	return RadioConfig{
		config:        configReg(Crc16Bit),
		retry:         newSetupRetry(5, 15),
		rf:            rfSetup(0).withDataRate(Rate1Mbps).withPaLevel(PaMax).withLNA(true),
		addressLength: 5,
		channel:       76,
		payloadLength: 32,
		autoAck:       0x3F,
		pipes:         defaultPipeConfig(),
	}
}

// CrcLength returns the value set by WithCrcLength.
func (c RadioConfig) CrcLength() CrcLength { return c.config.crcLength() }

// WithCrcLength sets the hardware CRC checksum length.
func (c RadioConfig) WithCrcLength(l CrcLength) RadioConfig {
	c.config = c.config.withCrcLength(l)
	return c
}

// DataRate returns the value set by WithDataRate.
func (c RadioConfig) DataRate() DataRate { return c.rf.dataRate() }

// WithDataRate sets the over-the-air data rate.
func (c RadioConfig) WithDataRate(r DataRate) RadioConfig {
	c.rf = c.rf.withDataRate(r)
	return c
}

// PaLevel returns the value set by WithPaLevel.
func (c RadioConfig) PaLevel() PaLevel { return c.rf.paLevel() }

// WithPaLevel sets the Power Amplifier level.
func (c RadioConfig) WithPaLevel(l PaLevel) RadioConfig {
	c.rf = c.rf.withPaLevel(l)
	return c
}

// LNAEnabled returns the value set by WithLNA.
func (c RadioConfig) LNAEnabled() bool { return c.rf.lnaEnabled() }

// WithLNA enables or disables the Low Noise Amplifier. Some modules ignore
// this; consult the module manufacturer.
func (c RadioConfig) WithLNA(enable bool) RadioConfig {
	c.rf = c.rf.withLNA(enable)
	return c
}

// AddressLength returns the value set by WithAddressLength.
func (c RadioConfig) AddressLength() uint8 { return c.addressLength }

// WithAddressLength sets the address width in bytes, clamped to [2, 5].
func (c RadioConfig) WithAddressLength(n uint8) RadioConfig {
	c.addressLength = min(max(n, 2), 5)
	return c
}

// Channel returns the value set by WithChannel.
func (c RadioConfig) Channel() uint8 { return c.channel }

// WithChannel sets the RF channel, clamped to [0, 125].
// The frequency in MHz is 2400 + channel.
func (c RadioConfig) WithChannel(ch uint8) RadioConfig {
	c.channel = min(ch, 125)
	return c
}

// AutoRetryDelay returns the delay set by WithAutoRetries.
func (c RadioConfig) AutoRetryDelay() uint8 { return c.retry.delay() }

// AutoRetryCount returns the count set by WithAutoRetries.
func (c RadioConfig) AutoRetryCount() uint8 { return c.retry.count() }

// WithAutoRetries sets the auto-retransmit delay and attempt count, each
// clamped to [0, 15]. Each delay unit adds 250µs to the 250µs base.
func (c RadioConfig) WithAutoRetries(delay, count uint8) RadioConfig {
	c.retry = newSetupRetry(delay, count)
	return c
}

// IRQFlags returns which events are routed to the IRQ pin.
func (c RadioConfig) IRQFlags() StatusFlags {
	return StatusFlags{RxDR: c.config.rxDR(), TxDS: c.config.txDS(), TxDF: c.config.txDF()}
}

// WithIRQFlags selects which of the three events assert the IRQ pin.
func (c RadioConfig) WithIRQFlags(enabled StatusFlags) RadioConfig {
	c.config = c.config.withIRQMask(enabled)
	return c
}

// AskNoAck returns the value set by WithAskNoAck.
func (c RadioConfig) AskNoAck() bool { return c.feature.askNoAck() }

// WithAskNoAck allows disabling auto-ack per payload via the askNoAck
// parameter of Write and Send.
func (c RadioConfig) WithAskNoAck(enable bool) RadioConfig {
	c.feature = c.feature.withAskNoAck(enable)
	return c
}

// DynamicPayloads returns the value set by WithDynamicPayloads (also enabled
// implicitly by WithAckPayloads).
func (c RadioConfig) DynamicPayloads() bool { return c.feature.dynamicPayloads() }

// WithDynamicPayloads enables in-band variable payload lengths. Enabling this
// nullifies the static PayloadLength setting.
func (c RadioConfig) WithDynamicPayloads(enable bool) RadioConfig {
	c.feature = c.feature.withDynamicPayloads(enable)
	return c
}

// AutoAck returns the per-pipe auto-ack bitmask set by WithAutoAck.
func (c RadioConfig) AutoAck() byte { return c.autoAck }

// WithAutoAck sets the auto-ack feature per pipe; bit n controls pipe n.
// If any pipe other than 0 has the feature, pipe 0 should too, since pipe 0
// transmits the ack packets while in RX mode.
func (c RadioConfig) WithAutoAck(mask byte) RadioConfig {
	c.autoAck = mask
	return c
}

// AckPayloads returns the value set by WithAckPayloads.
func (c RadioConfig) AckPayloads() bool { return c.feature.ackPayloads() }

// WithAckPayloads enables custom payloads in auto-ack packets. This requires
// (and when enabling, also turns on) auto-ack and dynamic payloads.
func (c RadioConfig) WithAckPayloads(enable bool) RadioConfig {
	if enable {
		c.autoAck = 0xFF
	}
	c.feature = c.feature.withAckPayloads(enable)
	return c
}

// PayloadLength returns the value set by WithPayloadLength.
func (c RadioConfig) PayloadLength() uint8 { return c.payloadLength }

// WithPayloadLength sets the static payload length. The hardware maximum of
// 32 is enforced when the config is applied to a radio.
func (c RadioConfig) WithPayloadLength(n uint8) RadioConfig {
	c.payloadLength = n
	return c
}

// IsRxPipeEnabled reports whether the given RX pipe is open.
func (c RadioConfig) IsRxPipeEnabled(pipe uint8) bool {
	return pipe <= 5 && c.pipes.enabled&(1<<pipe) != 0
}

// CloseRxPipe closes an RX pipe previously opened with WithRxAddress
// (or pipe 1, which DefaultConfig opens).
func (c RadioConfig) CloseRxPipe(pipe uint8) RadioConfig {
	if pipe <= 5 {
		c.pipes.enabled &^= 1 << pipe
	}
	return c
}

// RxAddress returns the 5-byte address book entry for the given pipe.
// For pipes 2-5 the low byte is the pipe's own; the rest mirror pipe 1.
func (c RadioConfig) RxAddress(pipe uint8) []byte {
	return c.pipes.rxAddress(min(pipe, 5))
}

// WithRxAddress sets an RX pipe's address and opens the pipe. Pipes above 5
// are ignored. For pipes 2-5 only the first address byte is used.
func (c RadioConfig) WithRxAddress(pipe uint8, address []byte) RadioConfig {
	c.pipes.setRxAddress(pipe, address)
	return c
}

// TxAddress returns the 5-byte TX address set by WithTxAddress.
func (c RadioConfig) TxAddress() []byte {
	out := make([]byte, 5)
	copy(out, c.pipes.txAddress[:])
	return out
}

// WithTxAddress sets the TX address. Only pipe 0 transmits, including the
// automatic ack packets sent during RX.
func (c RadioConfig) WithTxAddress(address []byte) RadioConfig {
	n := min(len(address), 5)
	copy(c.pipes.txAddress[:n], address[:n])
	return c
}
