package nrf24

import (
	"time"

	"github.com/ansel1/merry/v2"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const powerUpDelay = 5 * time.Millisecond

// RF24 drives a single nRF24L01(+) transceiver over SPI plus a dedicated CE
// GPIO. Methods are not safe for concurrent use; the chip has one shared
// scratch state (the STATUS byte and FIFOs) so callers must serialize access.
type RF24 struct {
	conn  spi.Conn
	ce    gpio.PinOut
	sleep func(time.Duration)

	txBuf [33]byte
	rxBuf [33]byte

	// mirror of hot registers so getters avoid bus traffic
	status        byte
	config        configReg
	feature       featureReg
	payloadLength uint8
	addressLength uint8
	txAddress     [5]byte
	pipe0RxAddr   []byte
	plusVariant   bool
	txDelay       time.Duration
	ceHigh        bool
}

// New opens the given SPI port at the radio's maximum of 10MHz (mode 0,
// 8-bit words) and pairs it with the CE pin. Call Begin before anything else.
func New(port spi.Port, ce gpio.PinOut) (_ *RF24, err error) {
	defer deferWrap(&err)

	c, err := port.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, merry.Wrap(err)
	}

	return NewFromConn(c, ce), nil
}

// NewFromConn wires an already-connected SPI device. The conn must own chip
// select framing per transaction, as periph ports do.
func NewFromConn(c spi.Conn, ce gpio.PinOut) *RF24 {
	return &RF24{
		conn:  c,
		ce:    ce,
		sleep: time.Sleep,
	}
}

func (r *RF24) setCE(level gpio.Level) error {
	r.ceHigh = bool(level)
	return merry.Wrap(r.ce.Out(level))
}

// Begin powers the radio through its reset sequence and applies
// DefaultConfig. It must be called once before any other method.
//
// ErrBinaryCorruption from here usually means a wiring problem: the CONFIG
// register read back over MOSI/MISO does not match what was just written.
func (r *RF24) Begin() (err error) {
	defer deferWrap(&err)

	// Settling time after power up or reset. Configuration writes issued too
	// early do not stick, 16-bit CRC being the most visible casualty.
	r.sleep(powerUpDelay)

	r.config = configReg(Crc16Bit)
	err = r.PowerDown()
	if err != nil {
		return err
	}

	got, err := r.readRegister(regConfig)
	if err != nil {
		return err
	}
	if got != byte(r.config) {
		return merry.Wrap(ErrBinaryCorruption)
	}

	// Non-plus chips keep the FEATURE register locked behind the ACTIVATE
	// command, so toggling it changes what a read returns. On plus variants
	// the toggle is a no-op.
	before, err := r.readRegister(regFeature)
	if err != nil {
		return err
	}
	err = r.toggleFeatures()
	if err != nil {
		return err
	}
	after, err := r.readRegister(regFeature)
	if err != nil {
		return err
	}
	r.plusVariant = before == after
	if after < before {
		// MCU reset without a radio power-on-reset left features toggled off
		err = r.toggleFeatures()
		if err != nil {
			return err
		}
	}

	return r.WithConfig(DefaultConfig())
}

// WithConfig writes an entire RadioConfig to the chip. The radio is left
// powered up in TX (standby-I) mode with CE low and both FIFOs flushed.
func (r *RF24) WithConfig(config RadioConfig) (err error) {
	defer deferWrap(&err)

	r.config = config.config.withPower(true)
	err = r.setCE(gpio.Low)
	if err != nil {
		return err
	}
	err = r.ClearStatusFlags(AllStatusFlags)
	if err != nil {
		return err
	}

	err = r.FlushRX()
	if err != nil {
		return err
	}
	err = r.FlushTX()
	if err != nil {
		return err
	}

	err = r.SetAddressLength(config.addressLength)
	if err != nil {
		return err
	}

	err = r.writeRegister(regSetupRetr, byte(config.retry))
	if err != nil {
		return err
	}
	err = r.writeRegister(regEnAA, config.autoAck)
	if err != nil {
		return err
	}

	r.feature = config.feature
	var dynPd byte
	if r.feature.dynamicPayloads() {
		dynPd = 0x3F
	}
	err = r.writeRegister(regDynPd, dynPd)
	if err != nil {
		return err
	}
	err = r.writeRegister(regFeature, byte(r.feature)&featureRegMask)
	if err != nil {
		return err
	}

	err = r.writeRegister(regRFSetup, byte(config.rf))
	if err != nil {
		return err
	}
	r.txDelay = txDelay(config.rf.dataRate())

	// Pipe 0 doubles as the ack-receive pipe in TX mode, so its RX address is
	// only restored by AsRX. Cache it here if the pipe is open for RX.
	if config.IsRxPipeEnabled(0) {
		addr := make([]byte, 5)
		copy(addr, config.pipes.pipe0[:])
		r.pipe0RxAddr = addr
	}
	err = r.writeRegisterBuf(regRxAddrP0+1, config.pipes.pipe1[:r.addressLength])
	if err != nil {
		return err
	}
	for pipe := byte(2); pipe < 6; pipe++ {
		err = r.writeRegister(regRxAddrP0+pipe, config.pipes.prefixes[pipe-2])
		if err != nil {
			return err
		}
	}

	r.txAddress = config.pipes.txAddress
	for _, reg := range []byte{regTxAddr, regRxAddrP0} {
		err = r.writeRegisterBuf(reg, r.txAddress[:r.addressLength])
		if err != nil {
			return err
		}
	}

	// open configured RX pipes, and always pipe 0 for TX mode
	err = r.writeRegister(regEnRxAddr, config.pipes.enabled|1)
	if err != nil {
		return err
	}

	err = r.SetPayloadLength(config.payloadLength)
	if err != nil {
		return err
	}

	err = r.SetChannel(config.channel)
	if err != nil {
		return err
	}

	return r.writeRegister(regConfig, byte(r.config))
}

// IsPlusVariant reports whether Begin detected a nRF24L01+ (as opposed to the
// first-generation nRF24L01).
func (r *RF24) IsPlusVariant() bool {
	return r.plusVariant
}

// IsPowered reports the cached power state set by PowerUp and PowerDown.
func (r *RF24) IsPowered() bool {
	return r.config.power()
}

// PowerUp takes the radio out of the 900nA power-down state into standby-I.
// Blocks for the chip's 5ms oscillator start when it was actually down.
func (r *RF24) PowerUp() (err error) {
	defer deferWrap(&err)

	if r.config.power() {
		return nil
	}
	r.config = r.config.withPower(true)
	err = r.writeRegister(regConfig, byte(r.config))
	if err != nil {
		return err
	}
	r.sleep(powerUpDelay)
	return nil
}

// PowerDown drops CE and puts the radio in its lowest power state. Any
// FIFO contents are retained.
func (r *RF24) PowerDown() (err error) {
	defer deferWrap(&err)

	err = r.setCE(gpio.Low)
	if err != nil {
		return err
	}
	r.config = r.config.withPower(false)
	return r.writeRegister(regConfig, byte(r.config))
}

// RPD reports the Received Power Detector: true when a signal stronger than
// -64dBm was present on the current channel during RX.
func (r *RF24) RPD() (_ bool, err error) {
	defer deferWrap(&err)

	rpd, err := r.readRegister(regRPD)
	if err != nil {
		return false, err
	}
	return rpd&1 != 0, nil
}

// StartCarrierWave emits a constant unmodulated carrier at the given level
// and channel, for regulatory testing or a poor man's spectrum probe on a
// second radio's RPD. Non-plus variants fake it by retransmitting an all-ones
// payload with CRC disabled.
func (r *RF24) StartCarrierWave(level PaLevel, channel uint8) (err error) {
	defer deferWrap(&err)

	err = r.AsTX(nil)
	if err != nil {
		return err
	}

	if !r.plusVariant {
		err = r.SetAutoAck(0)
		if err != nil {
			return err
		}
		err = r.SetAutoRetries(0, 0)
		if err != nil {
			return err
		}
		var ones [maxPayloadLength]byte
		for i := range ones {
			ones[i] = 0xFF
		}
		err = r.writeCommandBuf(cmdWTxPayload, ones[:])
		if err != nil {
			return err
		}
		err = r.SetCrcLength(CrcDisabled)
		if err != nil {
			return err
		}
	}

	err = r.SetPaLevel(level)
	if err != nil {
		return err
	}
	err = r.SetChannel(channel)
	if err != nil {
		return err
	}

	rf, err := r.readRegister(regRFSetup)
	if err != nil {
		return err
	}
	err = r.writeRegister(regRFSetup, rf|rfCarrierBits)
	if err != nil {
		return err
	}

	err = r.setCE(gpio.High)
	if err != nil {
		return err
	}
	if !r.plusVariant {
		r.sleep(time.Millisecond)
		err = r.setCE(gpio.Low)
		if err != nil {
			return err
		}
		err = r.command(cmdReuseTxPayload)
		if err != nil {
			return err
		}
		err = r.setCE(gpio.High)
		if err != nil {
			return err
		}
	}
	return nil
}

// StopCarrierWave ends a StartCarrierWave transmission and leaves the radio
// powered down.
func (r *RF24) StopCarrierWave() (err error) {
	defer deferWrap(&err)

	// Datasheet erratum: CE must drop while CONT_WAVE is still set, then
	// again after clearing it, or the carrier lingers.
	err = r.setCE(gpio.Low)
	if err != nil {
		return err
	}
	err = r.PowerDown()
	if err != nil {
		return err
	}

	rf, err := r.readRegister(regRFSetup)
	if err != nil {
		return err
	}
	err = r.writeRegister(regRFSetup, rf&^rfCarrierBits)
	if err != nil {
		return err
	}
	return r.setCE(gpio.Low)
}
