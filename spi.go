package nrf24

import (
	"log/slog"

	"github.com/ansel1/merry/v2"
)

// Low level SPI codec. Every transaction is full duplex and the first byte
// clocked back on MISO is always the STATUS register, which gets cached on
// the driver so higher layers can inspect it without an extra NOP.

const maxPayloadLength = 32

// transfer clocks len(tx) bytes out and the same number back in, caching the
// leading STATUS byte. The chip select is held for exactly this transaction
// by the underlying spi.Conn.
func (r *RF24) transfer(tx []byte) (err error) {
	defer deferWrap(&err)

	rx := r.rxBuf[:len(tx)]
	err = r.conn.Tx(tx, rx)
	if err != nil {
		return merry.Wrap(err)
	}
	r.status = rx[0]

	slog.Debug("SPI transfer", logHex("tx", tx), logHex("rx", rx))

	return nil
}

// command issues a single-byte command such as FLUSH_TX or NOP.
func (r *RF24) command(cmd byte) error {
	r.txBuf[0] = cmd
	return r.transfer(r.txBuf[:1])
}

func (r *RF24) readRegister(reg byte) (_ byte, err error) {
	defer deferWrap(&err)

	r.txBuf[0] = reg
	r.txBuf[1] = 0
	err = r.transfer(r.txBuf[:2])
	if err != nil {
		return 0, err
	}

	return r.rxBuf[1], nil
}

func (r *RF24) readRegisterBuf(reg byte, buf []byte) (err error) {
	defer deferWrap(&err)

	r.txBuf[0] = reg
	clear(r.txBuf[1 : 1+len(buf)])
	err = r.transfer(r.txBuf[:1+len(buf)])
	if err != nil {
		return err
	}

	copy(buf, r.rxBuf[1:1+len(buf)])
	return nil
}

func (r *RF24) writeRegister(reg, value byte) error {
	r.txBuf[0] = cmdWRegister | reg
	r.txBuf[1] = value
	return r.transfer(r.txBuf[:2])
}

func (r *RF24) writeRegisterBuf(reg byte, value []byte) error {
	r.txBuf[0] = cmdWRegister | reg
	copy(r.txBuf[1:], value)
	return r.transfer(r.txBuf[:1+len(value)])
}

// writeCommandBuf issues a payload-carrying command (W_TX_PAYLOAD and
// friends) without the W_REGISTER offset.
func (r *RF24) writeCommandBuf(cmd byte, value []byte) error {
	r.txBuf[0] = cmd
	copy(r.txBuf[1:], value)
	return r.transfer(r.txBuf[:1+len(value)])
}

// toggleFeatures issues the ACTIVATE command that first-generation nRF24L01
// chips require before the FEATURE register responds. On plus variants the
// command is a no-op unless it was latched by a previous ACTIVATE.
func (r *RF24) toggleFeatures() error {
	r.txBuf[0] = cmdActivate
	r.txBuf[1] = 0x73
	return r.transfer(r.txBuf[:2])
}
