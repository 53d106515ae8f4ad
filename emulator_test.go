package nrf24

import (
	"bytes"
	"errors"
	"slices"
	"time"

	conn "periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"
)

// emuRadio is a register-level model of a nRF24L01+ good enough to run two
// drivers back to back: registers, 3-deep FIFOs, address matching, auto-ack
// and ack payloads. Payloads cross the "air" to the peer synchronously when
// CE rises or while it is high.
type emuRadio struct {
	regs    map[byte]byte
	addr    map[byte][]byte
	txFifo  []emuPayload
	rxFifo  []emuPayload
	ackFifo map[byte][]emuPayload
	latched byte
	ce      emuCE
	peer    *emuRadio
}

type emuPayload struct {
	data  []byte
	pipe  byte
	noAck bool
}

type emuCE struct {
	gpiotest.Pin
	radio *emuRadio
}

func (p *emuCE) Out(l gpio.Level) error {
	err := p.Pin.Out(l)
	if l == gpio.High {
		p.radio.pump()
	}
	return err
}

func newEmuRadio() *emuRadio {
	e := &emuRadio{
		regs: map[byte]byte{
			regConfig:   0x08,
			regEnAA:     0x3F,
			regEnRxAddr: 0x03,
			regSetupAW:  0x03,
		},
		addr: map[byte][]byte{
			regRxAddrP0:     {0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
			regRxAddrP0 + 1: {0xC2, 0xC2, 0xC2, 0xC2, 0xC2},
			regTxAddr:       {0xE7, 0xE7, 0xE7, 0xE7, 0xE7},
		},
		ackFifo: map[byte][]emuPayload{},
	}
	e.ce.radio = e
	e.ce.N = "CE"
	return e
}

// linkEmuRadios wires two models to each other's antennas and returns a
// driver for each.
func linkEmuRadios() (*RF24, *RF24, *emuRadio, *emuRadio) {
	a := newEmuRadio()
	b := newEmuRadio()
	a.peer = b
	b.peer = a

	ra := NewFromConn(a, &a.ce)
	ra.sleep = func(d time.Duration) {}
	rb := NewFromConn(b, &b.ce)
	rb.sleep = func(d time.Duration) {}
	return ra, rb, a, b
}

var _ spi.Conn = (*emuRadio)(nil)

func (e *emuRadio) String() string      { return "emunrf24" }
func (e *emuRadio) Duplex() conn.Duplex { return conn.Full }

func (e *emuRadio) TxPackets([]spi.Packet) error {
	return errors.New("not supported")
}

func (e *emuRadio) Tx(w, r []byte) error {
	if len(w) != len(r) {
		return errors.New("length mismatch")
	}
	r[0] = e.statusByte()

	cmd := w[0]
	switch {
	case cmd == cmdNop || cmd == cmdActivate:

	case cmd == cmdRRxPayload:
		if len(e.rxFifo) > 0 {
			head := e.rxFifo[0]
			copy(r[1:], head.data)
			e.rxFifo = e.rxFifo[1:]
		}

	case cmd == cmdRRxPayloadLen:
		if len(e.rxFifo) > 0 {
			r[1] = byte(len(e.rxFifo[0].data))
		}

	case cmd == cmdWTxPayload || cmd == cmdWTxPayloadNoAck:
		if len(e.txFifo) < 3 {
			e.txFifo = append(e.txFifo, emuPayload{
				data:  slices.Clone(w[1:]),
				noAck: cmd == cmdWTxPayloadNoAck,
			})
			e.pump()
		}

	case cmd&0xF8 == cmdWAckPayload:
		pipe := cmd & 0x07
		if len(e.ackFifo[pipe]) < 3 {
			e.ackFifo[pipe] = append(e.ackFifo[pipe], emuPayload{
				data: slices.Clone(w[1:]),
				pipe: pipe,
			})
		}

	case cmd == cmdFlushTx:
		e.txFifo = nil

	case cmd == cmdFlushRx:
		e.rxFifo = nil

	case cmd == cmdReuseTxPayload:

	case cmd >= cmdWRegister && cmd < cmdActivate:
		e.writeReg(cmd&0x1F, w[1:])

	default:
		e.readReg(cmd, r[1:])
	}
	return nil
}

func (e *emuRadio) statusByte() byte {
	s := e.latched
	if len(e.rxFifo) > 0 {
		s |= e.rxFifo[0].pipe << 1
	} else {
		s |= 0x0E
	}
	if len(e.txFifo) >= 3 {
		s |= 0x01
	}
	return s
}

func (e *emuRadio) writeReg(reg byte, value []byte) {
	switch reg {
	case regStatus:
		e.latched &^= value[0] & maskIRQ
	case regRxAddrP0, regRxAddrP0 + 1, regTxAddr:
		if len(value) > 1 {
			e.addr[reg] = slices.Clone(value)
			return
		}
		e.addr[reg][0] = value[0]
	case regFifoStatus, regObserveTx, regRPD:
		// read-only
	default:
		e.regs[reg] = value[0]
	}
}

func (e *emuRadio) readReg(reg byte, out []byte) {
	switch reg {
	case regStatus:
		out[0] = e.statusByte()
	case regRxAddrP0, regRxAddrP0 + 1, regTxAddr:
		copy(out, e.addr[reg])
	case regFifoStatus:
		var v byte
		switch len(e.rxFifo) {
		case 0:
			v |= 0x01
		case 3:
			v |= 0x02
		}
		switch len(e.txFifo) {
		case 0:
			v |= 0x10
		case 3:
			v |= 0x20
		}
		out[0] = v
	default:
		out[0] = e.regs[reg]
	}
}

func (e *emuRadio) txMode() bool { return e.regs[regConfig]&3 == 2 }
func (e *emuRadio) rxMode() bool { return e.regs[regConfig]&3 == 3 }
func (e *emuRadio) ceHigh() bool { return e.ce.L == gpio.High }

func (e *emuRadio) addressLength() int { return int(e.regs[regSetupAW]) + 2 }

func (e *emuRadio) rxAddressFor(pipe byte) []byte {
	switch pipe {
	case 0, 1:
		return e.addr[regRxAddrP0+pipe]
	default:
		a := slices.Clone(e.addr[regRxAddrP0+1])
		a[0] = e.regs[regRxAddrP0+pipe]
		return a
	}
}

// pump pushes queued TX payloads over the air while CE is high, stopping at
// the first payload that fails to get its expected ack.
func (e *emuRadio) pump() {
	if !e.txMode() || !e.ceHigh() {
		return
	}
	for len(e.txFifo) > 0 {
		p := e.txFifo[0]
		acked := e.transmit(p)
		if !p.noAck && e.regs[regEnAA]&1 != 0 && !acked {
			e.latched |= maskMaxRT
			return
		}
		e.latched |= maskTxDS
		e.txFifo = e.txFifo[1:]
	}
}

// transmit carries one payload to the peer, reporting whether an ack came
// back. Delivery requires an actively listening peer with an open pipe
// matching the TX address.
func (e *emuRadio) transmit(p emuPayload) bool {
	peer := e.peer
	if peer == nil || !peer.rxMode() || !peer.ceHigh() {
		return false
	}
	n := e.addressLength()
	txAddr := e.addr[regTxAddr][:n]
	for pipe := byte(0); pipe < 6; pipe++ {
		if peer.regs[regEnRxAddr]&(1<<pipe) == 0 {
			continue
		}
		if !bytes.Equal(peer.rxAddressFor(pipe)[:n], txAddr) {
			continue
		}
		if len(peer.rxFifo) < 3 {
			peer.rxFifo = append(peer.rxFifo, emuPayload{data: slices.Clone(p.data), pipe: pipe})
			peer.latched |= maskRxDR
		}
		if p.noAck || peer.regs[regEnAA]&(1<<pipe) == 0 {
			return false
		}
		if q := peer.ackFifo[pipe]; len(q) > 0 {
			e.rxFifo = append(e.rxFifo, q[0])
			e.latched |= maskRxDR
			peer.ackFifo[pipe] = q[1:]
			peer.latched |= maskTxDS
		}
		return true
	}
	return false
}
