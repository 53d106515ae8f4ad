package nrf24

import (
	"time"

	"github.com/ansel1/merry/v2"
	"periph.io/x/conn/v3/gpio"
)

// LenAuto asks Read to size the transfer itself: the dynamic payload length
// when dynamic payloads are enabled, the static payload length otherwise.
const LenAuto = -1

// AsRX puts the radio in active RX mode: PRIM_RX set, status cleared, CE
// high. If pipe 0 has an RX address it is restored here, since TX mode
// overwrites it with the TX address for ack reception.
func (r *RF24) AsRX() (err error) {
	defer deferWrap(&err)

	r.config = r.config.asRX().withPower(true)
	err = r.writeRegister(regConfig, byte(r.config))
	if err != nil {
		return err
	}
	err = r.ClearStatusFlags(AllStatusFlags)
	if err != nil {
		return err
	}
	err = r.setCE(gpio.High)
	if err != nil {
		return err
	}

	if r.pipe0RxAddr != nil {
		return r.writeRegisterBuf(regRxAddrP0, r.pipe0RxAddr[:r.addressLength])
	}
	return r.CloseRxPipe(0)
}

// AsTX drops the radio into TX (standby-I) mode. A non-nil txAddress also
// retargets transmissions: it is written to TX_ADDR and mirrored to RX pipe 0
// so auto-ack responses find their way back. Addresses longer than the
// configured width are truncated; nil keeps the current target.
func (r *RF24) AsTX(txAddress []byte) (err error) {
	defer deferWrap(&err)

	err = r.setCE(gpio.Low)
	if err != nil {
		return err
	}

	// allow any in-flight RX ack or payload to finish hitting the air
	r.sleep(r.txDelay)
	if r.feature.ackPayloads() {
		err = r.FlushTX()
		if err != nil {
			return err
		}
	}

	r.config = r.config.asTX().withPower(true)
	err = r.writeRegister(regConfig, byte(r.config))
	if err != nil {
		return err
	}
	err = r.ClearStatusFlags(AllStatusFlags)
	if err != nil {
		return err
	}

	if txAddress != nil {
		n := min(len(txAddress), len(r.txAddress))
		copy(r.txAddress[:n], txAddress[:n])
		for _, reg := range []byte{regTxAddr, regRxAddrP0} {
			err = r.writeRegisterBuf(reg, r.txAddress[:r.addressLength])
			if err != nil {
				return err
			}
		}
	}

	// pipe 0 must be open to hear acks, regardless of its RX configuration
	en, err := r.readRegister(regEnRxAddr)
	if err != nil {
		return err
	}
	return r.writeRegister(regEnRxAddr, en|1)
}

// IsRX reports the cached mode set by AsRX and AsTX.
func (r *RF24) IsRX() bool {
	return r.config.isRX()
}

// Send transmits one payload and blocks until the radio reports the outcome:
// true when an ack arrived (or askNoAck was used), false when all auto-retry
// attempts failed or the payload could not be queued. The TX FIFO is flushed
// on entry so exactly the given payload goes out.
//
// Returns ErrNotInTxMode when called without AsTX, since the radio would
// never raise a TX event and the status poll would spin forever.
func (r *RF24) Send(payload []byte, askNoAck bool) (_ bool, err error) {
	defer deferWrap(&err)

	err = r.setCE(gpio.Low)
	if err != nil {
		return false, err
	}
	err = r.FlushTX()
	if err != nil {
		return false, err
	}
	ok, err := r.Write(payload, askNoAck)
	if err != nil || !ok {
		return false, err
	}

	r.sleep(10 * time.Microsecond)
	for r.status&(maskTxDS|maskMaxRT) == 0 {
		err = r.Update()
		if err != nil {
			return false, err
		}
	}
	return r.status&maskTxDS != 0, nil
}

// Write queues one payload in the TX FIFO and raises CE, without waiting for
// the result. Returns false when the 3-deep FIFO is already full. Poll
// GetStatusFlags (after Update) for the TxDS/TxDF outcome; with auto-retries
// a failed payload stays at the FIFO head until Resend, Rewrite, or FlushTX.
//
// askNoAck marks this one payload to be sent without expecting an ack; it
// requires the feature enabled via WithAskNoAck or AllowAskNoAck.
func (r *RF24) Write(payload []byte, askNoAck bool) (bool, error) {
	return r.write(payload, askNoAck, true)
}

func (r *RF24) write(payload []byte, askNoAck, startTx bool) (_ bool, err error) {
	defer deferWrap(&err)

	if r.IsRX() {
		return false, merry.Wrap(ErrNotInTxMode)
	}

	err = r.ClearStatusFlags(StatusFlags{TxDS: true, TxDF: true})
	if err != nil {
		return false, err
	}
	if txFull(r.status) {
		return false, nil
	}

	cmd := cmdWTxPayload
	if askNoAck {
		cmd = cmdWTxPayloadNoAck
	}
	n := min(len(payload), maxPayloadLength)
	r.txBuf[0] = cmd
	copy(r.txBuf[1:], payload[:n])
	if !r.feature.dynamicPayloads() && n < int(r.payloadLength) {
		// static payload lengths are fixed at the receiver, pad with zeros
		clear(r.txBuf[1+n : 1+int(r.payloadLength)])
		n = int(r.payloadLength)
	}
	err = r.transfer(r.txBuf[:1+n])
	if err != nil {
		return false, err
	}

	if startTx {
		err = r.setCE(gpio.High)
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// Read fetches up to length bytes from the head of the RX FIFO into buf and
// clears the RxDR event. Pass LenAuto to let the driver size the transfer.
// A payload only leaves the FIFO once its full length has been fetched;
// reading less leaves the remainder for the next call, and reading past the
// last payload repeats its final byte.
func (r *RF24) Read(buf []byte, length int) (_ int, err error) {
	defer deferWrap(&err)

	if length == LenAuto {
		if r.feature.dynamicPayloads() {
			dynLen, err := r.DynamicPayloadLength()
			if err != nil {
				return 0, err
			}
			length = int(dynLen)
		} else {
			length = int(r.payloadLength)
		}
	}
	n := min(length, len(buf), maxPayloadLength)
	if n <= 0 {
		return 0, nil
	}

	err = r.readRegisterBuf(cmdRRxPayload, buf[:n])
	if err != nil {
		return 0, err
	}
	err = r.ClearStatusFlags(StatusFlags{RxDR: true})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Resend blocks while retransmitting the last sent payload, reporting the
// outcome like Send. Useful after a Send returned false to retry without
// re-uploading. Returns false immediately in RX mode.
func (r *RF24) Resend() (_ bool, err error) {
	defer deferWrap(&err)

	if r.IsRX() {
		return false, nil
	}
	err = r.Rewrite()
	if err != nil {
		return false, err
	}

	r.sleep(10 * time.Microsecond)
	for r.status&(maskTxDS|maskMaxRT) == 0 {
		err = r.Update()
		if err != nil {
			return false, err
		}
	}
	return r.status&maskTxDS != 0, nil
}

// Rewrite restarts transmission of the last sent payload without blocking,
// leaving CE high so the radio retransmits it on every failure until the
// payload is acked or the TX FIFO is flushed.
func (r *RF24) Rewrite() (err error) {
	defer deferWrap(&err)

	err = r.setCE(gpio.Low)
	if err != nil {
		return err
	}
	err = r.ClearStatusFlags(StatusFlags{TxDS: true, TxDF: true})
	if err != nil {
		return err
	}
	err = r.command(cmdReuseTxPayload)
	if err != nil {
		return err
	}
	return r.setCE(gpio.High)
}

// LastARC returns how many auto-retransmit attempts the most recent
// transmission took, from the OBSERVE_TX register.
func (r *RF24) LastARC() (_ uint8, err error) {
	defer deferWrap(&err)

	observe, err := r.readRegister(regObserveTx)
	if err != nil {
		return 0, err
	}
	return observe & 0x0F, nil
}
