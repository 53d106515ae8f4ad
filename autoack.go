package nrf24

// SetAutoAck configures the auto-acknowledgement feature per pipe; bit n of
// the mask controls pipe n. Disabling all pipes also disables ack payloads.
// Keep pipe 0 (bit 0) enabled whenever any other pipe is, it carries the
// outgoing ack packets.
func (r *RF24) SetAutoAck(mask byte) (err error) {
	defer deferWrap(&err)

	if mask == 0 && r.feature.ackPayloads() {
		r.feature = r.feature.withAckPayloads(false)
		err = r.writeRegister(regFeature, byte(r.feature)&featureRegMask)
		if err != nil {
			return err
		}
	}
	return r.writeRegister(regEnAA, mask)
}

// SetAutoAckPipe toggles auto-ack on a single pipe. Pipes above 5 are
// ignored. Disabling pipe 0 also disables ack payloads.
func (r *RF24) SetAutoAckPipe(enable bool, pipe uint8) (err error) {
	defer deferWrap(&err)

	if pipe > 5 {
		return nil
	}
	mask, err := r.readRegister(regEnAA)
	if err != nil {
		return err
	}
	if pipe == 0 && !enable && r.feature.ackPayloads() {
		r.feature = r.feature.withAckPayloads(false)
		err = r.writeRegister(regFeature, byte(r.feature)&featureRegMask)
		if err != nil {
			return err
		}
	}
	if enable {
		mask |= 1 << pipe
	} else {
		mask &^= 1 << pipe
	}
	return r.writeRegister(regEnAA, mask)
}

// SetAutoRetries configures automatic retransmission: count attempts
// (0 disables) spaced delay*250+250 microseconds apart, both clamped to 15.
// Keep the delay at 1 or more when ack payloads can exceed 15 bytes.
func (r *RF24) SetAutoRetries(delay, count uint8) error {
	return r.writeRegister(regSetupRetr, byte(newSetupRetry(delay, count)))
}

// SetAckPayloads enables attaching custom payloads to auto-ack packets.
// Enabling forces dynamic payloads on; disabling leaves them as they were.
func (r *RF24) SetAckPayloads(enable bool) (err error) {
	defer deferWrap(&err)

	if r.feature.ackPayloads() == enable {
		return nil
	}
	r.feature = r.feature.withAckPayloads(enable)
	err = r.writeRegister(regFeature, byte(r.feature)&featureRegMask)
	if err != nil {
		return err
	}
	if enable {
		return r.writeRegister(regDynPd, 0x3F)
	}
	return nil
}

// AckPayloads returns the cached ack payload setting.
func (r *RF24) AckPayloads() bool {
	return r.feature.ackPayloads()
}

// AllowAskNoAck enables the askNoAck parameter of Write and Send, letting
// individual payloads opt out of acknowledgement while auto-ack stays on.
func (r *RF24) AllowAskNoAck(enable bool) error {
	r.feature = r.feature.withAskNoAck(enable)
	return r.writeRegister(regFeature, byte(r.feature)&featureRegMask)
}

// WriteAckPayload queues a payload to ride along with the auto-ack of the
// next packet received on the given pipe. Only valid in RX mode with
// SetAckPayloads enabled. Returns false when the feature is off, the pipe is
// invalid, or the TX FIFO is full; queued ack payloads persist in the FIFO
// until transmitted or flushed.
func (r *RF24) WriteAckPayload(pipe uint8, payload []byte) (_ bool, err error) {
	defer deferWrap(&err)

	if !r.feature.ackPayloads() || pipe > 5 {
		return false, nil
	}

	n := min(len(payload), maxPayloadLength)
	err = r.writeCommandBuf(cmdWAckPayload|pipe, payload[:n])
	if err != nil {
		return false, err
	}
	return !txFull(r.status), nil
}
