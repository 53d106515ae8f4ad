package nrf24

// Update refreshes the cached STATUS byte with a 1-byte NOP transaction.
func (r *RF24) Update() error {
	return r.command(cmdNop)
}

// GetStatusFlags decodes the IRQ events from the cached STATUS byte. Every
// SPI transaction refreshes the cache; call Update for a fresh poll.
func (r *RF24) GetStatusFlags() StatusFlags {
	return statusFlagsFromBits(r.status)
}

// ClearStatusFlags resets the selected latched IRQ events, releasing the IRQ
// pin if one of them was asserting it. Events are write-1-to-clear, so
// clearing is idempotent and unselected events stay latched.
func (r *RF24) ClearStatusFlags(flags StatusFlags) error {
	return r.writeRegister(regStatus, flags.bits())
}

// SetStatusFlags selects which events are reflected on the IRQ pin. Events
// left out still latch in STATUS, they just never assert the pin.
func (r *RF24) SetStatusFlags(enabled StatusFlags) error {
	r.config = r.config.withIRQMask(enabled)
	return r.writeRegister(regConfig, byte(r.config))
}

// Available reports whether a payload is waiting in the RX FIFO.
func (r *RF24) Available() (bool, error) {
	ok, _, err := r.AvailablePipe()
	return ok, err
}

// AvailablePipe is Available plus the number of the pipe that received the
// payload at the head of the RX FIFO. The pipe number is only meaningful
// when a payload is available.
func (r *RF24) AvailablePipe() (_ bool, pipe uint8, err error) {
	defer deferWrap(&err)

	err = r.Update()
	if err != nil {
		return false, 0, err
	}
	pipe = rxPipe(r.status)
	return pipe <= 5, pipe, nil
}

// FlushRX discards all payloads in the RX FIFO. Do this during RX only if
// the remote is quiet, a payload mid-ack gets corrupted otherwise.
func (r *RF24) FlushRX() error {
	return r.command(cmdFlushRx)
}

// FlushTX discards all payloads in the TX FIFO, including unsent ack
// payloads queued while in RX mode.
func (r *RF24) FlushTX() error {
	return r.command(cmdFlushTx)
}

// FifoStateTX reports the occupancy of the 3-level TX FIFO.
func (r *RF24) FifoStateTX() (FifoState, error) {
	return r.fifoState(4)
}

// FifoStateRX reports the occupancy of the 3-level RX FIFO.
func (r *RF24) FifoStateRX() (FifoState, error) {
	return r.fifoState(0)
}

func (r *RF24) fifoState(shift byte) (_ FifoState, err error) {
	defer deferWrap(&err)

	fifo, err := r.readRegister(regFifoStatus)
	if err != nil {
		return FifoEmpty, err
	}
	switch (fifo >> shift) & 3 {
	case 1:
		return FifoEmpty, nil
	case 2:
		return FifoFull, nil
	default:
		return FifoOccupied, nil
	}
}

// DynamicPayloadLength reads the length of the payload at the head of the RX
// FIFO. A value above 32 means the payload is corrupt; it is flushed and 0
// is returned.
func (r *RF24) DynamicPayloadLength() (_ uint8, err error) {
	defer deferWrap(&err)

	length, err := r.readRegister(cmdRRxPayloadLen)
	if err != nil {
		return 0, err
	}
	if length > maxPayloadLength {
		err = r.FlushRX()
		if err != nil {
			return 0, err
		}
		return 0, nil
	}
	return length, nil
}
