package nrf24

// OpenRxPipe opens one of the 6 RX pipes with the given address. Pipes above
// 5 are ignored, addresses are truncated to the configured width, and pipes
// 2-5 only take their first byte (the rest is shared with pipe 1).
//
// Pipe 0's address is cached rather than kept in hardware while in TX mode,
// because TX mode claims pipe 0 for receiving acks.
func (r *RF24) OpenRxPipe(pipe uint8, address []byte) (err error) {
	defer deferWrap(&err)

	if pipe > 5 || len(address) == 0 {
		return nil
	}

	switch {
	case pipe == 0:
		// cache the full 5 bytes so a later width change cannot outgrow it
		addr := make([]byte, 5)
		copy(addr, address)
		r.pipe0RxAddr = addr
		err = r.writeRegisterBuf(regRxAddrP0, addr[:r.addressLength])
	case pipe == 1:
		n := min(len(address), int(r.addressLength))
		err = r.writeRegisterBuf(regRxAddrP0+1, address[:n])
	default:
		err = r.writeRegister(regRxAddrP0+pipe, address[0])
	}
	if err != nil {
		return err
	}

	enabled, err := r.readRegister(regEnRxAddr)
	if err != nil {
		return err
	}
	return r.writeRegister(regEnRxAddr, enabled|1<<pipe)
}

// CloseRxPipe stops the given pipe from receiving. Closing pipe 0 also
// forgets its cached RX address, so a later AsTX/AsRX cycle will not reopen
// it for receiving.
func (r *RF24) CloseRxPipe(pipe uint8) (err error) {
	defer deferWrap(&err)

	if pipe > 5 {
		return nil
	}
	if pipe == 0 {
		r.pipe0RxAddr = nil
	}

	enabled, err := r.readRegister(regEnRxAddr)
	if err != nil {
		return err
	}
	return r.writeRegister(regEnRxAddr, enabled&^(1<<pipe))
}
