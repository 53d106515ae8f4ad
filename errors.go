package nrf24

import "errors"

var (
	// ErrBinaryCorruption indicates data read over the bus does not match any
	// legal encoding for the register in question.
	ErrBinaryCorruption = errors.New("binary corruption on bus")

	// ErrNotInTxMode indicates Write or Send was called while the radio is in
	// RX mode. Transmitting requires AsTX first; rejecting the call here
	// prevents Send's status poll from looping forever.
	ErrNotInTxMode = errors.New("radio is not in TX mode")
)
