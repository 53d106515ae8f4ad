package nrf24

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

// cePin records every level written to the CE line so tests can assert the
// exact pulse sequence, not just the final state.
type cePin struct {
	gpiotest.Pin
	history []gpio.Level
}

func (p *cePin) Out(l gpio.Level) error {
	p.history = append(p.history, l)
	return p.Pin.Out(l)
}

// newTestRadio builds a radio over a playback SPI port that fails the test
// on any transaction not in ops, with sleeps stubbed out.
func newTestRadio(t *testing.T, ops []conntest.IO) (*RF24, *spitest.Playback, *cePin) {
	t.Helper()

	port := &spitest.Playback{
		Playback: conntest.Playback{Ops: ops, DontPanic: true},
	}
	ce := &cePin{Pin: gpiotest.Pin{N: "CE"}}

	r, err := New(port, ce)
	require.NoError(t, err)
	r.sleep = func(time.Duration) {}

	t.Cleanup(func() {
		require.NoError(t, port.Close(), "unconsumed SPI expectations")
	})
	return r, port, ce
}

const testStatus byte = 0x0E

// readOp scripts a register read returning the given value bytes.
func readOp(reg byte, value ...byte) conntest.IO {
	w := make([]byte, 1+len(value))
	w[0] = reg
	return conntest.IO{W: w, R: append([]byte{testStatus}, value...)}
}

// writeOp scripts a register write of the given value bytes.
func writeOp(reg byte, value ...byte) conntest.IO {
	return statusWriteOp(testStatus, reg, value...)
}

// statusWriteOp is writeOp with control over the STATUS byte clocked back.
func statusWriteOp(status, reg byte, value ...byte) conntest.IO {
	return conntest.IO{
		W: append([]byte{cmdWRegister | reg}, value...),
		R: append([]byte{status}, make([]byte, len(value))...),
	}
}

// cmdOp scripts a single-byte command returning the given STATUS.
func cmdOp(cmd, status byte) conntest.IO {
	return conntest.IO{W: []byte{cmd}, R: []byte{status}}
}

// defaultConfigOps is the exact register sequence WithConfig(DefaultConfig())
// produces.
func defaultConfigOps() []conntest.IO {
	ops := []conntest.IO{
		writeOp(regStatus, maskIRQ),
		cmdOp(cmdFlushRx, testStatus),
		cmdOp(cmdFlushTx, testStatus),
		writeOp(regSetupAW, 3),
		writeOp(regSetupRetr, 0x5F),
		writeOp(regEnAA, 0x3F),
		writeOp(regDynPd, 0),
		writeOp(regFeature, 0),
		writeOp(regRFSetup, 0x07),
		writeOp(regRxAddrP0+1, 0xC2, 0xC2, 0xC2, 0xC2, 0xC2),
		writeOp(regRxAddrP0+2, 0xC3),
		writeOp(regRxAddrP0+3, 0xC4),
		writeOp(regRxAddrP0+4, 0xC5),
		writeOp(regRxAddrP0+5, 0xC6),
		writeOp(regTxAddr, 0xE7, 0xE7, 0xE7, 0xE7, 0xE7),
		writeOp(regRxAddrP0, 0xE7, 0xE7, 0xE7, 0xE7, 0xE7),
		writeOp(regEnRxAddr, 3),
	}
	for pipe := byte(0); pipe < 6; pipe++ {
		ops = append(ops, writeOp(regRxPwP0+pipe, 32))
	}
	return append(ops,
		writeOp(regRFChannel, 76),
		writeOp(regConfig, 0x0E),
	)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
