package nrf24

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End to end scenarios running two drivers against a pair of linked
// register-level radio models.

func TestLoopbackGettingStarted(t *testing.T) {
	t.Parallel()

	ra, rb, _, _ := linkEmuRadios()
	require.NoError(t, ra.Begin())
	require.NoError(t, rb.Begin())

	address := []byte("1Node")
	require.NoError(t, rb.OpenRxPipe(1, address))
	require.NoError(t, rb.AsRX())
	require.NoError(t, ra.AsTX(address))

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	ok, err := ra.Send(payload, false)
	require.NoError(t, err)
	assert.True(t, ok, "acked by the listening radio")

	ok, pipe, err := rb.AvailablePipe()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint8(1), pipe)

	buf := make([]byte, 32)
	n, err := rb.Read(buf, LenAuto)
	require.NoError(t, err)
	assert.Equal(t, 32, n, "static payloads arrive padded to the full length")
	assert.Equal(t, payload, buf[:len(payload)])

	ok, err = rb.Available()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoopbackAckPayload(t *testing.T) {
	t.Parallel()

	ra, rb, _, _ := linkEmuRadios()
	require.NoError(t, ra.Begin())
	require.NoError(t, rb.Begin())
	require.NoError(t, ra.SetAckPayloads(true))
	require.NoError(t, rb.SetAckPayloads(true))

	address := []byte("1Node")
	require.NoError(t, rb.OpenRxPipe(1, address))

	ok, err := rb.WriteAckPayload(1, []byte("pong"))
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, rb.AsRX())
	require.NoError(t, ra.AsTX(address))

	ok, err = ra.Send([]byte("ping"), false)
	require.NoError(t, err)
	require.True(t, ok)

	// the ack came back with a payload attached
	ok, err = ra.Available()
	require.NoError(t, err)
	require.True(t, ok)

	buf := make([]byte, 32)
	n, err := ra.Read(buf, LenAuto)
	require.NoError(t, err)
	assert.Equal(t, []byte("pong"), buf[:n])

	n, err = rb.Read(buf, LenAuto)
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), buf[:n])
}

func TestLoopbackTxFifoLimitAndResend(t *testing.T) {
	t.Parallel()

	ra, rb, _, _ := linkEmuRadios()
	require.NoError(t, ra.Begin())
	require.NoError(t, rb.Begin())

	address := []byte("1Node")
	require.NoError(t, ra.AsTX(address))

	// nobody is listening, every payload fails its ack and stays queued
	for i := byte(0); i < 3; i++ {
		ok, err := ra.Write([]byte{i}, false)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	state, err := ra.FifoStateTX()
	require.NoError(t, err)
	assert.Equal(t, FifoFull, state)

	// the fourth payload is rejected outright
	ok, err := ra.Write([]byte{3}, false)
	require.NoError(t, err)
	assert.False(t, ok)

	// once a listener appears, the queue drains via Resend
	require.NoError(t, rb.OpenRxPipe(1, address))
	require.NoError(t, rb.AsRX())

	ok, err = ra.Resend()
	require.NoError(t, err)
	assert.True(t, ok)

	state, err = ra.FifoStateTX()
	require.NoError(t, err)
	assert.Equal(t, FifoEmpty, state)

	state, err = rb.FifoStateRX()
	require.NoError(t, err)
	assert.Equal(t, FifoFull, state)
}

func TestLoopbackBroadcastWithoutAck(t *testing.T) {
	t.Parallel()

	ra, rb, _, _ := linkEmuRadios()
	require.NoError(t, ra.Begin())
	require.NoError(t, rb.Begin())
	require.NoError(t, ra.SetAutoAck(0))
	require.NoError(t, rb.SetAutoAck(0))

	address := []byte("bcast")
	require.NoError(t, rb.OpenRxPipe(1, address))
	require.NoError(t, rb.AsRX())
	require.NoError(t, ra.AsTX(address))

	ok, err := ra.Send([]byte("hello"), false)
	require.NoError(t, err)
	assert.True(t, ok, "no ack expected, success means it left the antenna")

	ok, err = rb.Available()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoopbackAskNoAck(t *testing.T) {
	t.Parallel()

	ra, rb, _, _ := linkEmuRadios()
	require.NoError(t, ra.Begin())
	require.NoError(t, rb.Begin())
	require.NoError(t, ra.AllowAskNoAck(true))

	address := []byte("1Node")
	require.NoError(t, rb.OpenRxPipe(1, address))
	require.NoError(t, rb.AsRX())
	require.NoError(t, ra.AsTX(address))

	// auto-ack stays on for both sides, this one payload opts out
	ok, err := ra.Send([]byte("quiet"), true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rb.Available()
	require.NoError(t, err)
	assert.True(t, ok)
}
