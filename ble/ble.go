package ble

import (
	"crypto/rand"

	"github.com/nvx/go-nrf24"
)

// Channels holds the three BLE advertising channels the nRF24L01 can reach.
var Channels = [3]uint8{2, 26, 80}

// accessAddress is the fixed BLE advertising access address, truncated to the
// 4 bytes the radio can match on.
var accessAddress = [4]byte{0x71, 0x91, 0x7D, 0x6B}

func channelIndex(channel uint8) int {
	for i, ch := range Channels {
		if ch == channel {
			return i
		}
	}
	return -1
}

// NextChannel returns the BLE advertising channel following current, wrapping
// around the set. ok is false when current is not a BLE channel.
func NextChannel(current uint8) (_ uint8, ok bool) {
	index := channelIndex(current)
	if index < 0 {
		return 0, false
	}
	return Channels[(index+1)%len(Channels)], true
}

// Config returns a RadioConfig for over-the-air compatibility with BLE
// advertising: first BLE channel, hardware CRC off, auto-ack and retries off,
// and the BLE access address on 4-byte addressing. Apply it with
// RF24.WithConfig before using FakeBle.
func Config() nrf24.RadioConfig {
	return nrf24.DefaultConfig().
		WithChannel(Channels[0]).
		WithCrcLength(nrf24.CrcDisabled).
		WithAutoAck(0).
		WithAutoRetries(0, 0).
		WithAddressLength(4).
		WithRxAddress(1, accessAddress[:]).
		WithTxAddress(accessAddress[:])
}

const deviceFlags byte = 0x42

var profileFlags = [3]byte{2, 1, 5}

// FakeBle fakes a BLE advertiser on top of an RF24. It holds only the
// advertised identity; the radio is borrowed per call so it can be shared
// with non-BLE duties between advertisements.
type FakeBle struct {
	name [12]byte

	// ShowPaLevel includes the radio's PA level in advertisements, costing
	// 3 of the 18 available payload bytes.
	ShowPaLevel bool
	// MacAddress uniquely identifies this BLE device. NewFakeBle seeds it
	// randomly; overwrite it for a stable identity.
	MacAddress [6]byte
}

// NewFakeBle returns a FakeBle with a random static MAC address.
func NewFakeBle() *FakeBle {
	b := &FakeBle{}
	if _, err := rand.Read(b.MacAddress[:]); err != nil {
		copy(b.MacAddress[:], "nRF24L")
	}
	// random static addresses have the two most significant bits set
	b.MacAddress[5] |= 0xC0
	return b
}

// SetName sets the device name included in advertisements, truncated to 10
// bytes. A name occupies its length plus 2 bytes of the available payload;
// set the empty string to reclaim them.
func (b *FakeBle) SetName(name string) {
	if name == "" {
		b.name = [12]byte{}
		return
	}
	n := min(len(name), 10)
	copy(b.name[2:], name[:n])
	b.name[0] = byte(n) + 1
	b.name[1] = 0x08
}

// Name returns the device name set by SetName, or the empty string.
func (b *FakeBle) Name() string {
	if b.name[0] <= 1 {
		return ""
	}
	return string(b.name[2 : 1+b.name[0]])
}

// LenAvailable returns how many payload bytes would remain free if the
// hypothetical buffer were advertised with the current name and ShowPaLevel
// settings. A negative result means Send would refuse the buffer.
func (b *FakeBle) LenAvailable(hypothetical []byte) int {
	result := 18 - len(hypothetical)
	if b.name[0] > 1 {
		result -= int(b.name[0]) + 1
	}
	if b.ShowPaLevel {
		result -= 3
	}
	return result
}

// HopChannel tunes the radio to the next BLE advertising channel. Calling
// this between advertisements is not required but spreads the bandwidth use
// as the BLE specification intends. Radios tuned outside the BLE channels
// are left alone.
func (b *FakeBle) HopChannel(r *nrf24.RF24) (err error) {
	defer deferWrap(&err)

	channel, err := r.Channel()
	if err != nil {
		return err
	}
	if next, ok := NextChannel(channel); ok {
		return r.SetChannel(next)
	}
	return nil
}

// MakePayload assembles a raw 32-byte advertisement around buf: device
// flags, MAC address, capability flags, the optional PA level (nil omits it)
// and name records, then the CRC24, all whitened and bit-reversed for the
// given channel. Returns nil when everything combined exceeds the payload
// size; LenAvailable predicts this.
//
// This is Send's guts, exposed for advanced use such as queueing payloads
// with RF24.Write directly.
func (b *FakeBle) MakePayload(buf []byte, paLevel *nrf24.PaLevel, channel uint8) []byte {
	payloadLength := len(buf) + 9

	tx := make([]byte, 32)
	tx[0] = deviceFlags
	// tx[1] is the payload length, filled in below once records are counted.
	// It excludes tx[0], itself, and the trailing CRC24.
	copy(tx[2:8], b.MacAddress[:])
	copy(tx[8:11], profileFlags[:])
	offset := 11

	if paLevel != nil {
		tx[offset] = 2
		tx[offset+1] = 0x0A
		tx[offset+2] = byte(PaLevelDbm(*paLevel))
		offset += 3
		payloadLength += 3
	}

	if b.name[0] > 1 {
		n := int(b.name[0]) + 1
		copy(tx[offset:offset+n], b.name[:n])
		offset += n
		payloadLength += n
	}

	// 2 header bytes + payload + 3 CRC bytes must fit in the 32-byte frame
	if payloadLength > 27 {
		return nil
	}
	tx[1] = byte(payloadLength)

	copy(tx[offset:], buf)
	offset += len(buf)
	crc := CRC24(tx[:offset])
	copy(tx[offset:offset+3], crc[:])
	offset += 3

	Whiten(tx[:offset], WhitenCoefficient(channel))
	ReverseBits(tx[:offset])
	return tx
}

// Send broadcasts one BLE advertisement carrying buf, which must already be
// a BLE record: its length minus 1, then 0xFF, then the data. The service
// types in this package produce compliant buffers via their Buffer methods.
//
// Returns false without transmitting when buf does not fit, see
// LenAvailable. With the Config applied there is no ack to wait for, so
// true only means the payload hit the air.
func (b *FakeBle) Send(r *nrf24.RF24, buf []byte) (_ bool, err error) {
	defer deferWrap(&err)

	var paLevel *nrf24.PaLevel
	if b.ShowPaLevel {
		level, err := r.PaLevel()
		if err != nil {
			return false, err
		}
		paLevel = &level
	}
	channel, err := r.Channel()
	if err != nil {
		return false, err
	}

	payload := b.MakePayload(buf, paLevel, channel)
	if payload == nil {
		return false, nil
	}
	return r.Send(payload, false)
}

// Read fetches one payload from the radio's RX FIFO and decodes it as a BLE
// advertisement. Check RF24.Available first. Returns nil for payloads that
// are not valid advertisements, including any received after the radio
// hopped off the channel they were whitened for.
func (b *FakeBle) Read(r *nrf24.RF24) (_ *Payload, err error) {
	defer deferWrap(&err)

	var buf [32]byte
	_, err = r.Read(buf[:], len(buf))
	if err != nil {
		return nil, err
	}
	channel, err := r.Channel()
	if err != nil {
		return nil, err
	}
	return DecodePayload(buf[:], channel), nil
}
