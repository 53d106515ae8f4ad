// Package ble abuses a nRF24L01 transceiver into broadcasting (and sniffing)
// BLE advertisements.
//
// The chip predates BLE, so the fit is rough: payloads top out at 18 bytes of
// user data, only the 3 BLE advertising channels are reachable, and the
// 3-byte BLE CRC has to be computed in software with the hardware CRC off.
// Auto-ack, dynamic payloads, and data rates other than 1Mbps are all
// incompatible with BLE and stay disabled; Config returns a radio
// configuration with all of that applied.
package ble

import "math/bits"

// ReverseBits flips the bit order of every byte in buf in place. BLE is
// LSBit-first on air while the nRF24L01 shifts MSBit-first.
func ReverseBits(buf []byte) {
	for i, b := range buf {
		buf[i] = bits.Reverse8(b)
	}
}

// Whiten applies the BLE whitening LFSR to buf in place. The operation is
// its own inverse, so it also de-whitens. The coefficient is derived from
// the channel, see WhitenCoefficient.
func Whiten(buf []byte, coefficient byte) {
	for i := range buf {
		b := buf[i]
		mask := byte(1)
		for bit := 0; bit < 8; bit++ {
			if coefficient&1 == 1 {
				coefficient ^= 0x88
				b ^= mask
			}
			mask <<= 1
			coefficient >>= 1
		}
		buf[i] = b
	}
}

// WhitenCoefficient returns the LFSR seed for the given radio channel: the
// BLE channel index (37, 38, or 39) with bit 6 set. Channels outside the
// BLE set fall back to the first advertising channel's seed.
func WhitenCoefficient(channel uint8) byte {
	index := channelIndex(channel)
	if index < 0 {
		index = 0
	}
	return byte(index+37) | 0x40
}

// CRC24 computes the 3-byte BLE access checksum over data. Append it to a
// payload before Whiten and ReverseBits.
func CRC24(data []byte) [3]byte {
	const poly uint32 = 0x65B
	crc := uint32(0x555555)
	for _, b := range data {
		crc ^= uint32(bits.Reverse8(b)) << 16
		for bit := 0; bit < 8; bit++ {
			if crc&0x800000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		crc &= 0xFFFFFF
	}
	return [3]byte{
		bits.Reverse8(byte(crc >> 16)),
		bits.Reverse8(byte(crc >> 8)),
		bits.Reverse8(byte(crc)),
	}
}
