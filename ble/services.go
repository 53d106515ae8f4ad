package ble

import (
	"encoding/binary"
	"strings"

	"github.com/nvx/go-nrf24"
)

// GATT service UUIDs understood by this package.
const (
	temperatureUUID uint16 = 0x1809
	batteryUUID     uint16 = 0x180F
	eddystoneUUID   uint16 = 0xFEAA
)

// PaLevelDbm converts a radio PA level to its output power in dBm.
func PaLevelDbm(level nrf24.PaLevel) int8 {
	switch level {
	case nrf24.PaMin:
		return -18
	case nrf24.PaLow:
		return -12
	case nrf24.PaHigh:
		return -6
	default:
		return 0
	}
}

// BatteryService advertises a battery's remaining charge percentage, in the
// Battery Level format of the GATT Specifications Supplement.
type BatteryService struct {
	buf [5]byte
}

func NewBatteryService() *BatteryService {
	s := &BatteryService{}
	s.buf[0] = 4    // record length including type
	s.buf[1] = 0x16 // service data record
	binary.LittleEndian.PutUint16(s.buf[2:4], batteryUUID)
	return s
}

// SetCharge sets the advertised charge level as an integer percentage.
func (s *BatteryService) SetCharge(percent uint8) {
	s.buf[4] = percent
}

// Charge returns the charge level percentage.
func (s *BatteryService) Charge() uint8 {
	return s.buf[4]
}

// Buffer returns the service as a BLE record ready for FakeBle.Send.
func (s *BatteryService) Buffer() []byte {
	return s.buf[:]
}

func batteryFromBuffer(buf []byte) *BatteryService {
	s := &BatteryService{}
	copy(s.buf[:], buf)
	return s
}

// TemperatureService advertises a temperature measurement in Celsius, in the
// Health Thermometer Measurement format of the GATT Specifications
// Supplement.
type TemperatureService struct {
	buf [8]byte
}

func NewTemperatureService() *TemperatureService {
	s := &TemperatureService{}
	s.buf[0] = 7    // record length including type
	s.buf[1] = 0x16 // service data record
	binary.LittleEndian.PutUint16(s.buf[2:4], temperatureUUID)
	s.buf[7] = 0xFE
	return s
}

// SetTemperature sets the measurement in Celsius, carried on the wire as a
// 24-bit integer of hundredths of a degree.
func (s *TemperatureService) SetTemperature(celsius float32) {
	value := uint32(int32(celsius*100)) & 0xFFFFFF
	s.buf[4] = byte(value)
	s.buf[5] = byte(value >> 8)
	s.buf[6] = byte(value >> 16)
}

// Temperature returns the measurement in Celsius.
func (s *TemperatureService) Temperature() float32 {
	value := uint32(s.buf[4]) | uint32(s.buf[5])<<8 | uint32(s.buf[6])<<16
	return float32(value) / 100
}

// Buffer returns the service as a BLE record ready for FakeBle.Send.
func (s *TemperatureService) Buffer() []byte {
	return s.buf[:]
}

func temperatureFromBuffer(buf []byte) *TemperatureService {
	s := &TemperatureService{}
	copy(s.buf[:], buf)
	return s
}

// URLService advertises a URL in Google's Eddystone format, compressing
// well-known scheme prefixes and domain suffixes to single codex bytes.
type URLService struct {
	buf [18]byte
}

var (
	codexPrefix = []string{"http://www.", "https://www.", "http://", "https://"}
	codexSuffix = []string{
		".com/", ".org/", ".edu/", ".net/", ".info/", ".biz/", ".gov/",
		".com", ".org", ".edu", ".net", ".info", ".biz", ".gov",
	}
)

func NewURLService() *URLService {
	s := &URLService{}
	s.buf[1] = 0x16 // service data record
	binary.LittleEndian.PutUint16(s.buf[2:4], eddystoneUUID)
	s.buf[4] = 0x10 // Eddystone-URL frame type
	s.SetPaLevel(-25)
	return s
}

// SetPaLevel sets the advertised TX power measured at a 1 meter radius, in
// dBm. Defaults to -25.
func (s *URLService) SetPaLevel(level int8) {
	s.buf[5] = byte(level)
}

// PaLevel returns the advertised TX power in dBm.
func (s *URLService) PaLevel() int8 {
	return int8(s.buf[5])
}

// SetURL sets the URL to broadcast. Text beyond what codex compression fits
// into the 12 available bytes is silently dropped.
func (s *URLService) SetURL(value string) {
	index := 6
	pos := 0
	for j, prefix := range codexPrefix {
		if strings.HasPrefix(value, prefix) {
			s.buf[index] = byte(j)
			pos += len(prefix)
			index++
			break
		}
	}
	for i := 0; i < len(value); i++ {
		if index >= len(s.buf) {
			break
		}
		if i < pos {
			continue
		}
		for j, suffix := range codexSuffix {
			if strings.HasPrefix(value[i:], suffix) {
				s.buf[index] = byte(j)
				pos += len(suffix)
				index++
				break
			}
		}
		if i < pos {
			continue
		}
		s.buf[index] = value[i]
		index++
		pos++
	}
	s.buf[0] = byte(index - 1)
}

// URL returns the broadcast URL with codex bytes expanded.
func (s *URLService) URL() string {
	if s.buf[0] < 6 {
		return ""
	}
	var b strings.Builder
	index := 0
	length := int(s.buf[0]) - 5
	for j, prefix := range codexPrefix {
		if byte(j) == s.buf[6] {
			b.WriteString(prefix)
			index++
			break
		}
	}
	for i, by := range s.buf[6 : 6+length] {
		if index > i {
			continue
		}
		for j, suffix := range codexSuffix {
			if byte(j) == by {
				b.WriteString(suffix)
				index++
				break
			}
		}
		if index > i {
			continue
		}
		b.WriteByte(by)
		index++
	}
	return b.String()
}

// Buffer returns the service as a BLE record ready for FakeBle.Send.
func (s *URLService) Buffer() []byte {
	return s.buf[:s.buf[0]+1]
}

func urlFromBuffer(buf []byte) *URLService {
	s := &URLService{}
	copy(s.buf[:], buf)
	return s
}

// Payload is a received BLE advertisement. Fields beyond the MAC address are
// nil unless the advertisement carried the corresponding record.
type Payload struct {
	MacAddress  [6]byte
	ShortName   []byte
	TxPower     *int8
	Battery     *BatteryService
	Temperature *TemperatureService
	URL         *URLService
}

// DecodePayload parses a raw payload read off the air on the given channel.
// Returns nil for anything that is not an intact advertisement: an oversized
// length field, a CRC mismatch (the usual fate of payloads de-whitened for
// the wrong channel), or truncated records.
func DecodePayload(buf []byte, channel uint8) *Payload {
	ReverseBits(buf)
	Whiten(buf, WhitenCoefficient(channel))

	if len(buf) < 2 || buf[1] > 27 {
		return nil
	}
	length := int(buf[1]) + 2
	if length+3 > len(buf) {
		return nil
	}

	expected := CRC24(buf[:length])
	if [3]byte(buf[length:length+3]) != expected {
		return nil
	}

	p := &Payload{}
	copy(p.MacAddress[:], buf[2:8])

	index := 8
	for index < length {
		if index+2 > length || buf[index] == 0 {
			return nil
		}
		recordLen := int(buf[index]) - 1
		recordType := buf[index+1]
		start := index + 2
		end := start + recordLen
		if end > length {
			return nil
		}
		switch recordType {
		case 0x08, 0x09:
			n := min(recordLen, 10)
			p.ShortName = make([]byte, n)
			copy(p.ShortName, buf[start:start+n])
		case 0x0A:
			if recordLen < 1 {
				return nil
			}
			power := int8(buf[start])
			p.TxPower = &power
		case 0x16:
			if recordLen < 2 {
				return nil
			}
			switch binary.LittleEndian.Uint16(buf[start : start+2]) {
			case batteryUUID:
				p.Battery = batteryFromBuffer(buf[index:end])
			case temperatureUUID:
				p.Temperature = temperatureFromBuffer(buf[index:end])
			case eddystoneUUID:
				p.URL = urlFromBuffer(buf[index:end])
			}
		default:
			// unsupported record, skip it
		}
		index = end
	}
	return p
}
