package nrf24

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Details reads the chip's configuration back over the bus and renders it as
// a multi-line debugging dump.
func (r *RF24) Details() (_ string, err error) {
	defer deferWrap(&err)

	var b strings.Builder

	channel, err := r.Channel()
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "Channel: %d ~ %d MHz\n", channel, 2400+uint16(channel))

	rf, err := r.readRegister(regRFSetup)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "RF data rate: %v\n", dataRateFromBits(rf))
	fmt.Fprintf(&b, "RF power amplifier: %v\n", paLevelFromBits(rf))
	fmt.Fprintf(&b, "RF low noise amplifier: %v\n", onOff(rfSetup(rf).lnaEnabled()))

	config, err := r.readRegister(regConfig)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "CRC length: %v\n", configReg(config).crcLength())
	if configReg(config).isRX() {
		fmt.Fprintf(&b, "Primary mode: RX\n")
	} else {
		fmt.Fprintf(&b, "Primary mode: TX\n")
	}
	fmt.Fprintf(&b, "Powered up: %v\n", configReg(config).power())
	fmt.Fprintf(&b, "Is a plus variant: %v\n", r.plusVariant)
	fmt.Fprintf(&b, "IRQ on Data Ready: %v\n", onOff(configReg(config).rxDR()))
	fmt.Fprintf(&b, "IRQ on Data Sent: %v\n", onOff(configReg(config).txDS()))
	fmt.Fprintf(&b, "IRQ on Data Fail: %v\n", onOff(configReg(config).txDF()))

	retry, err := r.readRegister(regSetupRetr)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "Re-transmit attempts: %d maximum\n", setupRetry(retry).count())
	fmt.Fprintf(&b, "Re-transmit delay: %d µs\n", uint16(setupRetry(retry).delay())*250+250)

	feature, err := r.readRegister(regFeature)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "Dynamic payloads: %v\n", onOff(featureReg(feature).dynamicPayloads()))
	fmt.Fprintf(&b, "Ack payloads: %v\n", onOff(featureReg(feature).ackPayloads()))
	fmt.Fprintf(&b, "Ask no ack allowed: %v\n", onOff(featureReg(feature).askNoAck()))
	fmt.Fprintf(&b, "Static payload length: %d bytes\n", r.payloadLength)

	autoAck, err := r.readRegister(regEnAA)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "Auto-ack pipes: %06b\n", autoAck&0x3F)

	enabled, err := r.readRegister(regEnRxAddr)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "Open RX pipes: %06b\n", enabled&0x3F)

	addrLen, err := r.AddressLength()
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "Address length: %d bytes\n", addrLen)

	addr := make([]byte, addrLen)
	err = r.readRegisterBuf(regTxAddr, addr)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "TX address: %s\n", strings.ToUpper(hex.EncodeToString(addr)))

	for pipe := byte(0); pipe < 2; pipe++ {
		err = r.readRegisterBuf(regRxAddrP0+pipe, addr)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "RX pipe %d address: %s\n", pipe, strings.ToUpper(hex.EncodeToString(addr)))
	}
	for pipe := byte(2); pipe < 6; pipe++ {
		prefix, err := r.readRegister(regRxAddrP0 + pipe)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "RX pipe %d address: %02X\n", pipe, prefix)
	}

	return b.String(), nil
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}
