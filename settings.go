package nrf24

import "time"

// Hot knobs that tend to change at runtime. Setters write straight to the
// chip; getters read back from it, so they also serve as liveness checks.

// txDelay is how long the radio needs to wind down active RX before TX mode
// is usable, per data rate.
func txDelay(rate DataRate) time.Duration {
	switch rate {
	case Rate2Mbps:
		return 240 * time.Microsecond
	case Rate250Kbps:
		return 505 * time.Microsecond
	default:
		return 280 * time.Microsecond
	}
}

// SetChannel tunes the radio to 2400 + channel MHz, clamping to channel 125.
func (r *RF24) SetChannel(channel uint8) error {
	return r.writeRegister(regRFChannel, min(channel, 125))
}

// Channel reads back the currently tuned RF channel.
func (r *RF24) Channel() (uint8, error) {
	return r.readRegister(regRFChannel)
}

// SetDataRate selects the over-the-air data rate. Both sides of a link must
// agree on it. 250Kbps is not available on non-plus variants.
func (r *RF24) SetDataRate(rate DataRate) (err error) {
	defer deferWrap(&err)

	rf, err := r.readRegister(regRFSetup)
	if err != nil {
		return err
	}
	r.txDelay = txDelay(rate)
	return r.writeRegister(regRFSetup, rf&^dataRateMask|byte(rate))
}

// DataRate reads back the configured data rate.
func (r *RF24) DataRate() (_ DataRate, err error) {
	defer deferWrap(&err)

	rf, err := r.readRegister(regRFSetup)
	if err != nil {
		return 0, err
	}
	return dataRateFromBits(rf), nil
}

// SetCrcLength configures the over-the-air checksum. Note the hardware
// forces 16-bit CRC whenever auto-ack is enabled on any pipe.
func (r *RF24) SetCrcLength(length CrcLength) error {
	r.config = r.config.withCrcLength(length)
	return r.writeRegister(regConfig, byte(r.config))
}

// CrcLength reads back the configured checksum length.
func (r *RF24) CrcLength() (_ CrcLength, err error) {
	defer deferWrap(&err)

	config, err := r.readRegister(regConfig)
	if err != nil {
		return 0, err
	}
	return configReg(config).crcLength(), nil
}

// SetPaLevel sets the Power Amplifier output level.
func (r *RF24) SetPaLevel(level PaLevel) (err error) {
	defer deferWrap(&err)

	rf, err := r.readRegister(regRFSetup)
	if err != nil {
		return err
	}
	return r.writeRegister(regRFSetup, rf&^paLevelMask|byte(level))
}

// PaLevel reads back the configured Power Amplifier level.
func (r *RF24) PaLevel() (_ PaLevel, err error) {
	defer deferWrap(&err)

	rf, err := r.readRegister(regRFSetup)
	if err != nil {
		return 0, err
	}
	return paLevelFromBits(rf), nil
}

// SetLNA toggles the Low Noise Amplifier on the RX path.
func (r *RF24) SetLNA(enable bool) (err error) {
	defer deferWrap(&err)

	rf, err := r.readRegister(regRFSetup)
	if err != nil {
		return err
	}
	return r.writeRegister(regRFSetup, byte(rfSetup(rf).withLNA(enable)))
}

// SetAddressLength sets the address width in bytes, clamped to [2, 5].
// Addresses passed to AsTX and the config pipes are truncated to this width
// on the wire.
func (r *RF24) SetAddressLength(length uint8) error {
	r.addressLength = min(max(length, 2), 5)
	return r.writeRegister(regSetupAW, r.addressLength-2)
}

// AddressLength reads back the configured address width in bytes.
func (r *RF24) AddressLength() (_ uint8, err error) {
	defer deferWrap(&err)

	aw, err := r.readRegister(regSetupAW)
	if err != nil {
		return 0, err
	}
	return aw + 2, nil
}

// SetPayloadLength sets the static payload length on all pipes, clamped to
// the 32-byte hardware maximum. Moot while dynamic payloads are enabled.
func (r *RF24) SetPayloadLength(length uint8) (err error) {
	defer deferWrap(&err)

	r.payloadLength = min(max(length, 1), maxPayloadLength)
	for pipe := byte(0); pipe < 6; pipe++ {
		err = r.writeRegister(regRxPwP0+pipe, r.payloadLength)
		if err != nil {
			return err
		}
	}
	return nil
}

// PayloadLength returns the cached static payload length.
func (r *RF24) PayloadLength() uint8 {
	return r.payloadLength
}

// SetDynamicPayloads toggles in-band payload lengths on all pipes. Both
// sides of a link must agree. Disabling also disables ack payloads.
func (r *RF24) SetDynamicPayloads(enable bool) (err error) {
	defer deferWrap(&err)

	r.feature = r.feature.withDynamicPayloads(enable)
	err = r.writeRegister(regFeature, byte(r.feature)&featureRegMask)
	if err != nil {
		return err
	}
	var dynPd byte
	if enable {
		dynPd = 0x3F
	}
	return r.writeRegister(regDynPd, dynPd)
}

// DynamicPayloads returns the cached dynamic payload setting.
func (r *RF24) DynamicPayloads() bool {
	return r.feature.dynamicPayloads()
}
