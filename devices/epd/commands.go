package epd

import "fmt"

// command is an SSD1680 controller command byte.
type command byte

const (
	driverOutputControl   command = 0x01
	deepSleepMode         command = 0x10
	dataEntryMode         command = 0x11
	swReset               command = 0x12
	tempSensorControl     command = 0x18
	masterActivation      command = 0x20
	displayUpdateControl1 command = 0x21
	displayUpdateControl2 command = 0x22
	writeRAMBW            command = 0x24
	writeRAMRed           command = 0x26
	borderWaveformControl command = 0x3C
	setRAMXStartEnd       command = 0x44
	setRAMYStartEnd       command = 0x45
	setRAMXAddressCounter command = 0x4E
	setRAMYAddressCounter command = 0x4F
)

var commandNames = map[command]string{
	driverOutputControl:   "driverOutputControl",
	deepSleepMode:         "deepSleepMode",
	dataEntryMode:         "dataEntryMode",
	swReset:               "swReset",
	tempSensorControl:     "tempSensorControl",
	masterActivation:      "masterActivation",
	displayUpdateControl1: "displayUpdateControl1",
	displayUpdateControl2: "displayUpdateControl2",
	writeRAMBW:            "writeRAMBW",
	writeRAMRed:           "writeRAMRed",
	borderWaveformControl: "borderWaveformControl",
	setRAMXStartEnd:       "setRAMXStartEnd",
	setRAMYStartEnd:       "setRAMYStartEnd",
	setRAMXAddressCounter: "setRAMXAddressCounter",
	setRAMYAddressCounter: "setRAMYAddressCounter",
}

func (c command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("command(%#02x)", byte(c))
}

// Display update sequences for displayUpdateControl2.
const (
	// Clock, analog, temperature, LUT load, full waveform, power off.
	updateFull byte = 0xF7
	// As updateFull using the partial waveform.
	updatePartial byte = 0xFF
)
