// Package jn5189 is the register-level view of the JN5189/K32W061 low-power
// engine: the ROM configuration bundle, its bit layout, and the handful of
// PMC/SYSCON controls touched around a power transition.
package jn5189

// CFG
const (
	CfgModeMask uint32 = 0x3

	CfgModeActive        uint32 = 0
	CfgModeDeepSleep     uint32 = 1
	CfgModePowerDown     uint32 = 2
	CfgModeDeepPowerDown uint32 = 3

	CfgXtal32MStartEna uint32 = 1 << 2
	CfgPDRunCfgDiscard uint32 = 1 << 7
)

// PMUPWDN: a set bit powers the analog block down.
const (
	PmuDCDC       uint32 = 1 << 0
	PmuBias       uint32 = 1 << 1
	PmuLDOMem     uint32 = 1 << 2
	PmuBODVBAT    uint32 = 1 << 3
	PmuFRO192M    uint32 = 1 << 4
	PmuFRO1M      uint32 = 1 << 5
	PmuGPADC      uint32 = 1 << 22
	PmuBODMem     uint32 = 1 << 23
	PmuBODCore    uint32 = 1 << 24
	PmuFRO32K     uint32 = 1 << 25
	PmuXtal32K    uint32 = 1 << 26
	PmuAnaComp    uint32 = 1 << 27
	PmuXtal32M    uint32 = 1 << 28
	PmuTempSensor uint32 = 1 << 29
)

// DIGPWDN: a set bit powers the digital domain down.
const (
	DigFlash     uint32 = 1 << 6
	DigComm0     uint32 = 1 << 7
	DigMCURet    uint32 = 1 << 8
	DigZigBLERet uint32 = 1 << 9
	DigIO        uint32 = 1 << 30
	DigNTagFD    uint32 = 1 << 31

	DigSRAM0Index        = 10
	DigSRAMAll    uint32 = 0xFFF << DigSRAM0Index
)

// Source bits the composer treats specially.
const (
	Src0System uint32 = 1 << 0
	Src0USART0 uint32 = 1 << 11
	Src0I2C0   uint32 = 1 << 13
	Src0SPI0   uint32 = 1 << 15
	Src0RTC    uint32 = 1 << 29
	Src0NFCTag uint32 = 1 << 30

	Src1WakeUpTimer0 uint32 = 1 << 16
	Src1WakeUpTimer1 uint32 = 1 << 17
	Src1BLEWakeTimer uint32 = 1 << 22
	Src1IO           uint32 = 1 << 31
)

// WAKEUPIOSRC / GPIOLATCH
const (
	IOPinCount        = 22
	IOPinMask  uint32 = 1<<IOPinCount - 1
	IONTagFD   uint32 = 1 << 22 // virtual pin for NFC field detect
)

// SLEEPPOSTPONE
const (
	PostponeForced      uint32 = 1 << 0
	PostponePeripherals uint32 = 1 << 1
)

// TIMERCFG
const (
	TimerEnable       uint32 = 1 << 0
	TimerSelShift            = 1
	TimerSelMask      uint32 = 0x7 << TimerSelShift
	TimerOsc32KXtal   uint32 = 1 << 4
	Timer2ndEnable    uint32 = 1 << 5
	Timer2ndSelShift         = 6
	Timer2ndSelMask   uint32 = 0x7 << Timer2ndSelShift
	TimerBLERadioMask uint32 = 0x3FF
	TimerBLEOscShift         = 10
	TimerBLEOscMask   uint32 = 0x7FF << TimerBLEOscShift
)

// TimerSel picks the counter backing a timed wakeup.
type TimerSel uint8

const (
	TimerWakeUp0 TimerSel = 0
	TimerWakeUp1 TimerSel = 1
	TimerBLE     TimerSel = 2
	TimerRTC1kHz TimerSel = 3
	TimerRTC1Hz  TimerSel = 4
)

// Reset cause latch as reported by ResetCause(). The target backend maps
// PMC RESETCAUSE onto these bits so callers never see the raw layout.
const (
	ResetPOR       uint32 = 1 << 0
	ResetPad       uint32 = 1 << 1
	ResetBOD       uint32 = 1 << 2
	ResetSystem    uint32 = 1 << 3
	ResetWDT       uint32 = 1 << 4
	ResetWakeIO    uint32 = 1 << 5 // wake from deep power down
	ResetWakePwdn  uint32 = 1 << 6 // wake from power down
	ResetSoftware  uint32 = 1 << 7
	ResetKnownMask uint32 = 0xFF
)

// Factory calibration word. Bits [0:5] active trim, [5:10] power-down trim,
// both sign-magnitude. Bit 31 set selects the 0.9V memory retention preset.
const (
	CalibrationAddr      uintptr = 0x9FCD4
	CalibMemRetention0V9 uint32  = 1 << 31
)

// Peripheral clocks gated with the COMM0 domain.
type Clock uint8

const (
	ClockUSART0 Clock = iota
	ClockI2C0
	ClockSPI0
)

func (c Clock) String() string {
	switch c {
	case ClockUSART0:
		return "usart0"
	case ClockI2C0:
		return "i2c0"
	case ClockSPI0:
		return "spi0"
	}
	return "clock?"
}
