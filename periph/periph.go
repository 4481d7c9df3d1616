// Package periph wraps the COMM0 peripherals (USART0 console, I2C0, SPI0)
// so the power controller can gate their clocks around power down.
package periph

import "lowpower-go/drivers/jn5189"

// ClockGate switches a peripheral clock.
type ClockGate interface {
	SetPeripheralClock(c jn5189.Clock, on bool)
}
