//go:build jn5189

package main

import (
	"lowpower-go/drivers/jn5189"
	"lowpower-go/periph"
	"lowpower-go/power"
)

const (
	consoleBaud = 115200
	i2cHz       = 400_000
	spiHz       = 4_000_000
)

func newBoard() board {
	chip := jn5189.NewChip()

	usart := jn5189.NewUSART0(consoleBaud)
	if err := usart.Configure(); err != nil {
		println("[main] usart0:", err.Error())
	}
	con := periph.NewConsole(usart, chip, 0)
	comm0 := []power.Peripheral{con}

	if i2c, err := jn5189.NewI2C0(i2cHz); err == nil {
		comm0 = append(comm0, periph.NewI2CPort(i2c, chip))
	} else {
		println("[main] i2c0:", err.Error())
	}
	if spi, err := jn5189.NewSPI0(spiHz); err == nil {
		comm0 = append(comm0, periph.NewSPIPort(spi, chip))
	} else {
		println("[main] spi0:", err.Error())
	}

	return board{device: "jn5189-dk6", hw: chip, console: con, comm0: comm0}
}
