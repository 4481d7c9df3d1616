//go:build !jn5189

package main

import (
	"os"

	"lowpower-go/drivers/jn5189"
	"lowpower-go/periph"
	"lowpower-go/power"
)

func newBoard() board {
	sim := jn5189.NewSim()
	con := periph.NewConsole(os.Stderr, sim, 0)
	sb := jn5189.NewSimBus()
	return board{
		device:  "host",
		hw:      sim,
		console: con,
		comm0:   []power.Peripheral{con, periph.NewI2CPort(sb, sim), periph.NewSPIPort(sb.SPI(), sim)},
	}
}
