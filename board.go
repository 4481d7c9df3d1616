package main

import (
	"lowpower-go/periph"
	"lowpower-go/power"
)

type board struct {
	device  string
	hw      power.Hardware
	console *periph.Console
	comm0   []power.Peripheral
}
