//go:build jn5189

package jn5189

/*
#include <stdint.h>
#include "fsl_device_registers.h"
#include "fsl_clock.h"
#include "rom_lowpower.h"

static uint32_t lp_reset_cause(void) {
	uint32_t r = PMC->RESETCAUSE;
	uint32_t out = 0;
	if (r & PMC_RESETCAUSE_POR_MASK)            out |= 1u << 0;
	if (r & PMC_RESETCAUSE_PADRESET_MASK)       out |= 1u << 1;
	if (r & PMC_RESETCAUSE_BODRESET_MASK)       out |= 1u << 2;
	if (r & PMC_RESETCAUSE_SYSTEMRESET_MASK)    out |= 1u << 3;
	if (r & PMC_RESETCAUSE_WDTRESET_MASK)       out |= 1u << 4;
	if (r & PMC_RESETCAUSE_WAKEUPIORESET_MASK)  out |= 1u << 5;
	if (r & PMC_RESETCAUSE_WAKEUPPWDNRESET_MASK) out |= 1u << 6;
	if (r & PMC_RESETCAUSE_SWRRESET_MASK)       out |= 1u << 7;
	return out;
}

static void lp_reset_cause_clear(void) { PMC->RESETCAUSE = 0xFFFFFFFFu; }

static uint32_t lp_io_clamp(void) {
	uint32_t clamp = 0;
	for (int i = 0; i < 22; i++) {
		if (i == 10 || i == 11) {
			clamp |= ((IOCON->PIO[0][i] & IOCON_IO_CLAMPING_COMBO_MFIO_I2C) >> 12) << i;
		} else {
			clamp |= ((IOCON->PIO[0][i] & IOCON_IO_CLAMPING_NORMAL_MFIO) >> 11) << i;
		}
	}
	return clamp;
}

static uint32_t lp_dcbus_saved;
static uint32_t lp_ctrlnorst_saved;

static void lp_dcbus_disable(void) {
	lp_dcbus_saved = ASYNC_SYSCON->DCBUSCTRL;
	ASYNC_SYSCON->DCBUSCTRL =
		(lp_dcbus_saved & ~ASYNC_SYSCON_DCBUSCTRL_ADDR_MASK) | (1 << ASYNC_SYSCON_DCBUSCTRL_ADDR_SHIFT);
}

static void lp_dcbus_restore(void) { ASYNC_SYSCON->DCBUSCTRL = lp_dcbus_saved; }

static void lp_fast_ldo(void) {
	lp_ctrlnorst_saved = PMC->CTRLNORST;
	PMC->CTRLNORST = PMC_CTRLNORST_FASTLDOENABLE_MASK;
}

static void lp_fast_ldo_restore(void) { PMC->CTRLNORST = lp_ctrlnorst_saved; }

static uint32_t lp_revision(void) { return Chip_GetVersion(); }

static void lp_bodvbat(uint32_t enable, uint32_t lvl, uint32_t hyst, uint32_t irq, uint32_t high) {
	CLOCK_EnableClock(kCLOCK_AnaInt);
	if (enable) {
		uint32_t v = PMC->BODVBAT & ~(PMC_BODVBAT_TRIGLVL_MASK | PMC_BODVBAT_HYST_MASK);
		PMC->BODVBAT = v | PMC_BODVBAT_TRIGLVL(lvl) | PMC_BODVBAT_HYST(hyst);
	}
	uint32_t mask = high ? SYSCON_ANACTRL_INTENSET_BODVBATHIGH_MASK : SYSCON_ANACTRL_INTENSET_BODVBAT_MASK;
	SYSCON->ANACTRL_INTENCLR = mask;
	SYSCON->ANACTRL_STAT = mask;
	if (enable) {
		if (irq) {
			SYSCON->ANACTRL_INTENSET = mask;
			NVIC_EnableIRQ(WDT_BOD_IRQn);
		} else {
			NVIC_DisableIRQ(WDT_BOD_IRQn);
		}
	}
	CLOCK_DisableClock(kCLOCK_AnaInt);
}

static void lp_clock(uint32_t which, uint32_t on) {
	switch (which) {
	case 0:
		if (on) { CLOCK_EnableClock(kCLOCK_Usart0); } else { CLOCK_AttachClk(kNONE_to_USART_CLK); CLOCK_AttachClk(kNONE_to_FRG_CLK); CLOCK_DisableClock(kCLOCK_Usart0); }
		break;
	case 1:
		if (on) { CLOCK_EnableClock(kCLOCK_I2c0); } else { CLOCK_AttachClk(kNONE_to_I2C_CLK); CLOCK_DisableClock(kCLOCK_I2c0); }
		break;
	case 2:
		if (on) { CLOCK_EnableClock(kCLOCK_Spi0); } else { CLOCK_AttachClk(kNONE_to_SPI_CLK); CLOCK_DisableClock(kCLOCK_Spi0); }
		break;
	}
}
*/
import "C"

import (
	"runtime/volatile"
	"unsafe"
)

// Chip drives the real part through the ROM low-power API.
type Chip struct{}

func NewChip() *Chip { return &Chip{} }

func (*Chip) Calibration() uint32 {
	return (*volatile.Register32)(unsafe.Pointer(CalibrationAddr)).Get()
}

func (*Chip) Revision() Revision {
	if C.lp_revision() >= 2 {
		return RevES2
	}
	return RevES1
}

func (*Chip) IOClamp() uint32 { return uint32(C.lp_io_clamp()) & IOPinMask }

func (*Chip) ActiveVoltages() LDOVoltages {
	var v C.LPC_LOWPOWER_LDOVOLTAGE_T
	C.Chip_LOWPOWER_GetSystemVoltages(&v)
	return LDOVoltages{
		PMU:            uint8(v.LDOPMU),
		PMUBoost:       uint8(v.LDOPMUBOOST),
		Mem:            uint8(v.LDOMEM),
		MemBoost:       uint8(v.LDOMEMBOOST),
		Core:           uint8(v.LDOCORE),
		FlashNV:        uint8(v.LDOFLASHNV),
		FlashCore:      uint8(v.LDOFLASHCORE),
		ADC:            uint8(v.LDOADC),
		PMUBoostEnable: v.LDOPMUBOOST_ENABLE != 0,
	}
}

func (*Chip) SetActiveVoltages(l LDOVoltages) {
	v := C.LPC_LOWPOWER_LDOVOLTAGE_T{
		LDOPMU:       C.uint8_t(l.PMU),
		LDOPMUBOOST:  C.uint8_t(l.PMUBoost),
		LDOMEM:       C.uint8_t(l.Mem),
		LDOMEMBOOST:  C.uint8_t(l.MemBoost),
		LDOCORE:      C.uint8_t(l.Core),
		LDOFLASHNV:   C.uint8_t(l.FlashNV),
		LDOFLASHCORE: C.uint8_t(l.FlashCore),
		LDOADC:       C.uint8_t(l.ADC),
	}
	if l.PMUBoostEnable {
		v.LDOPMUBOOST_ENABLE = 1
	}
	C.Chip_LOWPOWER_SetSystemVoltages(&v)
}

func (*Chip) DisableDCBus()   { C.lp_dcbus_disable() }
func (*Chip) RestoreDCBus()   { C.lp_dcbus_restore() }
func (*Chip) EnableFastLDO()  { C.lp_fast_ldo() }
func (*Chip) RestoreFastLDO() { C.lp_fast_ldo_restore() }

func (*Chip) SetBODVBAT(b BODVBAT) {
	C.lp_bodvbat(cbool(b.Enable), C.uint32_t(b.Level), C.uint32_t(b.Hyst), cbool(b.Interrupt), cbool(b.High))
}

func (*Chip) SetPeripheralClock(c Clock, on bool) { C.lp_clock(C.uint32_t(c), cbool(on)) }

func (*Chip) ResetCause() uint32 { return uint32(C.lp_reset_cause()) }
func (*Chip) ClearResetCause()   { C.lp_reset_cause_clear() }
func (*Chip) SoftwareReset()     { C.Chip_LOWPOWER_ChipSoftwareReset() }

// Enter hands b to the ROM. Deep sleep returns on wake. For power down and
// deep power down a return means the engine aborted entry.
func (*Chip) Enter(b *Bundle) error {
	C.Chip_LOWPOWER_SetLowPowerMode((*C.LPC_LOWPOWER_T)(unsafe.Pointer(b)))
	switch b.Mode() {
	case CfgModePowerDown, CfgModeDeepPowerDown:
		return ErrAborted
	}
	return nil
}

func cbool(b bool) C.uint32_t {
	if b {
		return 1
	}
	return 0
}
