//go:build jn5189

package jn5189

/*
#include <stdint.h>
#include <stddef.h>
#include "fsl_usart.h"
#include "fsl_i2c.h"
#include "fsl_spi.h"

static int c0_usart_init(uint32_t baud) {
	usart_config_t cfg;
	USART_GetDefaultConfig(&cfg);
	cfg.baudRate_Bps = baud;
	cfg.enableTx = true;
	cfg.enableRx = true;
	CLOCK_AttachClk(kOSC32M_to_USART_CLK);
	return USART_Init(USART0, &cfg, CLOCK_GetFreq(kCLOCK_Fro32M)) == kStatus_Success ? 0 : -1;
}

static void c0_usart_deinit(void) { USART_Deinit(USART0); }

static int c0_usart_write(const uint8_t *p, size_t n) {
	return USART_WriteBlocking(USART0, p, n) == kStatus_Success ? 0 : -1;
}

static int c0_i2c_init(uint32_t hz) {
	i2c_master_config_t cfg;
	I2C_MasterGetDefaultConfig(&cfg);
	cfg.baudRate_Bps = hz;
	CLOCK_AttachClk(kOSC32M_to_I2C_CLK);
	I2C_MasterInit(I2C0, &cfg, CLOCK_GetFreq(kCLOCK_Fro32M));
	return 0;
}

static int c0_i2c_tx(uint16_t addr, const uint8_t *w, size_t wn, uint8_t *r, size_t rn) {
	i2c_master_transfer_t x = {0};
	x.slaveAddress = addr;
	if (wn > 0) {
		x.direction = kI2C_Write;
		x.data = (void *)w;
		x.dataSize = wn;
		x.flags = rn > 0 ? kI2C_TransferNoStopFlag : kI2C_TransferDefaultFlag;
		if (I2C_MasterTransferBlocking(I2C0, &x) != kStatus_Success) return -1;
	}
	if (rn > 0) {
		x.direction = kI2C_Read;
		x.data = r;
		x.dataSize = rn;
		x.flags = wn > 0 ? kI2C_TransferRepeatedStartFlag : kI2C_TransferDefaultFlag;
		if (I2C_MasterTransferBlocking(I2C0, &x) != kStatus_Success) return -1;
	}
	return 0;
}

static int c0_spi_init(uint32_t hz) {
	spi_master_config_t cfg;
	SPI_MasterGetDefaultConfig(&cfg);
	cfg.baudRate_Bps = hz;
	CLOCK_AttachClk(kOSC32M_to_SPI_CLK);
	return SPI_MasterInit(SPI0, &cfg, CLOCK_GetFreq(kCLOCK_Fro32M)) == kStatus_Success ? 0 : -1;
}

static int c0_spi_tx(uint8_t *w, uint8_t *r, size_t n) {
	spi_transfer_t x = {0};
	x.txData = w;
	x.rxData = r;
	x.dataSize = n;
	x.configFlags = kSPI_FrameAssert;
	return SPI_MasterTransferBlocking(SPI0, &x) == kStatus_Success ? 0 : -1;
}
*/
import "C"

import (
	"errors"
	"unsafe"
)

var (
	errUSART = errors.New("usart0_io")
	errI2C   = errors.New("i2c0_nack")
	errSPI   = errors.New("spi0_io")
)

// USART0 is the debug console port.
type USART0 struct{ baud uint32 }

func NewUSART0(baud uint32) *USART0 { return &USART0{baud: baud} }

func (u *USART0) Configure() error {
	if C.c0_usart_init(C.uint32_t(u.baud)) != 0 {
		return errUSART
	}
	return nil
}

func (u *USART0) Close() { C.c0_usart_deinit() }

func (u *USART0) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if C.c0_usart_write((*C.uint8_t)(unsafe.Pointer(&p[0])), C.size_t(len(p))) != 0 {
		return 0, errUSART
	}
	return len(p), nil
}

// I2C0 is the FLEXCOMM I2C master. It satisfies drivers.I2C.
type I2C0 struct{}

func NewI2C0(hz uint32) (*I2C0, error) {
	if C.c0_i2c_init(C.uint32_t(hz)) != 0 {
		return nil, errI2C
	}
	return &I2C0{}, nil
}

func (*I2C0) Tx(addr uint16, w, r []byte) error {
	var wp, rp *C.uint8_t
	if len(w) > 0 {
		wp = (*C.uint8_t)(unsafe.Pointer(&w[0]))
	}
	if len(r) > 0 {
		rp = (*C.uint8_t)(unsafe.Pointer(&r[0]))
	}
	if C.c0_i2c_tx(C.uint16_t(addr), wp, C.size_t(len(w)), rp, C.size_t(len(r))) != 0 {
		return errI2C
	}
	return nil
}

// SPI0 is the FLEXCOMM SPI master. It satisfies drivers.SPI.
type SPI0 struct{}

func NewSPI0(hz uint32) (*SPI0, error) {
	if C.c0_spi_init(C.uint32_t(hz)) != 0 {
		return nil, errSPI
	}
	return &SPI0{}, nil
}

func (*SPI0) Tx(w, r []byte) error {
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	if n == 0 {
		return nil
	}
	// The SDK wants equal lengths; pad the short side.
	if len(w) < n {
		w = append(w[:len(w):len(w)], make([]byte, n-len(w))...)
	}
	rb := r
	if len(r) < n {
		rb = make([]byte, n)
	}
	if C.c0_spi_tx((*C.uint8_t)(unsafe.Pointer(&w[0])), (*C.uint8_t)(unsafe.Pointer(&rb[0])), C.size_t(n)) != 0 {
		return errSPI
	}
	if len(r) > 0 && len(r) < n {
		copy(r, rb)
	}
	return nil
}

func (s *SPI0) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := s.Tx([]byte{b}, r[:])
	return r[0], err
}
