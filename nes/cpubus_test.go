package nes

import "testing"

func newTestCPUBus() *CPUBus {
	cartridge := &Cartridge{mirror: MirrorHorizontal}
	mapper := newMapper0(make([]byte, prgROMSizeUnit), make([]byte, chrROMSizeUnit), true)
	_ = cartridge
	ppuBus := NewPPUBus(NewRAM(), cartridge, mapper)
	ppu := NewPPU(ppuBus)
	apu := NewAPU()
	controller1 := NewController()
	controller2 := NewController()
	return NewCPUBus(NewRAM(), ppu, apu, mapper, controller1, controller2)
}

func TestCPUBusWRAMMirroring(t *testing.T) {
	b := newTestCPUBus()
	b.write(0x0000, 0x7A)
	if v := b.read(0x0800); v != 0x7A {
		t.Fatalf("read(0x0800) = 0x%02x, want 0x7a (WRAM mirror)", v)
	}
}

func TestCPUBusOpenBusReadIsZero(t *testing.T) {
	b := newTestCPUBus()
	if v := b.read(0x4018); v != 0 {
		t.Fatalf("read(0x4018) = 0x%02x, want 0 (open bus)", v)
	}
}

func TestCPUBusOAMDMAIgnoredDirectly(t *testing.T) {
	b := newTestCPUBus()
	// Writing $4014 through CPUBus directly (bypassing the CPU's DMA trap)
	// must not panic and must not be misrouted anywhere else.
	b.write(0x4014, 0x02)
}

func TestCPUBusControllerStrobeReadsButtonA(t *testing.T) {
	b := newTestCPUBus()
	b.controller1.setButton(ButtonA, true)
	b.write(0x4016, 1) // strobe high: every read returns button A
	if v := b.read(0x4016); v != 1 {
		t.Fatalf("read(0x4016) while strobed = %d, want 1", v)
	}
	if v := b.read(0x4016); v != 1 {
		t.Fatalf("second read(0x4016) while strobed = %d, want 1", v)
	}
}

func TestCPUBusPRGROMRoutesThroughMapper(t *testing.T) {
	b := newTestCPUBus()
	if v := b.read(0x8000); v != 0 {
		t.Fatalf("read(0x8000) on empty PRG ROM = 0x%02x, want 0", v)
	}
}
