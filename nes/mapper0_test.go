package nes

import "testing"

func TestMapper0PRGMirroring(t *testing.T) {
	prg := make([]byte, prgROMSizeUnit) // NROM-128: one 16 KiB bank, mirrored
	prg[0] = 0x42
	prg[prgROMSizeUnit-1] = 0x99
	m := newMapper0(prg, make([]byte, chrROMSizeUnit), false)

	if v, ok := m.ReadFromCPU(0x8000); !ok || v != 0x42 {
		t.Fatalf("ReadFromCPU(0x8000) = 0x%02x, %v; want 0x42, true", v, ok)
	}
	if v, ok := m.ReadFromCPU(0xC000); !ok || v != 0x42 {
		t.Fatalf("ReadFromCPU(0xC000) = 0x%02x, %v; want 0x42, true (mirrored)", v, ok)
	}
	if v, ok := m.ReadFromCPU(0xBFFF); !ok || v != 0x99 {
		t.Fatalf("ReadFromCPU(0xBFFF) = 0x%02x, %v; want 0x99, true", v, ok)
	}
}

func TestMapper0PRGRAM(t *testing.T) {
	m := newMapper0(make([]byte, prgROMSizeUnit), make([]byte, chrROMSizeUnit), false)
	if ok := m.WriteFromCPU(0x6000, 0x7B); !ok {
		t.Fatalf("WriteFromCPU(0x6000) = false, want true")
	}
	if v, ok := m.ReadFromCPU(0x6000); !ok || v != 0x7B {
		t.Fatalf("ReadFromCPU(0x6000) = 0x%02x, %v; want 0x7b, true", v, ok)
	}
	if ok := m.WriteFromCPU(0x5FFF, 0x01); ok {
		t.Fatalf("WriteFromCPU(0x5fff) = true, want false (unmapped)")
	}
}

func TestMapper0CHRRAMWrite(t *testing.T) {
	m := newMapper0(make([]byte, prgROMSizeUnit), make([]byte, chrROMSizeUnit), true)
	if ok := m.WriteFromPPU(0x0010, 0x55); !ok {
		t.Fatalf("WriteFromPPU = false, want true with CHR RAM")
	}
	if v, ok := m.ReadFromPPU(0x0010); !ok || v != 0x55 {
		t.Fatalf("ReadFromPPU(0x0010) = 0x%02x, %v; want 0x55, true", v, ok)
	}
}

func TestMapper0CHRROMIsReadOnly(t *testing.T) {
	m := newMapper0(make([]byte, prgROMSizeUnit), make([]byte, chrROMSizeUnit), false)
	if ok := m.WriteFromPPU(0x0010, 0x55); ok {
		t.Fatalf("WriteFromPPU = true, want false without CHR RAM")
	}
}
