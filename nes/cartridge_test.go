package nes

import "testing"

func buildINES(prgUnits, chrUnits int, flags6, flags7 byte, trainer bool) []byte {
	header := []byte{'N', 'E', 'S', msdosEOF, byte(prgUnits), byte(chrUnits), flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0}
	data := append([]byte{}, header...)
	if trainer {
		data = append(data, make([]byte, trainerSizeBytes)...)
	}
	data = append(data, make([]byte, prgUnits*prgROMSizeUnit)...)
	data = append(data, make([]byte, chrUnits*chrROMSizeUnit)...)
	return data
}

func TestNewCartridgeBadMagic(t *testing.T) {
	_, err := NewCartridge([]byte{'X', 'X', 'X', 'X'})
	lerr, ok := err.(*LoadError)
	if !ok || lerr.Reason != BadMagic {
		t.Fatalf("err = %v, want LoadError{Reason: BadMagic}", err)
	}
}

func TestNewCartridgeTruncated(t *testing.T) {
	data := buildINES(2, 1, 0, 0, false)
	data = data[:len(data)-10]
	_, err := NewCartridge(data)
	lerr, ok := err.(*LoadError)
	if !ok || lerr.Reason != Truncated {
		t.Fatalf("err = %v, want LoadError{Reason: Truncated}", err)
	}
}

func TestNewCartridgeTrainerSkip(t *testing.T) {
	data := buildINES(1, 1, 0x04, 0, true)
	for i := range data {
		if i >= inesHeaderSizeBytes && i < inesHeaderSizeBytes+trainerSizeBytes {
			data[i] = 0xEE // trainer bytes, should never end up in prgROM
		}
	}
	prgStart := inesHeaderSizeBytes + trainerSizeBytes
	data[prgStart] = 0x42
	c, err := NewCartridge(data)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	if c.prgROM[0] != 0x42 {
		t.Fatalf("prgROM[0] = 0x%02x, want 0x42 (trainer not skipped)", c.prgROM[0])
	}
}

func TestNewCartridgeCHRRAMFallback(t *testing.T) {
	data := buildINES(1, 0, 0, 0, false)
	c, err := NewCartridge(data)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	if !c.chrRAM {
		t.Fatalf("chrRAM = false, want true when chrUnits == 0")
	}
	if len(c.chrROM) != chrROMSizeUnit {
		t.Fatalf("len(chrROM) = %d, want %d", len(c.chrROM), chrROMSizeUnit)
	}
}

func TestNewCartridgeMapperNumber(t *testing.T) {
	// mapper 2 (UxROM): low nibble in flags6 bits 4-7, high nibble in flags7 bits 4-7.
	data := buildINES(2, 1, 0x20, 0x00, false)
	c, err := NewCartridge(data)
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	if c.mapperNumber != 2 {
		t.Fatalf("mapperNumber = %d, want 2", c.mapperNumber)
	}
}

func TestNewCartridgeMirrorMode(t *testing.T) {
	cases := []struct {
		flags6 byte
		want   MirrorMode
	}{
		{0x00, MirrorHorizontal},
		{0x01, MirrorVertical},
		{0x08, MirrorFourScreen},
		{0x09, MirrorFourScreen}, // bit 3 wins over bit 0
	}
	for _, tc := range cases {
		data := buildINES(1, 1, tc.flags6, 0, false)
		c, err := NewCartridge(data)
		if err != nil {
			t.Fatalf("NewCartridge(flags6=0x%02x): %v", tc.flags6, err)
		}
		if c.getTableMirrorMode() != tc.want {
			t.Fatalf("flags6=0x%02x: mirror = %v, want %v", tc.flags6, c.getTableMirrorMode(), tc.want)
		}
	}
}
