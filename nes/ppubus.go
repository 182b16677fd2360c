package nes

import "fmt"

type PPUBus struct {
	vram      *RAM
	cartridge *Cartridge
	mapper    Mapper
}

// NewPPUBus creates a new bus for the PPU.
func NewPPUBus(vram *RAM, cartridge *Cartridge, mapper Mapper) *PPUBus {
	return &PPUBus{vram, cartridge, mapper}
}

// mirrorBanks gives, for each of the four logical nametables, which 1KiB
// half of nametable RAM backs it; indexed by MirrorHorizontal/MirrorVertical.
// Four-screen mirroring would need a second 2KiB bank the cartridge itself
// supplies; none of mapper 0 or mapper 2 wires one up, so it falls back to
// horizontal mirroring here.
var mirrorBanks = [][4]uint16{
	{0, 0, 1, 1}, // horizontal: $2000=$2400, $2800=$2C00
	{0, 1, 0, 1}, // vertical: $2000=$2800, $2400=$2C00
}

func (b *PPUBus) mirrorAddress(address uint16) uint16 {
	mode := b.cartridge.getTableMirrorMode()
	if mode == MirrorFourScreen {
		mode = MirrorHorizontal
	}
	table := ((address - 0x2000) / 0x0400) % 4
	return mirrorBanks[mode][table]*0x0400 + address&0x03FF
}

// read reads data from the PPU's address space.
// Address        Size    Description
// -------------------------------------
// $0000-$0FFF    $1000   Pattern table 0
// $1000-$1FFF    $1000   Pattern table 1
// $2000-$23FF    $0400   Nametable 0
// $2400-$27FF    $0400   Nametable 1
// $2800-$2BFF    $0400   Nametable 2
// $2C00-$2FFF    $0400   Nametable 3
// $3000-$3EFF    $0F00   Mirrors of $2000-$2EFF
// $3F00-$3F1F    $0020   Palette RAM indexes
// $3F20-$3FFF    $00E0   Mirrors of $3F00-$3F1F
// Palette RAM is held by the PPU itself (PPU.paletteRAM), not by this bus:
// read and write return an error for addresses from $3F00 up.
// Reference: https://www.nesdev.org/wiki/PPU_memory_map
func (b *PPUBus) read(address uint16) (byte, error) {
	switch {
	case address < 0x2000:
		v, ok := b.mapper.ReadFromPPU(address)
		if !ok {
			return 0, nil
		}
		return v, nil
	case address < 0x3000:
		return b.vram.read(b.mirrorAddress(address) % 2048), nil
	case address < 0x3F00:
		return b.vram.read((b.mirrorAddress(address) - 0x1000) % 2048), nil
	default:
		return 0, fmt.Errorf("ppu bus read out of range: 0x%04x", address)
	}
}

// write writes data to the PPU's address space.
// Reference: https://www.nesdev.org/wiki/PPU_memory_map
func (b *PPUBus) write(address uint16, data byte) error {
	switch {
	case address < 0x2000:
		b.mapper.WriteFromPPU(address, data)
		return nil
	case address < 0x3000:
		b.vram.write(b.mirrorAddress(address)%2048, data)
	case address < 0x3F00:
		b.vram.write((b.mirrorAddress(address)-0x1000)%2048, data)
	default:
		return fmt.Errorf("ppu bus write out of range: address=0x%04x, data=0x%02x", address, data)
	}
	return nil
}
