package nes

// Mapper decodes cartridge-space addresses on both the CPU and PPU buses.
// Reads/writes report ok=false for addresses the mapper doesn't claim;
// callers (CPUBus/PPUBus) are responsible for the open-bus fallback, not
// the mapper itself.
type Mapper interface {
	ReadFromCPU(address uint16) (data byte, ok bool)
	WriteFromCPU(address uint16, data byte) (ok bool)
	ReadFromPPU(address uint16) (data byte, ok bool)
	WriteFromPPU(address uint16, data byte) (ok bool)
}

// NewMapper constructs the mapper implementation for number, or nil if the
// mapper ID is not supported.
func NewMapper(number byte, prgROM []byte, chrROM []byte, chrRAM bool) Mapper {
	switch number {
	case 0:
		return newMapper0(prgROM, chrROM, chrRAM)
	case 2:
		return newMapper2(prgROM, chrROM, chrRAM)
	default:
		return nil
	}
}
