package nes

// mapper0 implements NROM. https://www.nesdev.org/wiki/NROM
type mapper0 struct {
	prgROM []byte
	chrROM []byte
	chrRAM bool
	prgRAM [0x2000]byte
}

func newMapper0(prgROM, chrROM []byte, chrRAM bool) *mapper0 {
	return &mapper0{prgROM: prgROM, chrROM: chrROM, chrRAM: chrRAM}
}

func (m *mapper0) ReadFromCPU(address uint16) (byte, bool) {
	switch {
	case address >= 0x8000:
		// CPU $8000-$FFFF: 32 KiB of PRG ROM, or the 16 KiB image mirrored
		// twice for NROM-128 boards.
		n := len(m.prgROM)
		if n == 0 {
			return 0, false
		}
		return m.prgROM[int(address-0x8000)%n], true
	case address >= 0x6000:
		// CPU $6000-$7FFF: cartridge PRG RAM (Family Basic and friends).
		return m.prgRAM[address-0x6000], true
	default:
		return 0, false
	}
}

func (m *mapper0) WriteFromCPU(address uint16, data byte) bool {
	if address >= 0x6000 && address < 0x8000 {
		m.prgRAM[address-0x6000] = data
		return true
	}
	return false
}

func (m *mapper0) ReadFromPPU(address uint16) (byte, bool) {
	if int(address) >= len(m.chrROM) {
		return 0, false
	}
	return m.chrROM[address], true
}

func (m *mapper0) WriteFromPPU(address uint16, data byte) bool {
	if !m.chrRAM || int(address) >= len(m.chrROM) {
		return false
	}
	m.chrROM[address] = data
	return true
}
