package nes

// mapper2 implements UxROM: a 16 KiB switchable PRG bank at $8000-$BFFF and
// a 16 KiB PRG bank fixed to the cartridge's last bank at $C000-$FFFF.
// https://www.nesdev.org/wiki/UxROM
type mapper2 struct {
	banks       int
	currentBank int
	prgROM      []byte
	chrROM      []byte
	chrRAM      bool
}

func newMapper2(prgROM, chrROM []byte, chrRAM bool) *mapper2 {
	banks := len(prgROM) / prgROMSizeUnit
	if chrRAM {
		chrROM = make([]byte, chrROMSizeUnit)
	}
	return &mapper2{banks: banks, prgROM: prgROM, chrROM: chrROM, chrRAM: chrRAM}
}

func (m *mapper2) ReadFromCPU(address uint16) (byte, bool) {
	switch {
	case address >= 0xC000:
		// fixed to the last bank
		i := (m.banks-1)*prgROMSizeUnit + int(address-0xC000)
		return m.prgROM[i], true
	case address >= 0x8000:
		i := m.currentBank*prgROMSizeUnit + int(address-0x8000)
		return m.prgROM[i], true
	default:
		return 0, false
	}
}

func (m *mapper2) WriteFromCPU(address uint16, data byte) bool {
	if address < 0x8000 {
		return false
	}
	// Bank select is bus-conflict prone on real UxROM boards; this model
	// just takes the written value directly, as most ROMs expect.
	m.currentBank = int(data) % m.banks
	return true
}

func (m *mapper2) ReadFromPPU(address uint16) (byte, bool) {
	if int(address) >= len(m.chrROM) {
		return 0, false
	}
	return m.chrROM[address], true
}

func (m *mapper2) WriteFromPPU(address uint16, data byte) bool {
	if !m.chrRAM || int(address) >= len(m.chrROM) {
		return false
	}
	m.chrROM[address] = data
	return true
}
