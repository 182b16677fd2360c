package nes

import "github.com/golang/glog"

// CPUBus decodes the CPU's 16-bit address space.
// 0x0000 - 0x07FF  WRAM
// 0x0800 - 0x1FFF  WRAM mirrors
// 0x2000 - 0x2007  PPU registers
// 0x2008 - 0x3FFF  PPU register mirrors
// 0x4000 - 0x4013  APU registers
// 0x4014           OAMDMA (trapped by CPU.write, never reaches here)
// 0x4015           APU status
// 0x4016 - 0x4017  Controller ports
// 0x4018 - 0x401F  APU/IO test registers, unimplemented
// 0x4020 - 0x5FFF  Expansion / unmapped on mapper 0 and 2
// 0x6000 - 0x7FFF  Cartridge PRG RAM
// 0x8000 - 0xFFFF  Cartridge PRG ROM
type CPUBus struct {
	wram         *RAM
	ppu          *PPU
	apu          *APU
	mapper       Mapper
	controller1  *Controller
	controller2  *Controller
}

func NewCPUBus(wram *RAM, ppu *PPU, apu *APU, mapper Mapper, controller1, controller2 *Controller) *CPUBus {
	return &CPUBus{wram, ppu, apu, mapper, controller1, controller2}
}

// writeOAMDMA writes OAMDATA to the PPU; called by CPU.write, which already
// performed the 256-byte copy from CPU memory.
func (b *CPUBus) writeOAMDMA(data [256]byte) {
	b.ppu.primaryOAM = data
}

func (b *CPUBus) readPPURegister(address uint16) byte {
	switch address {
	case 0x2002:
		return b.ppu.readPPUSTATUS()
	case 0x2004:
		return b.ppu.readOAMDATA()
	case 0x2007:
		v, err := b.ppu.readPPUDATA()
		if err != nil {
			glog.V(1).Infof("ppu data read: %v", err)
			return 0
		}
		return v
	default:
		// Write-only registers read back as open bus.
		return 0
	}
}

// read reads a byte. Addresses the bus doesn't decode return 0 (open bus)
// rather than aborting the emulator.
func (b *CPUBus) read(address uint16) byte {
	switch {
	case address < 0x2000:
		return b.wram.read(address % 0x0800)
	case address < 0x4000:
		return b.readPPURegister(0x2000 + (address-0x2000)%8)
	case address == 0x4015:
		return b.apu.readStatus()
	case address == 0x4016:
		return b.controller1.read()
	case address == 0x4017:
		return b.controller2.read()
	case address < 0x4020:
		glog.V(1).Infof("unmapped CPU bus read: address=0x%04x", address)
		return 0
	default:
		v, ok := b.mapper.ReadFromCPU(address)
		if !ok {
			glog.V(1).Infof("open bus CPU read: address=0x%04x", address)
			return 0
		}
		return v
	}
}

// read16 reads 2 bytes, little-endian.
func (b *CPUBus) read16(address uint16) uint16 {
	l := uint16(b.read(address))
	h := uint16(b.read(address+1)) << 8
	return h | l
}

func (b *CPUBus) writePPURegister(address uint16, data byte) {
	switch address {
	case 0x2000:
		b.ppu.writePPUCTRL(data)
	case 0x2001:
		b.ppu.writePPUMASK(data)
	case 0x2003:
		b.ppu.writeOAMADDR(data)
	case 0x2004:
		b.ppu.writeOAMDATA(data)
	case 0x2005:
		b.ppu.writePPUSCROLL(data)
	case 0x2006:
		b.ppu.writePPUADDR(data)
	case 0x2007:
		if err := b.ppu.writePPUDATA(data); err != nil {
			glog.V(1).Infof("ppu data write: %v", err)
		}
	}
}

// write writes a byte. Addresses the bus doesn't decode are silently
// dropped (open bus) rather than aborting the emulator.
func (b *CPUBus) write(address uint16, data byte) {
	switch {
	case address < 0x2000:
		b.wram.write(address%0x0800, data)
	case address < 0x4000:
		b.writePPURegister(0x2000+(address-0x2000)%8, data)
	case address == 0x4014:
		// OAMDMA is trapped and handled entirely by CPU.write.
		glog.V(1).Infof("OAMDMA reached CPUBus.write directly, ignoring")
	case address <= 0x4013:
		b.apu.writeRegister(address, data)
	case address == 0x4015:
		b.apu.writeRegister(address, data)
	case address == 0x4016:
		// Writing $4016 strobes both controller shift registers.
		b.controller1.write(data)
		b.controller2.write(data)
	case address == 0x4017:
		// $4017 also configures the APU frame counter on real hardware;
		// the reduced APU here doesn't model frame-counter mode switching.
	case address < 0x4020:
		glog.V(1).Infof("unmapped CPU bus write: address=0x%04x, data=0x%02x", address, data)
	default:
		if !b.mapper.WriteFromCPU(address, data) {
			glog.V(1).Infof("open bus CPU write: address=0x%04x, data=0x%02x", address, data)
		}
	}
}
