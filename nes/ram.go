package nes

// RAM backs both the CPU's 2KiB work RAM and the PPU's 2KiB nametable RAM.
type RAM struct {
	data [2048]byte
}

// NewRAM creates a RAM for either the CPU or the PPU.
func NewRAM() *RAM {
	return &RAM{}
}

func (r *RAM) read(address uint16) byte {
	return r.data[address]
}

func (r *RAM) write(address uint16, x byte) {
	r.data[address] = x
}
