package nes

import (
	"fmt"
	"image"
	"image/color"
)

// NES PPU generates 256x240 pixels.
const (
	width  = 256
	height = 240
)

// Palette colors borrowed from "RGB".
// Reference: https://emulation.gametechwiki.com/index.php/Famicom_color_palette
var colors = [64]color.RGBA{
	{0x6D, 0x6D, 0x6D, 255}, {0x00, 0x24, 0x92, 255}, {0x00, 0x00, 0xDB, 255}, {0x6D, 0x49, 0xDB, 255},
	{0x92, 0x00, 0x6D, 255}, {0xB6, 0x00, 0x6D, 255}, {0xB6, 0x24, 0x00, 255}, {0x92, 0x49, 0x00, 255},
	{0x6D, 0x49, 0x00, 255}, {0x24, 0x49, 0x00, 255}, {0x00, 0x6D, 0x24, 255}, {0x00, 0x92, 0x00, 255},
	{0x00, 0x49, 0x49, 255}, {0x00, 0x00, 0x00, 255}, {0x00, 0x00, 0x00, 255}, {0x00, 0x00, 0x00, 255},
	{0xB6, 0xB6, 0xB6, 255}, {0x00, 0x6D, 0xDB, 255}, {0x00, 0x49, 0xFF, 255}, {0x92, 0x00, 0xFF, 255},
	{0xB6, 0x00, 0xFF, 255}, {0xFF, 0x00, 0x92, 255}, {0xFF, 0x00, 0x00, 255}, {0xDB, 0x6D, 0x00, 255},
	{0x92, 0x6D, 0x00, 255}, {0x24, 0x92, 0x00, 255}, {0x00, 0x92, 0x00, 255}, {0x00, 0xB6, 0x6D, 255},
	{0x00, 0x92, 0x92, 255}, {0x24, 0x24, 0x24, 255}, {0x00, 0x00, 0x00, 255}, {0x00, 0x00, 0x00, 255},
	{0xFF, 0xFF, 0xFF, 255}, {0x6D, 0xB6, 0xFF, 255}, {0x92, 0x92, 0xFF, 255}, {0xDB, 0x6D, 0xFF, 255},
	{0xFF, 0x00, 0xFF, 255}, {0xFF, 0x6D, 0xFF, 255}, {0xFF, 0x92, 0x00, 255}, {0xFF, 0xB6, 0x00, 255},
	{0xDB, 0xDB, 0x00, 255}, {0x6D, 0xDB, 0x00, 255}, {0x00, 0xFF, 0x00, 255}, {0x49, 0xFF, 0xDB, 255},
	{0x00, 0xFF, 0xFF, 255}, {0x49, 0x49, 0x49, 255}, {0x00, 0x00, 0x00, 255}, {0x00, 0x00, 0x00, 255},
	{0xFF, 0xFF, 0xFF, 255}, {0xB6, 0xDB, 0xFF, 255}, {0xDB, 0xB6, 0xFF, 255}, {0xFF, 0xB6, 0xFF, 255},
	{0xFF, 0x92, 0xFF, 255}, {0xFF, 0xB6, 0xB6, 255}, {0xFF, 0xDB, 0x92, 255}, {0xFF, 0xFF, 0x49, 255},
	{0xFF, 0xFF, 0x6D, 255}, {0xB6, 0xFF, 0x49, 255}, {0x92, 0xFF, 0x6D, 255}, {0x49, 0xFF, 0xDB, 255},
	{0x92, 0xDB, 0xFF, 255}, {0x92, 0x92, 0x92, 255}, {0x00, 0x00, 0x00, 255}, {0x00, 0x00, 0x00, 255},
}

// sprite holds one entry of secondary OAM, evaluated once per scanline.
type sprite struct {
	index int
	y     int

	// 76543210
	// ||||||||
	// |||||||+- Bank ($0000 or $1000) of tiles
	// +++++++-- Tile number of top of sprite (0 to 254; bottom half gets the next tile)
	tile byte

	// This attribute is a separate concept from the background attribute tables.
	// 76543210
	// ||||||||
	// ||||||++- Palette (4 to 7) of sprite
	// |||+++--- Unimplemented (read 0)
	// ||+------ Priority (0: in front of background; 1: behind background)
	// |+------- Flip sprite horizontally
	// +-------- Flip sprite vertically
	attribute byte
	x         int
}

func (s *sprite) horizontalFlip() bool { return s.attribute>>6&1 == 1 }

func (s *sprite) verticalFlip() bool { return s.attribute>>7&1 == 1 }

// PPU has an internal palette RAM.
type paletteRAM struct {
	ram [32]byte
}

func (r *paletteRAM) read(address uint16) byte {
	mirrored := (address-0x3F00)%0x20 + 0x3F00
	switch address {
	case 0x3F10, 0x3F14, 0x3F18, 0x3F1C:
		mirrored = address - 0x10
	case 0x3F04, 0x3F08, 0x3F0C:
		mirrored = 0x3F00
	}
	mirrored -= 0x3F00
	return r.ram[mirrored]
}

func (r *paletteRAM) write(address uint16, data byte) {
	mirrored := (address-0x3F00)%0x20 + 0x3F00
	switch address {
	case 0x3F10, 0x3F14, 0x3F18, 0x3F1C:
		mirrored = address - 0x10
	}
	mirrored -= 0x3F00
	r.ram[mirrored] = data
}

// PPU stands for Picture Processing Unit, renders 256x240 pixels for a screen.
// The PPU runs 3x the CPU clock; a frame takes 341x262=89342 dots.
// This implementation targets NTSC timing only.
//
// References:
//
//	https://www.nesdev.org/wiki/PPU
//	https://www.nesdev.org/wiki/PPU_scrolling
//	https://www.nesdev.org/wiki/PPU_sprite_evaluation
type PPU struct {
	bus *PPUBus

	picture *image.RGBA

	// oam
	oamAddress   byte
	primaryOAM   [256]byte
	secondaryOAM [8]sprite
	secondaryNum int
	spriteZeroIn bool // whether secondaryOAM[0] for this line actually is OAM sprite 0

	// Per-sprite shift registers, loaded once per scanline from
	// secondaryOAM right after evaluateSprite runs, then sampled pixel by
	// pixel while the current x lies within 8 pixels right of spriteX.
	spritePatternLo [8]byte
	spritePatternHi [8]byte
	spriteX         [8]byte
	spriteAttr      [8]byte
	spriteIndexes   [8]int

	spriteOverflow bool
	spriteZeroHit  bool

	// Current/temporary VRAM address (both 15 bits), PPUADDR $2006/PPUSCROLL $2005.
	// yyy NN YYYYY XXXXX
	v uint16
	t uint16
	x byte // fine x scroll (3 bits)
	w bool // shared write toggle

	buffer byte // PPUDATA ($2007) read buffer

	// NMI edge detection. https://www.nesdev.org/wiki/NMI
	nmiOccurred bool
	oldNMI      bool
	nmiOutput   bool

	// $2000
	nameTableFlag         byte
	vramIncrementFlag     byte
	spriteTableFlag       byte
	backgroundTableFlag   byte
	spriteSizeFlag        byte
	masterSlaveSelectFlag byte

	// $2001
	grayScale          bool
	showLeftBackground bool
	showLeftSprite     bool
	showBackground     bool
	showSprite         bool
	emphasizeRed       bool
	emphasizeGreen     bool
	emphasizeBlue      bool

	// $2002
	register byte

	paletteRAM paletteRAM

	// Background pipeline: the PPU always fetches tile data two tiles
	// ahead of what it draws. The fetched bytes are latched here, then
	// folded into the low byte of the shift registers below at the next
	// 8-cycle fetch boundary.
	nameTableByte      byte
	attributeTableByte byte
	attributeShift     uint16 // which 2-bit quadrant of attributeTableByte applies, latched when it's fetched
	lowTileByte        byte
	highTileByte       byte

	// Background shift registers. Bits 8-15 hold the tile currently being
	// drawn, bits 0-7 the next tile being fetched underneath it; both
	// shift left once per dot, and fine X (x) selects which bit of the
	// high byte is the pixel about to be output.
	bgPatternLo uint16
	bgPatternHi uint16
	bgAttrLo    uint16
	bgAttrHi    uint16

	cycle    int
	scanline int
	frame    uint64 // total frames rendered, used for the odd-frame dot skip
}

// NewPPU creates a PPU.
func NewPPU(bus *PPUBus) *PPU {
	return &PPU{
		bus:     bus,
		picture: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (p *PPU) Reset() {
	p.cycle = 0
	p.scanline = 240
	p.frame = 0
}

// Frame reports whether the frame currently being drawn just completed,
// returning the picture if so.
func (p *PPU) Frame() (bool, *image.RGBA) {
	if p.cycle == 0 && p.scanline == 0 {
		return true, p.picture
	}
	return false, nil
}

func (p *PPU) writePPUCTRL(data byte) {
	p.nameTableFlag = data & 3
	p.vramIncrementFlag = (data >> 2) & 1
	p.spriteTableFlag = (data >> 3) & 1
	p.backgroundTableFlag = (data >> 4) & 1
	p.spriteSizeFlag = (data >> 5) & 1
	p.masterSlaveSelectFlag = (data >> 6) & 1
	p.nmiOutput = (data>>7)&1 == 1
	// t: ...GH.. ........ <- d: ......GH
	p.t = (p.t & 0xF3FF) | ((uint16(data) & 0x03) << 10)
}

func (p *PPU) writePPUMASK(data byte) {
	p.grayScale = data&1 == 1
	p.showLeftBackground = (data>>1)&1 == 1
	p.showLeftSprite = (data>>2)&1 == 1
	p.showBackground = (data>>3)&1 == 1
	p.showSprite = (data>>4)&1 == 1
	p.emphasizeRed = (data>>5)&1 == 1
	p.emphasizeGreen = (data>>6)&1 == 1
	p.emphasizeBlue = (data>>7)&1 == 1
}

func (p *PPU) readPPUSTATUS() byte {
	res := p.register & 0x1F
	if p.spriteOverflow {
		res |= 1 << 5
	}
	if p.spriteZeroHit {
		res |= 1 << 6
	}
	// "Return old status of NMI_occurred in bit 7, then set NMI_occurred to false."
	// https://www.nesdev.org/wiki/NMI
	if p.oldNMI {
		res |= 1 << 7
	}
	p.updateNMI(false)
	p.w = false
	return res
}

func (p *PPU) writeOAMADDR(data byte) {
	p.oamAddress = data
}

func (p *PPU) readOAMDATA() byte {
	return p.primaryOAM[p.oamAddress]
}

func (p *PPU) writeOAMDATA(data byte) {
	p.primaryOAM[p.oamAddress] = data
	p.oamAddress++
}

func (p *PPU) writePPUSCROLL(data byte) {
	if !p.w {
		// t: ....... ...ABCDE <- d: ABCDE...
		// x:              FGH <- d: .....FGH
		p.t = (p.t & 0xFFE0) | (uint16(data) >> 3)
		p.x = data & 7
		p.w = true
	} else {
		// t: FGH..AB CDE..... <- d: ABCDEFGH
		p.t = (p.t & 0x8FFF) | ((uint16(data) & 0x07) << 12)
		p.t = (p.t & 0xFC1F) | ((uint16(data) & 0xF8) << 2)
		p.w = false
	}
}

func (p *PPU) writePPUADDR(data byte) {
	if !p.w {
		p.t = (p.t & 0xC0FF) | (uint16(data)&0x3F)<<8
		p.w = true
	} else {
		p.t = (p.t & 0xFF00) | uint16(data)
		p.v = p.t
		p.w = false
	}
}

func (p *PPU) writePPUDATA(data byte) error {
	if 0x3F00 <= p.v {
		p.paletteRAM.write(p.v, data)
	} else {
		if err := p.bus.write(p.v, data); err != nil {
			return fmt.Errorf("write PPUDATA: %w", err)
		}
	}
	p.advanceV()
	return nil
}

func (p *PPU) readPPUDATA() (byte, error) {
	var data byte
	// Non-palette reads go through the internal buffer, since VRAM access
	// is slower than palette RAM access on real hardware.
	if p.v < 0x3F00 {
		v, err := p.bus.read(p.v)
		if err != nil {
			return 0, fmt.Errorf("read PPUDATA: %w", err)
		}
		data = p.buffer
		p.buffer = v
	} else {
		data = p.paletteRAM.read(p.v)
		p.buffer = data
	}
	p.advanceV()
	return data, nil
}

func (p *PPU) advanceV() {
	if p.vramIncrementFlag == 0 {
		p.v++
	} else {
		p.v += 32
	}
}

func (p *PPU) updateNMI(flag bool) {
	p.nmiOccurred = flag
	p.oldNMI = p.nmiOccurred
}

func (p *PPU) color(value byte) *color.RGBA {
	palette := p.backgroundPalette()
	paletteIndex := p.paletteRAM.read(0x3F00 | uint16((palette<<2)+value))
	return &colors[paletteIndex]
}

// backgroundPalette samples the attribute shift registers at the bit fine
// X selects, the same way the pattern registers are sampled for color.
func (p *PPU) backgroundPalette() byte {
	bit := uint16(0x8000) >> p.x
	var lo, hi byte
	if p.bgAttrLo&bit != 0 {
		lo = 1
	}
	if p.bgAttrHi&bit != 0 {
		hi = 1
	}
	return lo | hi<<1
}

// reloadBackgroundShiftRegisters folds the most recently fetched tile into
// the low byte of the pattern and attribute shift registers, at the
// 8-cycle fetch boundary where real hardware does the same.
func (p *PPU) reloadBackgroundShiftRegisters() {
	p.bgPatternLo = (p.bgPatternLo & 0xFF00) | uint16(p.lowTileByte)
	p.bgPatternHi = (p.bgPatternHi & 0xFF00) | uint16(p.highTileByte)
	attr := byte(p.attributeTableByte>>p.attributeShift) & 3
	var lo, hi uint16
	if attr&1 != 0 {
		lo = 0xFF
	}
	if attr&2 != 0 {
		hi = 0xFF
	}
	p.bgAttrLo = (p.bgAttrLo & 0xFF00) | lo
	p.bgAttrHi = (p.bgAttrHi & 0xFF00) | hi
}

// shiftBackgroundRegisters advances the pattern and attribute shift
// registers by one bit, called once per rendering dot.
func (p *PPU) shiftBackgroundRegisters() {
	p.bgPatternLo <<= 1
	p.bgPatternHi <<= 1
	p.bgAttrLo <<= 1
	p.bgAttrHi <<= 1
}

// incrementCoarseX increments X. https://www.nesdev.org/wiki/PPU_scrolling
func (p *PPU) incrementCoarseX() {
	if p.v&0x001F == 31 {
		p.v &= 0xFFE0
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) copyX() {
	p.v = (p.v & 0xFBE0) | (p.t & 0x041F)
}

func (p *PPU) copyY() {
	p.v = (p.v & 0x841F) | (p.t & 0x7BE0)
}

// incrementY increments Y. https://www.nesdev.org/wiki/PPU_scrolling#Wrapping_around
func (p *PPU) incrementY() {
	if (p.v & 0x7000) != 0x7000 {
		p.v += 0x1000
	} else {
		p.v &= 0x8FFF
		y := (p.v & 0x03E0) >> 5
		if y == 29 {
			y = 0
			p.v ^= 0x0800
		} else if y == 31 {
			y = 0
		} else {
			y++
		}
		p.v = (p.v & 0xFC1F) | (y << 5)
	}
}

func (p *PPU) fetchLowTileByte() error {
	fineY := (p.v >> 12) & 0b111
	address := 0x1000*uint16(p.backgroundTableFlag) + uint16(p.nameTableByte)*16 + fineY
	data, err := p.bus.read(address)
	if err != nil {
		return err
	}
	p.lowTileByte = data
	return nil
}

func (p *PPU) fetchHighTileByte() error {
	fineY := (p.v >> 12) & 0b111
	address := 0x1000*uint16(p.backgroundTableFlag) + uint16(p.nameTableByte)*16 + fineY + 8
	data, err := p.bus.read(address)
	if err != nil {
		return err
	}
	p.highTileByte = data
	return nil
}

// fetchAttributeTableByte. https://www.nesdev.org/wiki/PPU_scrolling
func (p *PPU) fetchAttributeTableByte() error {
	address := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
	data, err := p.bus.read(address)
	if err != nil {
		return err
	}
	p.attributeTableByte = data
	// The attribute byte covers a 32x32 pixel area split into four 2-bit
	// quadrants; latch which one applies now, against the same v this
	// fetch used, since incrementCoarseX moves v on before the shift
	// registers are reloaded with this tile a few cycles from now.
	p.attributeShift = ((p.v >> 4) & 4) | (p.v & 2)
	return nil
}

func (p *PPU) fetchNameTableByte() error {
	data, err := p.bus.read(0x2000 | (p.v & 0x0FFF))
	if err != nil {
		return err
	}
	p.nameTableByte = data
	return nil
}

// spriteHeight returns 8 or 16 depending on PPUCTRL bit 5.
func (p *PPU) spriteHeight() int {
	if p.spriteSizeFlag == 1 {
		return 16
	}
	return 8
}

// evaluateSprite reproduces sprite evaluation for the upcoming scanline.
// Once 8 sprites have been found, real hardware does not stop checking Y
// coordinates cleanly: the byte-within-sprite index that should stay at 0
// instead keeps incrementing alongside the sprite index, so later "Y"
// checks actually read tile, attribute and X bytes. That can both set the
// overflow flag on lines that don't really have a 9th sprite (a false
// positive, when one of those misread bytes happens to fall in range) and
// miss it on lines that do (a false negative, when the real 9th sprite's Y
// byte gets skipped over by the corrupted walk). This reproduces that
// walk; it is not a byte-for-byte reconstruction of the silicon.
func (p *PPU) evaluateSprite() {
	h := p.spriteHeight()
	spriteCount := 0
	p.spriteZeroIn = false
	n, m := 0, 0
	for n < 64 {
		y := int(p.primaryOAM[n*4+m])
		inRange := y <= p.scanline && p.scanline < y+h
		if spriteCount < 8 {
			if inRange {
				p.secondaryOAM[spriteCount] = sprite{
					index:     n,
					y:         y,
					tile:      p.primaryOAM[n*4+1],
					attribute: p.primaryOAM[n*4+2],
					x:         int(p.primaryOAM[n*4+3]),
				}
				if n == 0 {
					p.spriteZeroIn = true
				}
				spriteCount++
			}
			n++
			m = 0
		} else {
			if inRange {
				p.spriteOverflow = true
				break
			}
			n++
			m = (m + 1) % 4
		}
	}
	p.secondaryNum = spriteCount
}

// loadSpriteShiftRegisters fetches pattern bytes for every sprite found by
// evaluateSprite and latches them, along with X/attribute/OAM index, into
// the per-slot shift registers used to render the upcoming scanline.
func (p *PPU) loadSpriteShiftRegisters() error {
	h := p.spriteHeight()
	renderScanline := p.scanline + 1 // sprites evaluated this dot render on the next scanline
	for i := 0; i < p.secondaryNum; i++ {
		s := p.secondaryOAM[i]
		row := renderScanline - s.y
		if s.verticalFlip() {
			row = h - 1 - row
		}
		var tile, bank uint16
		if h == 16 {
			tile = uint16(s.tile &^ 1)
			bank = uint16(s.tile&1) * 0x1000
			if row >= 8 {
				tile++
				row -= 8
			}
		} else {
			tile = uint16(s.tile)
			bank = uint16(p.spriteTableFlag) * 0x1000
		}
		address := bank + tile*16 + uint16(row)
		lo, err := p.bus.read(address)
		if err != nil {
			return err
		}
		hi, err := p.bus.read(address + 8)
		if err != nil {
			return err
		}
		if s.horizontalFlip() {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}
		p.spritePatternLo[i] = lo
		p.spritePatternHi[i] = hi
		p.spriteX[i] = byte(s.x)
		p.spriteAttr[i] = s.attribute
		p.spriteIndexes[i] = s.index
	}
	for i := p.secondaryNum; i < 8; i++ {
		p.spritePatternLo[i] = 0
		p.spritePatternHi[i] = 0
	}
	return nil
}

// reverseBits reverses the bit order of b, used to mirror a sprite's
// pattern bytes for horizontal flip.
func reverseBits(b byte) byte {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

func spritePriority(attribute byte) byte { return attribute >> 5 & 1 }

// spritePaletteAddress calculates a sprite's palette address from `value`,
// which comes from the tile.
func spritePaletteAddress(attribute, value byte) uint16 {
	return (0x3F00 | uint16((attribute&3)+4)*4) + uint16(value)
}

func (p *PPU) renderSpritePixel() (int, byte) {
	if !p.showSprite {
		return 0, 0
	}
	x := p.cycle - 1
	for i := 0; i < p.secondaryNum; i++ {
		offset := x - int(p.spriteX[i])
		if offset < 0 || offset > 7 {
			continue
		}
		lv := (p.spritePatternLo[i] >> (7 - offset)) & 1
		hv := (p.spritePatternHi[i] >> (7 - offset)) & 1
		return i, lv + hv<<1
	}
	return 0, 0
}

func (p *PPU) renderBackgroundPixel() byte {
	if !p.showBackground {
		return 0
	}
	bit := uint16(0x8000) >> p.x
	var lv, hv byte
	if p.bgPatternLo&bit != 0 {
		lv = 1
	}
	if p.bgPatternHi&bit != 0 {
		hv = 1
	}
	return lv + hv<<1
}

func (p *PPU) renderPixel() error {
	x := p.cycle - 1 // cycle 0 is never rendered
	y := p.scanline
	bg := p.renderBackgroundPixel()
	i, sp := p.renderSpritePixel()
	if x < 8 && !p.showLeftBackground {
		bg = 0
	}
	if x < 8 && !p.showLeftSprite {
		sp = 0
	}
	// BG pixel | Sprite pixel | Priority | Output
	// 0        | 0            | X        | BG($3F00)
	// 0        | 1-3          | X        | Sprite
	// 1-3      | 0            | X        | BG
	// 1-3      | 1-3          | 0        | Sprite
	// 1-3      | 1-3          | 1        | BG
	bgOpaque := bg != 0
	spOpaque := sp != 0
	attr := p.spriteAttr[i]
	index := p.spriteIndexes[i]
	out := &color.RGBA{}
	switch {
	case !spOpaque && !bgOpaque:
		out = &colors[p.paletteRAM.read(0x3F00)]
	case spOpaque && !bgOpaque:
		out = &colors[p.paletteRAM.read(spritePaletteAddress(attr, sp))]
	case !spOpaque && bgOpaque:
		out = p.color(bg)
	default:
		if spritePriority(attr) == 1 {
			out = p.color(bg)
		} else {
			out = &colors[p.paletteRAM.read(spritePaletteAddress(attr, sp))]
		}
		// "When an opaque pixel of sprite 0 overlaps an opaque pixel of the
		// background, this is a sprite zero hit."
		if index == 0 && p.spriteZeroIn && x < 255 {
			p.spriteZeroHit = true
		}
	}
	p.picture.SetRGBA(x, y, *out)
	return nil
}

// Step emulates one PPU dot. While background rendering is enabled, each of
// dots 1-256 on a visible scanline renders one pixel.
// References:
//
//	https://www.nesdev.org/wiki/PPU_rendering
//	https://www.nesdev.org/wiki/File:Ntsc_timing.png
func (p *PPU) Step() (bool, error) {
	renderingEnabled := p.showBackground || p.showSprite

	p.cycle++
	// On NTSC, with rendering enabled, every other frame's pre-render
	// scanline is one dot shorter: dot 339 skips straight to the next
	// scanline instead of visiting dot 340.
	if renderingEnabled && p.scanline == 261 && p.cycle == 340 && p.frame%2 == 1 {
		p.cycle = 341
	}
	if p.cycle == 341 {
		p.cycle = 0
		p.scanline++
		if p.scanline == 262 {
			p.scanline = 0
			p.frame++
		}
	}

	if p.showBackground {
		if 1 <= p.cycle && p.cycle <= 256 && p.scanline <= 239 {
			if err := p.renderPixel(); err != nil {
				return false, fmt.Errorf("render pixel: %w", err)
			}
		}
		if p.scanline == 261 && 280 <= p.cycle && p.cycle <= 304 {
			p.copyY()
		}
		if p.scanline < 240 || p.scanline == 261 {
			if 1 <= p.cycle && p.cycle <= 256 && p.cycle%8 == 0 {
				p.incrementCoarseX()
			}
			if p.cycle == 328 || p.cycle == 336 {
				p.incrementCoarseX()
			}
			if p.cycle == 256 {
				p.incrementY()
			}
			if p.cycle == 257 {
				p.copyX()
			}
			if (0 < p.cycle && p.cycle <= 257) || 320 < p.cycle {
				p.shiftBackgroundRegisters()
				switch p.cycle % 8 {
				case 0:
					p.reloadBackgroundShiftRegisters()
				case 1:
					if err := p.fetchNameTableByte(); err != nil {
						return false, err
					}
				case 3:
					if err := p.fetchAttributeTableByte(); err != nil {
						return false, err
					}
				case 5:
					if err := p.fetchLowTileByte(); err != nil {
						return false, err
					}
				case 7:
					if err := p.fetchHighTileByte(); err != nil {
						return false, err
					}
				}
			}
		}
	}

	if p.scanline == 241 && p.cycle == 1 {
		p.updateNMI(true)
	}
	if p.scanline == 261 && p.cycle == 1 {
		p.spriteOverflow = false
		p.spriteZeroHit = false
		p.updateNMI(false)
	}
	// Real hardware evaluates the next scanline's sprites one at a time
	// across dots 65-256; this computes the same result in one step.
	if p.cycle == 257 {
		if p.scanline < 240 {
			p.evaluateSprite()
			if err := p.loadSpriteShiftRegisters(); err != nil {
				return false, fmt.Errorf("load sprite shift registers: %w", err)
			}
		} else {
			p.secondaryNum = 0
		}
	}
	if p.nmiOutput && p.nmiOccurred && p.scanline == 241 && p.cycle == 1 {
		return true, nil
	}
	return false, nil
}
