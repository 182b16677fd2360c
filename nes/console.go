package nes

import (
	"fmt"
	"image"
	"os"
)

// Console is the emulator's external surface: load a ROM, drive frames,
// feed input, and pull rendered output and audio.
type Console interface {
	Reset() error
	Step() (int, error)
	// RenderFrame runs Step in a loop until a full frame has been produced.
	RenderFrame() error
	// Frame reports whether a new frame is available since the last call.
	Frame() (*image.RGBA, bool)
	// FrameBuffer always returns the most recently completed frame.
	FrameBuffer() *image.RGBA
	SetButton(controller int, button Button, pressed bool)
	AudioSample(time float32) float32
}

// NesConsole is the concrete Console implementation.
type NesConsole struct {
	cpu          *CPU
	ppu          *PPU
	apu          *APU
	controller1  *Controller
	controller2  *Controller
	lastFrame    uint64
	currentFrame uint64
	buffer       *image.RGBA
}

// Load reads an iNES ROM from path and constructs a ready-to-run console.
func Load(path string, debug bool) (Console, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rom: %w", err)
	}
	cartridge, err := NewCartridge(data)
	if err != nil {
		return nil, err
	}
	return NewConsole(cartridge, debug)
}

// NewConsole creates a console from an already-parsed cartridge. If debug
// is true, the returned Console accepts interactive debugger commands
// through Step instead of running freely.
func NewConsole(cartridge *Cartridge, debug bool) (Console, error) {
	mapper := NewMapper(cartridge.mapperNumber, cartridge.prgROM, cartridge.chrROM, cartridge.chrRAM)
	if mapper == nil {
		return nil, &LoadError{Reason: UnsupportedMapper, Detail: fmt.Sprintf("mapper %d", cartridge.mapperNumber)}
	}
	controller1 := NewController()
	controller2 := NewController()
	ppuBus := NewPPUBus(NewRAM(), cartridge, mapper)
	ppu := NewPPU(ppuBus)
	apu := NewAPU()
	cpuBus := NewCPUBus(NewRAM(), ppu, apu, mapper, controller1, controller2)
	cpu := NewCPU(cpuBus)
	console := &NesConsole{cpu: cpu, ppu: ppu, apu: apu, controller1: controller1, controller2: controller2}
	if debug {
		return &DebugConsole{NesConsole: console}, nil
	}
	return console, nil
}

func (c *NesConsole) Reset() error {
	c.currentFrame = 0
	c.lastFrame = 0
	c.cpu.Reset()
	c.ppu.Reset()
	return nil
}

// Step runs one CPU instruction to completion and returns the cycles
// consumed. The CPU, PPU and APU are ticked one cycle at a time (3 PPU
// cycles and 1 APU cycle per CPU cycle) rather than run as separate
// batches, so a mid-instruction NMI or PPU register side effect lands on
// the cycle it actually occurs on.
func (c *NesConsole) Step() (int, error) {
	cycles := 0
	for {
		if _, err := c.cpu.Tick(); err != nil {
			return cycles, err
		}
		cycles++
		c.apu.Step()
		for i := 0; i < 3; i++ {
			nmi, err := c.ppu.Step()
			if err != nil {
				return cycles, err
			}
			if nmi {
				c.cpu.TriggerNMI()
			}
			ok, f := c.ppu.Frame()
			if ok {
				c.currentFrame++
				c.buffer = f
			}
		}
		if c.cpu.remainingCycles == 0 {
			return cycles, nil
		}
	}
}

// RenderFrame steps the console until a complete frame has been produced.
func (c *NesConsole) RenderFrame() error {
	target := c.currentFrame + 1
	for c.currentFrame < target {
		if _, err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Frame returns the most recently completed frame, and whether it is new
// since the last call.
func (c *NesConsole) Frame() (*image.RGBA, bool) {
	if c.lastFrame < c.currentFrame {
		c.lastFrame = c.currentFrame
		return c.buffer, true
	}
	return c.buffer, false
}

// FrameBuffer always returns the most recently completed frame, regardless
// of whether it has been observed before.
func (c *NesConsole) FrameBuffer() *image.RGBA {
	return c.buffer
}

// SetButton sets a single button's pressed state on controller 0 or 1.
func (c *NesConsole) SetButton(controller int, button Button, pressed bool) {
	switch controller {
	case 0:
		c.controller1.setButton(button, pressed)
	case 1:
		c.controller2.setButton(button, pressed)
	}
}

// AudioSample returns the mixed analytic waveform amplitude at time
// (seconds since console start).
func (c *NesConsole) AudioSample(time float32) float32 {
	return c.apu.AudioSample(time)
}
