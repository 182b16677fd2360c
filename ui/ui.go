package ui

import (
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"

	"github.com/jyane/jnes/nes"
)

// Start opens a window and runs console until it's closed, rendering each
// completed frame with OpenGL and feeding WASD+FJGH keyboard state into
// controller 0.
func Start(console nes.Console, width int, height int) {
	if err := glfw.Init(); err != nil {
		glog.Fatalln(err)
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	window, err := glfw.CreateWindow(width, height, "jnes", nil, nil)
	if err != nil {
		glog.Fatalln(err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glog.Fatalln(err)
	}
	program, err := newProgram()
	if err != nil {
		glog.Fatalln(err)
	}
	gl.UseProgram(program)

	a := newAudio()
	if err := a.start(); err != nil {
		glog.Errorf("audio disabled: %v", err)
	} else {
		defer a.terminate()
	}

	var sampleTime float32
	for !window.ShouldClose() {
		time.Sleep(time.Millisecond)
		if _, err := console.Step(); err != nil {
			glog.Errorf("step: %v", err)
			return
		}
		sampleTime += 1.0 / nes.CPUFrequency
		select {
		case a.channel <- console.AudioSample(sampleTime):
		default:
		}
		if frame, ok := console.Frame(); ok {
			updateTexture(program, frame)
			keys := getKeys(window)
			for b, pressed := range keys {
				console.SetButton(0, nes.Button(b), pressed)
			}
			window.SwapBuffers()
			glfw.PollEvents()
		}
	}
}
