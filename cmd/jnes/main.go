// Command jnes plays an iNES ROM in an OpenGL window.
package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/jyane/jnes/nes"
	"github.com/jyane/jnes/ui"
)

var (
	rom   = flag.String("rom", "", "path to an iNES ROM file")
	debug = flag.Bool("debug", false, "run the console in interactive debugger mode")
)

func main() {
	flag.Parse()
	defer glog.Flush()
	if *rom == "" {
		glog.Fatalln("-rom is required")
	}
	console, err := nes.Load(*rom, *debug)
	if err != nil {
		glog.Fatalln(err)
	}
	ui.Start(console, 256, 240)
}
