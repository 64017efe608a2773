/*
   i7000  - Main process.

   Copyright 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a copy
   of this software and associated documentation files (the "Software"), to deal
   in the Software without restriction, including without limitation the rights
   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
   copies of the Software, and to permit persons to whom the Software is
   furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.

*/

package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"log/slog"

	pflag "github.com/spf13/pflag"

	config "github.com/rcornwell/i7000/config/configparser"
	"github.com/rcornwell/i7000/emu/cpu"
	"github.com/rcornwell/i7000/emu/syschannel"
	logger "github.com/rcornwell/i7000/util/logger"
)

var log *slog.Logger

func main() {
	optConfig := pflag.StringP("config", "c", "i7000.cfg", "Configuration file")
	optLogFile := pflag.StringP("log", "l", "", "Log file")
	optDebug := pflag.BoolP("debug", "d", false, "Enable debug tracing")
	optTrace := pflag.StringP("trace", "t", "",
		"Comma separated debug categories to trace: CMD,INST,DATA,IO,IRQ,DETAIL")
	optHelp := pflag.BoolP("help", "h", false, "Help")
	pflag.Parse()

	if *optHelp {
		pflag.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	handler := logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug)
	for _, cat := range strings.Split(*optTrace, ",") {
		cat = strings.TrimSpace(strings.ToUpper(cat))
		if cat != "" {
			handler.EnableCategory(logger.Category(cat))
		}
	}
	log = slog.New(handler)
	slog.SetDefault(log)

	log.Info("i7000 started")

	if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
		log.Error("configuration file can't be found", "file", *optConfig)
		os.Exit(1)
	}

	if err := config.LoadConfigFile(*optConfig); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	syschannel.ResetAll()

	// A "CPU <model> <options>" line in the config file builds
	// cpu.Instance; fall back to a bare 10K if the config only set up
	// channels and devices.
	proc := cpu.Instance
	if proc == nil {
		proc = cpu.New(cpu.Model10K, log)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	run := true
	go func() {
		<-sigChan
		log.Info("got quit signal")
		run = false
	}()

	// spec.md 5: single-threaded cooperative scheduler. Each pass
	// advances the CPU one instruction, then lets every channel take
	// its turn before the CPU fetches again.
	for run && !proc.Halted {
		proc.Step()
		syschannel.Scheduler()
	}

	if proc.Halted {
		log.Info("CPU halted", "reason", proc.HaltReason)
	}
	log.Info("shutting down")
}
