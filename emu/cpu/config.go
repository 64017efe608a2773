/*
   i7000  - CPU configuration directive

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

// CPU self-registers its "CPU <model> <options>" config directive
// (spec.md 6) the same way emu/syschannel registers "CHANNEL", so
// cmd/i7000 only has to load the config file and then read Instance.
package cpu

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	config "github.com/rcornwell/i7000/config/configparser"
	"github.com/rcornwell/i7000/emu/memory"
)

// Instance is the CPU built by the most recent "CPU" config line. It is
// nil until the config file names one; cmd/i7000 falls back to a
// default 10K build if no CPU line was present.
var Instance *CPU

func init() {
	config.RegisterModel("CPU", config.TypeOptions, create)
}

// create implements the "CPU <model> <option>..." directive: model
// selects one of five models, 10K/20K/40K/80K/160K (spec.md 6's model
// table; 20K and 40K share one address-decode family),
// and each option sets one of the knobs spec.md 6 names (memory size,
// non-stop vs. automatic mode, interrupts enabled, sense switches,
// stop-flags mask, and the 20K-class EMU_MID / top-class
// EMU_SERIES_III feature bits).
func create(_ uint16, model string, options []config.Option) error {
	m, memSize, err := parseModel(model)
	if err != nil {
		return err
	}

	c := New(m, slog.Default())
	for _, opt := range options {
		if err := applyOption(c, &memSize, opt); err != nil {
			return err
		}
	}

	memory.SetSize(memSize)
	Instance = c
	return nil
}

func parseModel(model string) (Model, int, error) {
	switch strings.ToUpper(model) {
	case "10K":
		return Model10K, 10_000, nil
	case "20K":
		return Model20K, 20_000, nil
	case "40K":
		return Model40K, 40_000, nil
	case "80K":
		return Model80K, 80_000, nil
	case "160K":
		return Model160K, 160_000, nil
	default:
		return 0, 0, errors.New("cpu: unknown model " + model)
	}
}

func applyOption(c *CPU, memSize *int, opt config.Option) error {
	switch strings.ToUpper(opt.Name) {
	case "MEMORY":
		n, err := strconv.Atoi(opt.EqualOpt)
		if err != nil {
			return errors.New("cpu: invalid MEMORY value " + opt.EqualOpt)
		}
		*memSize = n
	case "NONSTOP":
		c.Regs.NonStop = true
	case "AUTO":
		c.Regs.NonStop = false
	case "INTR":
		c.Regs.IntMode = true
	case "EMUMID":
		c.Regs.EmuMid = true
	case "SERIESIII":
		c.Regs.EmuSeriesIII = true
	case "SW":
		v, err := strconv.ParseUint(opt.EqualOpt, 16, 8)
		if err != nil {
			return errors.New("cpu: invalid SW value " + opt.EqualOpt)
		}
		c.Regs.SW = uint8(v)
	case "STOP":
		v, err := strconv.ParseUint(opt.EqualOpt, 16, 16)
		if err != nil {
			return errors.New("cpu: invalid STOP value " + opt.EqualOpt)
		}
		c.Regs.StopFlags = uint16(v)
	default:
		return errors.New("cpu: invalid option " + opt.Name)
	}
	return nil
}
