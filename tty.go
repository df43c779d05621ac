package main

import (
	"os"

	"golang.org/x/term"
)

type ttyReport struct {
	Detected *ttySize   `json:"detected,omitempty"`
	Probes   []ttyProbe `json:"probes"`
}

type ttySize struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbe struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// probeTerminals reports which of files are terminals and the first size
// that could be read.
func probeTerminals(files ...*os.File) ttyReport {
	report := ttyReport{Probes: make([]ttyProbe, 0, len(files))}
	for _, f := range files {
		if f == nil {
			continue
		}
		probe := ttyProbe{Name: probeName(f)}
		fd := int(f.Fd())
		if fd >= 0 && term.IsTerminal(fd) {
			probe.IsTerminal = true
			width, height, err := term.GetSize(fd)
			switch {
			case err != nil:
				probe.Error = err.Error()
			case report.Detected == nil:
				report.Detected = &ttySize{Source: probe.Name, Width: width, Height: height}
				fallthrough
			default:
				probe.Width, probe.Height = width, height
			}
		}
		report.Probes = append(report.Probes, probe)
	}
	return report
}

func probeName(f *os.File) string {
	switch f {
	case os.Stdin:
		return "stdin"
	case os.Stdout:
		return "stdout"
	case os.Stderr:
		return "stderr"
	default:
		return f.Name()
	}
}
