package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"autosheetify/internal/orchestrator"
	"autosheetify/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWait
	statusError
)

const ansiReset = "\x1b[0m"

type statusStyle struct {
	label string
	color string
}

var statusStyles = map[statusKind]statusStyle{
	statusInfo:  {label: "INFO", color: "\x1b[34m"},
	statusOK:    {label: "OK", color: "\x1b[32m"},
	statusWait:  {label: "WAIT", color: "\x1b[33m"},
	statusError: {label: "ERROR", color: "\x1b[31m"},
}

// statusLabelWidth fits "Transcription service:".
const statusLabelWidth = 22

// renderStatusLine formats "  Label:   [KIND] message".
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

func renderCheck(result preflight.Result, colorize bool) string {
	kind := statusError
	if result.Passed {
		kind = statusOK
	}
	return renderStatusLine(result.Name, kind, result.Detail, colorize)
}

func phaseStatus(phase orchestrator.Phase) statusKind {
	switch phase {
	case orchestrator.PhaseSuccess:
		return statusOK
	case orchestrator.PhaseFailed:
		return statusError
	case orchestrator.PhaseSubmitting:
		return statusWait
	default:
		return statusInfo
	}
}

// shouldColorize honours NO_COLOR and only colours terminals.
func shouldColorize(writer io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
