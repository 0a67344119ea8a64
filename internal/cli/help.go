// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"strings"

	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/config"
	"github.com/mitchellh/go-wordwrap"
)

// Command list layout: the synopsis sits in the first helpIndent columns
// and the summary wraps in the remaining ones.
const (
	helpIndent = 24
	helpWidth  = command.HelpWidth
)

const usageLine = "Usage: swiftly [options] <command> [command_options] [args]"

// HelpComposer renders the main help from the structured usage of every
// registered command.
type HelpComposer struct {
	registry *Registry
}

// NewHelpComposer returns a composer over r.
func NewHelpComposer(r *Registry) *HelpComposer {
	return &HelpComposer{registry: r}
}

// UsageLine is the one-line synopsis of the program.
func (h *HelpComposer) UsageLine() string {
	return usageLine
}

// Main renders the complete main help: usage, main options and the command
// list. The output depends only on the registry.
func (h *HelpComposer) Main() string {
	var b strings.Builder
	b.WriteString(usageLine)
	b.WriteString("\n\nOptions:\n")
	b.WriteString(config.FlagUsages())
	b.WriteString("\n")
	b.WriteString(h.Commands())
	return b.String()
}

// Commands renders the command list, sorted by name.
func (h *HelpComposer) Commands() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, name := range h.registry.Names() {
		cmd, _ := h.registry.Lookup(name)
		usage := cmd.Usage()
		b.WriteString(entry(usage.Synopsis, usage.Summary()))
	}
	return b.String()
}

// entry lays out one command. A synopsis shorter than the indent shares its
// line with the summary; a longer one gets a line of its own.
func entry(synopsis, summary string) string {
	var b strings.Builder

	main := "  " + synopsis
	first := strings.Repeat(" ", helpIndent)
	if len(main) < helpIndent {
		first = main + strings.Repeat(" ", helpIndent-len(main))
	} else {
		b.WriteString(main)
		b.WriteString("\n")
	}

	lines := strings.Split(wordwrap.WrapString(strings.Join(strings.Fields(summary), " "), helpWidth-helpIndent), "\n")
	for i, line := range lines {
		if i == 0 {
			b.WriteString(first)
		} else {
			b.WriteString(strings.Repeat(" ", helpIndent))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
