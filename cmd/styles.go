// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	StyleType  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	StyleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	StyleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	StyleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	StyleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	StyleCode = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)
