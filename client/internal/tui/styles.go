package tui

import "github.com/charmbracelet/lipgloss"

//nolint:gochecknoglobals // Стили неизменяемы и общие для всех экранов
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")) // Пурпурный
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")) // Серый
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)
