package app

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	groupStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true)
	groupActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	bindingStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	staleStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	checkedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("120"))
	ineligibleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
	similarityStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	duplicateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	dividerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	dialogBorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208"))
	wizardFrameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 1)
	stepActiveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true)
	stepDoneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	stepPendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	toastInfoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true)
	toastErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true)
	priceStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("180")).Bold(true)
	committedTickStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("70")).Bold(true)
)
