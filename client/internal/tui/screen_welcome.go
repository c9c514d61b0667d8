package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// updateWelcomeScreen обрабатывает выбор между входом и регистрацией.
func (m *model) updateWelcomeScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "r", "R":
		m.state = registerScreen
		m.err = nil
		m.loginRegisterFocusedField = 0
		m.registerPasswordInput.Blur()
		m.registerUsernameInput.Focus()
		return m, tea.Batch(textinput.Blink, tea.ClearScreen)
	case "l", "L":
		m.state = loginScreen
		m.err = nil
		m.loginRegisterFocusedField = 0
		m.loginPasswordInput.Blur()
		m.loginUsernameInput.Focus()
		return m, tea.Batch(textinput.Blink, tea.ClearScreen)
	case "q", keyEsc:
		return m, tea.Quit
	}
	return m, nil
}

// viewWelcomeScreen отображает экран выбора входа или регистрации.
func (m *model) viewWelcomeScreen() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("GophBoard") + "\n\n")
	b.WriteString("Сервер: " + m.serverURL + "\n\n")
	b.WriteString("Выберите действие:\n")
	b.WriteString("- Регистрация нового пользователя " + focusedStyle.Render("(R)") + "\n")
	b.WriteString("- Вход с существующими данными " + focusedStyle.Render("(L)") + "\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+m.err.Error()) + "\n\n")
	}
	b.WriteString(subtleStyle.Render("Нажмите Q или Esc для выхода"))

	return b.String()
}
