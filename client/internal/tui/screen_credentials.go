package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// viewCredentialsScreen отображает общий экран ввода данных (логин/пароль).
func (m *model) viewCredentialsScreen(title, hint string, usernameInput, passwordInput textinput.Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(subtleStyle.Render("Сервер: "+m.serverURL) + "\n\n")
	b.WriteString(usernameInput.View() + "\n")
	b.WriteString(passwordInput.View() + "\n\n")
	b.WriteString(subtleStyle.Render(hint) + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+m.err.Error()) + "\n")
	}
	return b.String()
}

// updateLoginScreen обрабатывает ввод на экране входа.
func (m *model) updateLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleCredentialsInput(msg, &m.loginUsernameInput, &m.loginPasswordInput, func() tea.Cmd {
		m.err = nil
		m.statusMessage = "Вход..."
		return m.makeLoginCmd(m.loginUsernameInput.Value(), m.loginPasswordInput.Value())
	}, welcomeScreen)
}

func (m *model) viewLoginScreen() string {
	return m.viewCredentialsScreen("Вход", "Введите имя пользователя и пароль",
		m.loginUsernameInput, m.loginPasswordInput)
}

// updateRegisterScreen обрабатывает ввод на экране регистрации.
func (m *model) updateRegisterScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleCredentialsInput(msg, &m.registerUsernameInput, &m.registerPasswordInput, func() tea.Cmd {
		m.err = nil
		m.statusMessage = "Регистрация..."
		return m.makeRegisterCmd(m.registerUsernameInput.Value(), m.registerPasswordInput.Value())
	}, welcomeScreen)
}

func (m *model) viewRegisterScreen() string {
	return m.viewCredentialsScreen("Регистрация", "Имя: от 3 до 50 символов, пароль: от 6 до 72 байт",
		m.registerUsernameInput, m.registerPasswordInput)
}
