package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Количество полей на экранах входа и регистрации (имя/пароль).
const numCredentialFields = 2

// focusCredentialField переводит фокус на поле idx.
func focusCredentialField(idx int, usernameInput, passwordInput *textinput.Model) {
	if idx == 0 {
		passwordInput.Blur()
		usernameInput.Focus()
		return
	}
	usernameInput.Blur()
	passwordInput.Focus()
}

// handleCredentialsInput обрабатывает ввод в полях имени и пароля.
// Tab и Shift+Tab переключают фокус, Enter на первом поле переходит ко второму,
// на втором вызывает onSubmit. Esc возвращает на экран previousState.
func (m *model) handleCredentialsInput(
	msg tea.Msg,
	usernameInput *textinput.Model,
	passwordInput *textinput.Model,
	onSubmit func() tea.Cmd,
	previousState screenState,
) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.state = previousState
			m.err = nil
			usernameInput.Blur()
			passwordInput.Blur()
			return m, tea.ClearScreen
		case keyTab:
			m.loginRegisterFocusedField = (m.loginRegisterFocusedField + 1) % numCredentialFields
			focusCredentialField(m.loginRegisterFocusedField, usernameInput, passwordInput)
			return m, textinput.Blink
		case keyShiftTab:
			m.loginRegisterFocusedField = (m.loginRegisterFocusedField + numCredentialFields - 1) % numCredentialFields
			focusCredentialField(m.loginRegisterFocusedField, usernameInput, passwordInput)
			return m, textinput.Blink
		case keyEnter:
			if m.loginRegisterFocusedField == 0 {
				m.loginRegisterFocusedField = 1
				focusCredentialField(1, usernameInput, passwordInput)
				return m, textinput.Blink
			}
			return m, onSubmit()
		}
	}

	active := usernameInput
	if m.loginRegisterFocusedField == 1 {
		active = passwordInput
	}
	var cmd tea.Cmd
	*active, cmd = active.Update(msg)
	return m, cmd
}
