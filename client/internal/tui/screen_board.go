package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophboard/models"
)

// updateBoardScreen обрабатывает ввод на экране доски.
// Поле ввода всегда в фокусе, стрелки прокручивают ленту.
func (m *model) updateBoardScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter:
			text := strings.TrimSpace(m.messageInput.Value())
			if text == "" {
				return m, nil
			}
			m.statusMessage = "Отправка..."
			return m, m.postMessageCmd(text)
		case keyRefresh:
			m.statusMessage = "Обновление..."
			return m, m.loadBoardCmd()
		case keyProfile:
			m.state = profileScreen
			m.messageInput.Blur()
			m.err = nil
			return m, m.loadArchivesCmd()
		case keyLogout:
			return m, m.logoutCmd()
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.messageList, cmd = m.messageList.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.messageInput, cmd = m.messageInput.Update(msg)
	return m, cmd
}

// viewBoardScreen отображает ленту и поле ввода.
func (m *model) viewBoardScreen() string {
	var b strings.Builder

	if m.greeting != "" {
		b.WriteString(titleStyle.Render(m.greeting) + "\n\n")
	}
	b.WriteString(m.messageList.View() + "\n\n")
	b.WriteString(m.messageInput.View() + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+m.err.Error()) + "\n")
	}
	return b.String()
}

// enterBoard переключает на экран доски.
func (m *model) enterBoard() {
	m.state = boardScreen
	m.err = nil
	m.loginPasswordInput.SetValue("")
	m.registerPasswordInput.SetValue("")
	m.loginUsernameInput.Blur()
	m.loginPasswordInput.Blur()
	m.registerUsernameInput.Blur()
	m.registerPasswordInput.Blur()
	m.messageInput.Focus()
}

// setMessages заменяет содержимое ленты. Сервер отдает новые сообщения первыми.
func (m *model) setMessages(messages []models.Message) tea.Cmd {
	items := make([]list.Item, len(messages))
	for i, msg := range messages {
		items[i] = messageItem{msg: msg}
	}
	return m.messageList.SetItems(items)
}

// prependMessage добавляет только что опубликованное сообщение в начало ленты.
func (m *model) prependMessage(msg models.Message) tea.Cmd {
	m.messageList.Select(0)
	return tea.Batch(m.messageList.InsertItem(0, messageItem{msg: msg}), textinput.Blink)
}
