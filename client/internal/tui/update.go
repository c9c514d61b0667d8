package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophboard/client/internal/api"
)

// Update обрабатывает входящие сообщения.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := m.docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - helpStatusHeightOffset

		m.messageList.SetSize(width, height-boardInputHeight)
		m.archiveList.SetSize(width, height-profileHeaderHeight)
		m.messageInput.Width = width - inputOffset
		m.loginUsernameInput.Width = width - inputOffset
		m.loginPasswordInput.Width = width - inputOffset
		m.registerUsernameInput.Width = width - inputOffset
		m.registerPasswordInput.Width = width - inputOffset
		return m, nil

	case sessionRestoredMsg:
		slog.Info("[TUI] Найдена сохраненная сессия", "username", msg.session.Username)
		m.apiClient.SetAuthToken(msg.session.Token)
		m.statusMessage = "Восстановление сессии..."
		return m, m.loadBoardCmd()

	case noSessionMsg:
		return m, nil

	case authSuccessMsg:
		slog.Info("[TUI] Вход выполнен", "username", msg.resp.Member.Username)
		member := msg.resp.Member
		m.member = &member
		m.enterBoard()
		m.statusMessage = ""
		return m, tea.Batch(m.saveSessionCmd(msg.resp), m.loadBoardCmd(), textinput.Blink)

	case AuthError:
		return m.handleAuthError(msg)

	case boardLoadedMsg:
		m.member = msg.member
		m.greeting = msg.greeting
		if m.state == welcomeScreen {
			m.enterBoard()
		}
		m.statusMessage = ""
		return m, tea.Batch(m.setMessages(msg.messages), textinput.Blink)

	case messagePostedMsg:
		m.messageInput.SetValue("")
		m.statusMessage = ""
		return m, m.prependMessage(*msg.message)

	case archivesLoadedMsg:
		m.statusMessage = ""
		return m, m.setArchives(msg.archives)

	case archiveCreatedMsg:
		_, statusCmd := m.setStatusMessage(fmt.Sprintf("Архив #%d создан", msg.archive.ID))
		return m, tea.Batch(statusCmd, m.loadArchivesCmd())

	case archiveDownloadedMsg:
		return m.setStatusMessage("Архив сохранен: " + msg.path)

	case loggedOutMsg:
		return m.handleLoggedOut()

	case errMsg:
		return m.handleErrorMsg(msg)

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == keyCtrlC || msg.String() == keyQuit {
			return m, tea.Quit
		}
	}

	return m.updateScreen(msg)
}

// updateScreen передает сообщение обработчику текущего экрана.
func (m *model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case welcomeScreen:
		return m.updateWelcomeScreen(msg)
	case loginScreen:
		return m.updateLoginScreen(msg)
	case registerScreen:
		return m.updateRegisterScreen(msg)
	case boardScreen:
		return m.updateBoardScreen(msg)
	case profileScreen:
		return m.updateProfileScreen(msg)
	default:
		return m, nil
	}
}

// handleAuthError показывает ошибку входа или регистрации на текущем экране.
func (m *model) handleAuthError(msg AuthError) (tea.Model, tea.Cmd) {
	slog.Warn("[TUI] Ошибка аутентификации", "state", m.state.String(), "error", msg.err)
	m.statusMessage = ""
	m.err = msg.err
	return m, nil
}

// handleErrorMsg обрабатывает ошибки запросов. Отказ в авторизации
// означает, что токен больше не действует: сессия удаляется.
func (m *model) handleErrorMsg(msg errMsg) (tea.Model, tea.Cmd) {
	m.statusMessage = ""
	if errors.Is(msg.err, api.ErrAuthorization) {
		slog.Info("[TUI] Токен отклонен сервером", "state", m.state.String())
		m.err = errors.New("сессия истекла, войдите снова")
		return m, m.logoutCmd()
	}
	if m.state == profileScreen && errors.Is(msg.err, api.ErrNotFound) {
		m.err = errors.New("архивы недоступны на этом сервере")
		return m, nil
	}
	slog.Error("[TUI] Ошибка запроса", "state", m.state.String(), "error", msg.err)
	m.err = msg.err
	return m, nil
}

// handleLoggedOut сбрасывает данные участника и возвращает на экран выбора.
func (m *model) handleLoggedOut() (tea.Model, tea.Cmd) {
	m.apiClient.SetAuthToken("")
	m.member = nil
	m.greeting = ""
	m.messageInput.SetValue("")
	m.messageInput.Blur()
	m.state = welcomeScreen
	setItemsCmd := m.setMessages(nil)
	archivesCmd := m.setArchives(nil)
	return m, tea.Batch(setItemsCmd, archivesCmd, tea.ClearScreen)
}
