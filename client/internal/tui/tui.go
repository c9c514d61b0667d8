package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophboard/client/internal/api"
	"github.com/maynagashev/gophboard/client/internal/session"
)

const (
	statusMessageTimeout   = 2 * time.Second // Время отображения статусных сообщений
	helpStatusHeightOffset = 2               // Высота строки помощи и статуса
	boardInputHeight       = 4               // Приветствие и поле ввода под лентой
	profileHeaderHeight    = 6               // Данные участника над списком архивов
)

// Init запускает восстановление сохраненной сессии.
func (m *model) Init() tea.Cmd {
	return m.loadSessionCmd()
}

// setStatusMessage устанавливает статусное сообщение и запускает таймер для его очистки.
func (m *model) setStatusMessage(status string) (tea.Model, tea.Cmd) {
	m.statusMessage = status
	return m, clearStatusCmd(statusMessageTimeout)
}

// getMainContentView возвращает основное содержимое для текущего состояния.
func (m *model) getMainContentView() string {
	switch m.state {
	case welcomeScreen:
		return m.viewWelcomeScreen()
	case loginScreen:
		return m.viewLoginScreen()
	case registerScreen:
		return m.viewRegisterScreen()
	case boardScreen:
		return m.viewBoardScreen()
	case profileScreen:
		return m.viewProfileScreen()
	default:
		return "Неизвестное состояние!"
	}
}

// View отрисовывает пользовательский интерфейс.
func (m *model) View() string {
	mainContent := m.getMainContentView()
	help, ok := m.helpTextMap[m.state]
	if !ok {
		help = fmt.Sprintf("State: %s", m.state.String())
	}

	var footer strings.Builder
	if m.member != nil {
		footer.WriteString("\n" + subtleStyle.Render("Вы вошли как "+m.member.Username))
	}
	if m.statusMessage != "" {
		footer.WriteString("\n" + statusStyle.Render(m.statusMessage))
	}

	return fmt.Sprintf("%s\n%s%s", m.docStyle.Render(mainContent), subtleStyle.Render(help), footer.String())
}

// Start запускает TUI приложение.
func Start(serverURL, sessionPath string) error {
	apiClient := api.NewHTTPClient(serverURL)
	slog.Info("[TUI] API клиент инициализирован", "baseURL", serverURL)

	store := session.NewStore(sessionPath)
	slog.Info("[TUI] Файл сессии", "path", store.Path())

	m := initModel(serverURL, apiClient, store)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("[TUI] Ошибка при запуске TUI", "error", err)
		return fmt.Errorf("ошибка TUI: %w", err)
	}
	return nil
}
