package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophboard/models"
)

// updateProfileScreen обрабатывает клавиши на экране профиля.
func (m *model) updateProfileScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyBack, keyEsc:
			m.enterBoard()
			return m, nil
		case keyArchive, "A":
			m.statusMessage = "Создание архива..."
			return m, m.createArchiveCmd()
		case keyDownload, "D":
			item, ok := m.archiveList.SelectedItem().(archiveItem)
			if !ok {
				return m.setStatusMessage("Нет выбранного архива")
			}
			m.statusMessage = "Скачивание..."
			return m, m.downloadArchiveCmd(item.archive.ID, m.downloadDir)
		case keyLogout:
			return m, m.logoutCmd()
		}
	}

	var cmd tea.Cmd
	m.archiveList, cmd = m.archiveList.Update(msg)
	return m, cmd
}

// viewProfileScreen отображает данные участника и его архивы.
func (m *model) viewProfileScreen() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Профиль") + "\n\n")
	if m.member != nil {
		b.WriteString(fmt.Sprintf("ID: %d\n", m.member.ID))
		b.WriteString("Имя: " + focusedStyle.Render(m.member.Username) + "\n")
		b.WriteString("Зарегистрирован: " + m.member.CreatedAt.Local().Format("02.01.2006 15:04") + "\n\n")
	}
	b.WriteString(m.archiveList.View() + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+m.err.Error()) + "\n")
	}
	return b.String()
}

// setArchives заменяет список архивов.
func (m *model) setArchives(archives []models.Archive) tea.Cmd {
	items := make([]list.Item, len(archives))
	for i, a := range archives {
		items[i] = archiveItem{archive: a}
	}
	return m.archiveList.SetItems(items)
}
