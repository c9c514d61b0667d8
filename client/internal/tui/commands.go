package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophboard/client/internal/session"
	"github.com/maynagashev/gophboard/models"
)

const (
	commandTimeout     = 15 * time.Second
	archiveFilePerm    = 0o600
	archiveFilePattern = "gophboard_archive_%d.json"
)

// --- Сообщения --- //

type errMsg struct {
	err error
}

type clearStatusMsg struct{}

// sessionRestoredMsg - сохраненная сессия найдена и подходит к текущему серверу.
type sessionRestoredMsg struct {
	session *session.Session
}

// noSessionMsg - сохраненной сессии нет, нужен вход.
type noSessionMsg struct{}

type authSuccessMsg struct {
	resp *models.AuthResponse
}

// AuthError - ошибка входа или регистрации.
type AuthError struct {
	err error
}

func (e AuthError) Error() string {
	return e.err.Error()
}

func (e AuthError) Unwrap() error {
	return e.err
}

type boardLoadedMsg struct {
	member   *models.MemberResponse
	greeting string
	messages []models.Message
}

type messagePostedMsg struct {
	message *models.Message
}

type archivesLoadedMsg struct {
	archives []models.Archive
}

type archiveCreatedMsg struct {
	archive *models.Archive
}

type archiveDownloadedMsg struct {
	path string
}

type loggedOutMsg struct{}

// --- Команды --- //

// clearStatusCmd возвращает команду, которая отправит clearStatusMsg через delay.
func clearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// loadSessionCmd читает сохраненную сессию.
func (m *model) loadSessionCmd() tea.Cmd {
	store := m.store
	serverURL := m.serverURL
	return func() tea.Msg {
		if store == nil {
			return noSessionMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		s, err := store.Load(ctx)
		if errors.Is(err, session.ErrNoSession) {
			return noSessionMsg{}
		}
		if err != nil {
			slog.Warn("[TUI] Не удалось прочитать сессию", "error", err)
			return noSessionMsg{}
		}
		if s.ServerURL != serverURL {
			slog.Info("[TUI] Сессия сохранена для другого сервера", "saved", s.ServerURL, "current", serverURL)
			return noSessionMsg{}
		}
		return sessionRestoredMsg{session: s}
	}
}

// makeLoginCmd выполняет вход через API.
func (m *model) makeLoginCmd(username, password string) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		resp, err := client.Login(ctx, username, password)
		if err != nil {
			return AuthError{err: err}
		}
		return authSuccessMsg{resp: resp}
	}
}

// makeRegisterCmd выполняет регистрацию через API. Сервер сразу выдает токен.
func (m *model) makeRegisterCmd(username, password string) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		resp, err := client.Register(ctx, username, password)
		if err != nil {
			return AuthError{err: err}
		}
		return authSuccessMsg{resp: resp}
	}
}

// saveSessionCmd сохраняет токен на диск. Ошибка сохранения не мешает работе.
func (m *model) saveSessionCmd(resp *models.AuthResponse) tea.Cmd {
	store := m.store
	s := session.Session{
		ServerURL: m.serverURL,
		Username:  resp.Member.Username,
		Token:     resp.AccessToken,
	}
	return func() tea.Msg {
		if store == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := store.Save(ctx, s); err != nil {
			slog.Error("[TUI] Не удалось сохранить сессию", "path", store.Path(), "error", err)
		}
		return nil
	}
}

// loadBoardCmd загружает профиль, приветствие и ленту сообщений.
func (m *model) loadBoardCmd() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		member, err := client.Profile(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		greeting, err := client.Hello(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		messages, err := client.ListMessages(ctx, messagePageSize, 0)
		if err != nil {
			return errMsg{err: err}
		}
		return boardLoadedMsg{member: member, greeting: greeting, messages: messages}
	}
}

// postMessageCmd публикует сообщение.
func (m *model) postMessageCmd(text string) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		msg, err := client.PostMessage(ctx, text)
		if err != nil {
			return errMsg{err: err}
		}
		return messagePostedMsg{message: msg}
	}
}

// loadArchivesCmd загружает список архивов текущего участника.
func (m *model) loadArchivesCmd() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		archives, err := client.ListArchives(ctx, archivePageSize, 0)
		if err != nil {
			return errMsg{err: err}
		}
		return archivesLoadedMsg{archives: archives}
	}
}

// createArchiveCmd просит сервер сохранить снимок доски.
func (m *model) createArchiveCmd() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		archive, err := client.CreateArchive(ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return archiveCreatedMsg{archive: archive}
	}
}

// downloadArchiveCmd скачивает архив в файл в каталоге dir.
func (m *model) downloadArchiveCmd(archiveID int64, dir string) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		body, err := client.DownloadArchive(ctx, archiveID)
		if err != nil {
			return errMsg{err: err}
		}
		defer body.Close()

		path := filepath.Join(dir, fmt.Sprintf(archiveFilePattern, archiveID))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, archiveFilePerm)
		if err != nil {
			return errMsg{err: fmt.Errorf("не удалось создать файл архива: %w", err)}
		}
		if _, err = io.Copy(f, body); err != nil {
			_ = f.Close()
			return errMsg{err: fmt.Errorf("не удалось записать архив: %w", err)}
		}
		if err = f.Close(); err != nil {
			return errMsg{err: fmt.Errorf("не удалось записать архив: %w", err)}
		}
		return archiveDownloadedMsg{path: path}
	}
}

// logoutCmd удаляет сохраненную сессию.
func (m *model) logoutCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store != nil {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()
			if err := store.Clear(ctx); err != nil {
				slog.Error("[TUI] Не удалось удалить сессию", "error", err)
			}
		}
		return loggedOutMsg{}
	}
}
