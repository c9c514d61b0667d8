// Package session хранит токен доступа клиента между запусками.
//
// Файл сессии защищен межпроцессной блокировкой (flock), чтобы два
// запущенных клиента не перезаписывали его одновременно.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	filePerm       = 0o600
	dirPerm        = 0o700
)

// ErrNoSession - сохраненной сессии нет.
var ErrNoSession = errors.New("сессия не найдена")

// Session - сохраненные данные входа.
type Session struct {
	ServerURL string    `json:"server_url"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	SavedAt   time.Time `json:"saved_at"`
}

// Store читает и записывает сессию в файл.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore создает хранилище сессии в файле path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path возвращает путь к файлу сессии.
func (s *Store) Path() string {
	return s.path
}

// Load читает сессию. Если файла нет, возвращает ErrNoSession.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	locked, err := s.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("ошибка блокировки файла сессии: %w", err)
	}
	if !locked {
		return nil, errors.New("не удалось заблокировать файл сессии")
	}
	defer s.unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("ошибка чтения файла сессии: %w", err)
	}

	var sess Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("поврежденный файл сессии: %w", err)
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Save атомарно записывает сессию.
func (s *Store) Save(ctx context.Context, sess Session) error {
	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка кодирования сессии: %w", err)
	}

	return s.withWriteLock(ctx, func() error {
		tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
		if err != nil {
			return fmt.Errorf("ошибка создания временного файла: %w", err)
		}
		tmpPath := tmp.Name()
		defer os.Remove(tmpPath) // после успешного Rename файла уже нет

		if _, err = tmp.Write(data); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("ошибка записи сессии: %w", err)
		}
		if err = tmp.Chmod(filePerm); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("ошибка установки прав на файл сессии: %w", err)
		}
		if err = tmp.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия временного файла: %w", err)
		}
		if err = os.Rename(tmpPath, s.path); err != nil {
			return fmt.Errorf("ошибка сохранения файла сессии: %w", err)
		}
		slog.Info("Сессия сохранена", "path", s.path, "username", sess.Username)
		return nil
	})
}

// Clear удаляет сохраненную сессию (выход).
func (s *Store) Clear(ctx context.Context) error {
	return s.withWriteLock(ctx, func() error {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("ошибка удаления файла сессии: %w", err)
		}
		slog.Info("Сессия удалена", "path", s.path)
		return nil
	})
}

func (s *Store) withWriteLock(ctx context.Context, fn func() error) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("ошибка блокировки файла сессии: %w", err)
	}
	if !locked {
		return errors.New("не удалось заблокировать файл сессии")
	}
	defer s.unlock()
	return fn()
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("ошибка создания каталога сессии: %w", err)
	}
	return nil
}

func (s *Store) unlock() {
	if err := s.lock.Unlock(); err != nil {
		slog.Error("Ошибка при снятии блокировки файла сессии", "path", s.path, "error", err)
	}
}
