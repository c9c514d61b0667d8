//nolint:testpackage // Тесты в том же пакете для доступа к приватным компонентам
package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophboard/client/internal/api"
	"github.com/maynagashev/gophboard/client/internal/session"
	"github.com/maynagashev/gophboard/models"
)

// MockAPIClient - мок для API клиента. Неописанные методы паникуют через встроенный nil интерфейс.
type MockAPIClient struct {
	mock.Mock
	api.Client
}

func (m *MockAPIClient) SetAuthToken(token string) {
	m.Called(token)
}

func (m *MockAPIClient) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	args := m.Called(ctx, username, password)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *MockAPIClient) Register(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	args := m.Called(ctx, username, password)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *MockAPIClient) Profile(ctx context.Context) (*models.MemberResponse, error) {
	args := m.Called(ctx)
	member, _ := args.Get(0).(*models.MemberResponse)
	return member, args.Error(1)
}

func (m *MockAPIClient) Hello(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAPIClient) ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, limit, offset)
	messages, _ := args.Get(0).([]models.Message)
	return messages, args.Error(1)
}

func (m *MockAPIClient) PostMessage(ctx context.Context, text string) (*models.Message, error) {
	args := m.Called(ctx, text)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *MockAPIClient) CreateArchive(ctx context.Context) (*models.Archive, error) {
	args := m.Called(ctx)
	archive, _ := args.Get(0).(*models.Archive)
	return archive, args.Error(1)
}

func (m *MockAPIClient) ListArchives(ctx context.Context, limit, offset int) ([]models.Archive, error) {
	args := m.Called(ctx, limit, offset)
	archives, _ := args.Get(0).([]models.Archive)
	return archives, args.Error(1)
}

func (m *MockAPIClient) DownloadArchive(ctx context.Context, archiveID int64) (io.ReadCloser, error) {
	args := m.Called(ctx, archiveID)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Error(1)
}

const testServerURL = "http://localhost:8080"

// newTestModel создает модель с моком клиента и хранилищем сессии во временном каталоге.
func newTestModel(t *testing.T) (*model, *MockAPIClient) {
	t.Helper()
	client := new(MockAPIClient)
	store := session.NewStore(t.TempDir() + "/session.json")
	m := initModel(testServerURL, client, store)
	m.downloadDir = t.TempDir()
	return m, client
}

// toModel приводит результат Update к *model.
func toModel(t *testing.T, tm tea.Model) *model {
	t.Helper()
	result, ok := tm.(*model)
	require.True(t, ok, "Модель должна быть типа *model")
	return result
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testMember() models.MemberResponse {
	return models.MemberResponse{
		ID:        7,
		Username:  "alice",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
