package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/maynagashev/gophboard/models"
)

const defaultRequestTimeout = 15 * time.Second

var (
	// ErrAuthorization сигнализирует об ошибке авторизации (401): токен отсутствует,
	// истек или недействителен. Нужно войти заново.
	ErrAuthorization = errors.New("ошибка авторизации")
	// ErrInvalidCredentials - сервер отклонил имя пользователя или пароль при входе.
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	// ErrNotFound - запрошенный ресурс не найден (404).
	ErrNotFound = errors.New("не найдено")
)

// Error - ошибка, возвращенная сервером в теле ответа.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ошибка сервера (статус %d): %s", e.StatusCode, e.Message)
}

// Client определяет интерфейс для взаимодействия с API сервера GophBoard.
type Client interface {
	// Register регистрирует нового участника и возвращает его токен.
	Register(ctx context.Context, username, password string) (*models.AuthResponse, error)
	// Login аутентифицирует участника и возвращает токен.
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	// Profile возвращает текущего участника.
	Profile(ctx context.Context) (*models.MemberResponse, error)
	// Hello возвращает приветствие сервера.
	Hello(ctx context.Context) (string, error)
	// ListMessages получает сообщения доски от новых к старым.
	ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error)
	// PostMessage публикует сообщение.
	PostMessage(ctx context.Context, text string) (*models.Message, error)
	// CreateArchive сохраняет снимок доски на сервере.
	CreateArchive(ctx context.Context) (*models.Archive, error)
	// ListArchives получает архивы текущего участника.
	ListArchives(ctx context.Context, limit, offset int) ([]models.Archive, error)
	// DownloadArchive скачивает архив; вызывающая сторона закрывает reader.
	DownloadArchive(ctx context.Context, archiveID int64) (io.ReadCloser, error)
	// SetAuthToken устанавливает токен для аутентифицированных запросов.
	SetAuthToken(token string)
}

// httpClient реализует интерфейс Client для взаимодействия с сервером по HTTP.
type httpClient struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	authToken string
}

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// SetAuthToken устанавливает токен аутентификации для клиента.
func (c *httpClient) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

func (c *httpClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// Register отправляет запрос на регистрацию и сохраняет полученный токен.
func (c *httpClient) Register(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	body := models.RegisterRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", nil, body, http.StatusCreated, &resp); err != nil {
		return nil, fmt.Errorf("ошибка регистрации: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, errors.New("сервер вернул пустой токен")
	}
	c.SetAuthToken(resp.AccessToken)
	return &resp, nil
}

// Login отправляет запрос на вход и сохраняет полученный токен.
func (c *httpClient) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	body := models.LoginRequest{Username: username, Password: password}
	err := c.doJSON(ctx, http.MethodPost, "/api/login", nil, body, http.StatusOK, &resp)
	if err != nil {
		if errors.Is(err, ErrAuthorization) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("ошибка входа: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, errors.New("сервер вернул пустой токен")
	}
	c.SetAuthToken(resp.AccessToken)
	return &resp, nil
}

// Profile получает текущего участника.
func (c *httpClient) Profile(ctx context.Context) (*models.MemberResponse, error) {
	var member models.MemberResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/profile", nil, nil, http.StatusOK, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Hello получает приветствие; с токеном сервер обращается по имени.
func (c *httpClient) Hello(ctx context.Context) (string, error) {
	var hello models.HelloResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/hello", nil, nil, http.StatusOK, &hello); err != nil {
		return "", err
	}
	return hello.Message, nil
}

// ListMessages получает сообщения доски.
func (c *httpClient) ListMessages(ctx context.Context, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := c.doJSON(ctx, http.MethodGet, "/api/messages", pagination(limit, offset), nil, http.StatusOK, &messages)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// PostMessage публикует сообщение от имени текущего участника.
func (c *httpClient) PostMessage(ctx context.Context, text string) (*models.Message, error) {
	var message models.Message
	body := models.CreateMessageRequest{Text: text}
	if err := c.doJSON(ctx, http.MethodPost, "/api/messages", nil, body, http.StatusCreated, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// CreateArchive просит сервер сохранить снимок доски.
func (c *httpClient) CreateArchive(ctx context.Context) (*models.Archive, error) {
	var archive models.Archive
	if err := c.doJSON(ctx, http.MethodPost, "/api/archives", nil, nil, http.StatusCreated, &archive); err != nil {
		return nil, err
	}
	return &archive, nil
}

// ListArchives получает архивы текущего участника.
func (c *httpClient) ListArchives(ctx context.Context, limit, offset int) ([]models.Archive, error) {
	var archives []models.Archive
	err := c.doJSON(ctx, http.MethodGet, "/api/archives", pagination(limit, offset), nil, http.StatusOK, &archives)
	if err != nil {
		return nil, err
	}
	return archives, nil
}

// DownloadArchive скачивает архив.
func (c *httpClient) DownloadArchive(ctx context.Context, archiveID int64) (io.ReadCloser, error) {
	path := "/api/archives/" + strconv.FormatInt(archiveID, 10) + "/download"
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	// Тело не закрываем: его читает вызывающая сторона.
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, responseError(resp)
	}
	return resp.Body, nil
}

// doJSON выполняет запрос с JSON-телом и декодирует ответ в out,
// если статус совпадает с expectedStatus.
func (c *httpClient) doJSON(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	expectedStatus int,
	out any,
) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка кодирования запроса: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	resp, err := c.do(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования ответа: %w", err)
	}
	return nil
}

func (c *httpClient) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body io.Reader,
) (*http.Response, error) {
	target, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования URL: %w", err)
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", models.TokenTypeBearer+" "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса %s %s: %w", method, path, err)
	}
	return resp, nil
}

// responseError переводит неуспешный ответ сервера в ошибку.
func responseError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrAuthorization
	case http.StatusNotFound:
		return ErrNotFound
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &Error{StatusCode: resp.StatusCode, Message: errorMessage(body.Error)}
}

// errorMessage собирает текст из строки или карты ошибок по полям.
func errorMessage(v any) string {
	switch e := v.(type) {
	case string:
		return e
	case map[string]any:
		fields := make([]string, 0, len(e))
		for field, msg := range e {
			fields = append(fields, fmt.Sprintf("%s: %v", field, msg))
		}
		sort.Strings(fields)
		return strings.Join(fields, "; ")
	default:
		return fmt.Sprint(v)
	}
}

func pagination(limit, offset int) url.Values {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	return query
}
