package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophboard/client/internal/api"
	"github.com/maynagashev/gophboard/client/internal/session"
	"github.com/maynagashev/gophboard/models"
)

// Состояния (экраны) приложения.
type screenState int

const (
	welcomeScreen  screenState = iota // Выбор: вход или регистрация
	loginScreen                       // Экран ввода данных для входа
	registerScreen                    // Экран ввода данных для регистрации
	boardScreen                       // Лента сообщений и поле ввода
	profileScreen                     // Профиль и архивы
)

func (s screenState) String() string {
	switch s {
	case welcomeScreen:
		return "welcomeScreen"
	case loginScreen:
		return "loginScreen"
	case registerScreen:
		return "registerScreen"
	case boardScreen:
		return "boardScreen"
	case profileScreen:
		return "profileScreen"
	default:
		return fmt.Sprintf("screenState(%d)", int(s))
	}
}

// Константы для TUI.
const (
	defaultListWidth  = 80 // Стандартная ширина терминала для списка
	defaultListHeight = 20 // Стандартная высота терминала для списка
	inputOffset       = 4  // Отступ для полей ввода
	messagePageSize   = 50 // Сколько сообщений запрашивать за раз
	archivePageSize   = 20

	keyEnter    = "enter"
	keyEsc      = "esc"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyCtrlC    = "ctrl+c"
	keyQuit     = "ctrl+q" // Выход с экранов, где "q" - обычный символ
	keyRefresh  = "ctrl+r"
	keyProfile  = "ctrl+p"
	keyLogout   = "ctrl+l"
	keyBack     = "b"
	keyArchive  = "a"
	keyDownload = "d"
)

// messageItem - элемент списка сообщений.
type messageItem struct {
	msg models.Message
}

func (i messageItem) Title() string {
	return fmt.Sprintf("%s · %s", i.msg.MemberUsername, i.msg.CreatedAt.Local().Format("02.01 15:04"))
}

func (i messageItem) Description() string { return i.msg.Text }

func (i messageItem) FilterValue() string { return i.msg.MemberUsername + " " + i.msg.Text }

// archiveItem - элемент списка архивов.
type archiveItem struct {
	archive models.Archive
}

func (i archiveItem) Title() string {
	return fmt.Sprintf("Архив #%d", i.archive.ID)
}

func (i archiveItem) Description() string {
	return fmt.Sprintf("%s | сообщений: %d | %d байт",
		i.archive.CreatedAt.Local().Format("02.01.2006 15:04"), i.archive.MessageCount, i.archive.SizeBytes)
}

func (i archiveItem) FilterValue() string { return i.Title() }

// model - состояние TUI.
type model struct {
	state     screenState
	apiClient api.Client
	store     *session.Store
	serverURL string

	// Вход и регистрация.
	loginUsernameInput        textinput.Model
	loginPasswordInput        textinput.Model
	registerUsernameInput     textinput.Model
	registerPasswordInput     textinput.Model
	loginRegisterFocusedField int

	// Доска.
	member       *models.MemberResponse
	greeting     string
	messageList  list.Model
	messageInput textinput.Model
	archiveList  list.Model

	// Прочее.
	downloadDir   string // Куда сохранять скачанные архивы
	statusMessage string
	err           error
	docStyle      lipgloss.Style
	helpTextMap   map[screenState]string
}

func newCredentialInput(placeholder string, password bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = models.UsernameMaxLength
	ti.Width = defaultListWidth - inputOffset
	if password {
		ti.CharLimit = models.PasswordMaxLength
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return ti
}

// initModel создает начальную модель.
func initModel(serverURL string, apiClient api.Client, store *session.Store) *model {
	messageList := list.New([]list.Item{}, list.NewDefaultDelegate(), defaultListWidth, defaultListHeight)
	messageList.Title = "Доска сообщений"
	messageList.SetShowHelp(false)
	messageList.SetFilteringEnabled(false)
	messageList.DisableQuitKeybindings()

	archiveList := list.New([]list.Item{}, list.NewDefaultDelegate(), defaultListWidth, defaultListHeight/2)
	archiveList.Title = "Архивы"
	archiveList.SetShowHelp(false)
	archiveList.SetFilteringEnabled(false)
	archiveList.DisableQuitKeybindings()

	messageInput := textinput.New()
	messageInput.Placeholder = "Новое сообщение"
	messageInput.CharLimit = models.MessageTextMaxLength
	messageInput.Width = defaultListWidth - inputOffset

	return &model{
		state:                 welcomeScreen,
		apiClient:             apiClient,
		store:                 store,
		serverURL:             serverURL,
		loginUsernameInput:    newCredentialInput("Имя пользователя", false),
		loginPasswordInput:    newCredentialInput("Пароль", true),
		registerUsernameInput: newCredentialInput("Имя пользователя", false),
		registerPasswordInput: newCredentialInput("Пароль", true),
		messageList:           messageList,
		messageInput:          messageInput,
		archiveList:           archiveList,
		downloadDir:           ".",
		docStyle:              lipgloss.NewStyle().Margin(1, 2),
		helpTextMap: map[screenState]string{
			welcomeScreen:  "(L) вход | (R) регистрация | Ctrl+C: выход",
			loginScreen:    "Tab: след. поле | Enter: войти | Esc: назад",
			registerScreen: "Tab: след. поле | Enter: зарегистрироваться | Esc: назад",
			boardScreen:    "Enter: отправить | ↑/↓: прокрутка | Ctrl+R: обновить | Ctrl+P: профиль | Ctrl+L: выйти",
			profileScreen:  "(A) создать архив | (D) скачать выбранный | (B/Esc) назад",
		},
	}
}
