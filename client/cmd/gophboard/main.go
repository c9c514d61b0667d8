package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maynagashev/gophboard/client/internal/tui"
)

const (
	logDir             = "logs"
	logFileName        = "client.log"
	logFilePermissions = 0o600

	envServerURL   = "GOPHBOARD_SERVER_URL"
	envSessionFile = "GOPHBOARD_SESSION_FILE"

	defaultServerURL = "http://localhost:8080"
	sessionDirName   = ".gophboard"
	sessionFileName  = "session.json"
)

// Переменные для версии и даты сборки, устанавливаются через ldflags.
//
//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
var (
	buildVersion = "dev"
	buildDate    = "unknown"
	buildCommit  = "N/A"
)

// options - параметры запуска клиента.
type options struct {
	serverURL   string
	sessionFile string
	showVersion bool
}

// setupLogging направляет slog в файл logs/client.log: stdout занят TUI.
func setupLogging() (io.Closer, error) {
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для логов: %w", err)
	}
	logPath := filepath.Join(logDir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть лог-файл: %w", err)
	}

	logHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(logHandler))
	slog.Info("Логгер инициализирован", "path", logPath)
	return logFile, nil
}

// defaultSessionFile возвращает ~/.gophboard/session.json или файл в текущем каталоге,
// если домашний каталог неизвестен.
func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return sessionFileName
	}
	return filepath.Join(home, sessionDirName, sessionFileName)
}

// parseOptions разбирает флаги. Явно заданный флаг важнее переменной окружения.
func parseOptions(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("gophboard", flag.ContinueOnError)
	fs.StringVar(&opts.serverURL, "server-url", defaultServerURL,
		"URL сервера GophBoard (переопределяет "+envServerURL+")")
	fs.StringVar(&opts.sessionFile, "session-file", defaultSessionFile(),
		"Путь к файлу сессии (переопределяет "+envSessionFile+")")
	fs.BoolVar(&opts.showVersion, "version", false, "Показать версию и дату сборки")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if v := os.Getenv(envServerURL); v != "" && !set["server-url"] {
		opts.serverURL = v
	}
	if v := os.Getenv(envSessionFile); v != "" && !set["session-file"] {
		opts.sessionFile = v
	}

	if opts.serverURL == "" {
		return nil, errors.New("URL сервера не может быть пустым")
	}
	if opts.sessionFile == "" {
		return nil, errors.New("путь к файлу сессии не может быть пустым")
	}
	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Println("GophBoard Client")
		fmt.Printf("Version: %s\n", buildVersion)
		fmt.Printf("Build Date: %s\n", buildDate)
		fmt.Printf("Commit Hash: %s\n", buildCommit)
		return
	}

	logFile, err := setupLogging()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.Info("Запуск GophBoard",
		"server_url", opts.serverURL,
		"session_file", opts.sessionFile,
		"version", buildVersion,
	)

	if err = tui.Start(opts.serverURL, opts.sessionFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1) //nolint:gocritic // Лог-файл закроет ОС
	}
}
