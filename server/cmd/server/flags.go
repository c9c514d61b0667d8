package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/maynagashev/gophboard/server/internal/auth"
)

const (
	defaultServerAddress  = ":8080"
	defaultRequestTimeout = 30 * time.Second
	defaultMinioBucket    = "gophboard-archives"

	// Переменные окружения.
	envServerAddress  = "SERVER_ADDRESS"
	envTLSCertFile    = "TLS_CERT_FILE"
	envTLSKeyFile     = "TLS_KEY_FILE"
	envDatabaseDSN    = "DATABASE_DSN"
	envJWTSecret      = "JWT_SECRET" //nolint:gosec // имя переменной окружения, а не секрет
	envTokenTTL       = "TOKEN_TTL"
	envTokenLeeway    = "TOKEN_LEEWAY"
	envRequestTimeout = "REQUEST_TIMEOUT"

	envMinioEndpoint = "MINIO_ENDPOINT"
	envMinioUser     = "MINIO_USER"
	envMinioPassword = "MINIO_PASSWORD" //nolint:gosec // имя переменной окружения
	envMinioBucket   = "MINIO_BUCKET"
	envMinioUseSSL   = "MINIO_USE_SSL"
)

// config хранит конфигурацию сервера.
type config struct {
	Address        string
	CertFile       string
	KeyFile        string
	DatabaseDSN    string
	JWTSecret      string
	TokenTTL       time.Duration
	TokenLeeway    time.Duration
	RequestTimeout time.Duration

	// Пустой MinioEndpoint отключает архивы.
	MinioEndpoint string
	MinioUser     string
	MinioPassword string
	MinioBucket   string
	MinioUseSSL   bool
}

// TLSEnabled сообщает, заданы ли сертификат и ключ.
func (c *config) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// ArchivesEnabled сообщает, настроено ли объектное хранилище.
func (c *config) ArchivesEnabled() bool {
	return c.MinioEndpoint != ""
}

// parseFlags разбирает флаги и переменные окружения.
// Флаг имеет приоритет над переменной окружения, пустая переменная считается незаданной.
func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("gophboard-server", flag.ContinueOnError)

	fs.StringVar(&cfg.Address, "addr", "",
		fmt.Sprintf("Адрес HTTP-сервера (env: %s, default: %s)", envServerAddress, defaultServerAddress))
	fs.StringVar(&cfg.CertFile, "cert-file", "",
		fmt.Sprintf("Путь к файлу TLS-сертификата (env: %s)", envTLSCertFile))
	fs.StringVar(&cfg.KeyFile, "key-file", "",
		fmt.Sprintf("Путь к файлу TLS-ключа (env: %s)", envTLSKeyFile))
	fs.StringVar(&cfg.DatabaseDSN, "database-dsn", "",
		fmt.Sprintf("Строка подключения к базе данных (env: %s)", envDatabaseDSN))
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "",
		fmt.Sprintf("Секретный ключ подписи токенов (env: %s)", envJWTSecret))
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 0,
		fmt.Sprintf("Срок действия токена (env: %s, default: %s)", envTokenTTL, auth.DefaultTokenTTL))
	fs.DurationVar(&cfg.TokenLeeway, "token-leeway", 0,
		fmt.Sprintf("Допуск расхождения часов при проверке токена (env: %s)", envTokenLeeway))
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", 0,
		fmt.Sprintf("Таймаут обработки запроса (env: %s, default: %s)", envRequestTimeout, defaultRequestTimeout))

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Явно заданные флаги, даже с нулевым значением, важнее окружения
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	applyStringEnv(&cfg.Address, set["addr"], envServerAddress, defaultServerAddress)
	applyStringEnv(&cfg.CertFile, set["cert-file"], envTLSCertFile, "")
	applyStringEnv(&cfg.KeyFile, set["key-file"], envTLSKeyFile, "")
	applyStringEnv(&cfg.DatabaseDSN, set["database-dsn"], envDatabaseDSN, "")
	applyStringEnv(&cfg.JWTSecret, set["jwt-secret"], envJWTSecret, "")
	applyStringEnv(&cfg.MinioEndpoint, false, envMinioEndpoint, "")
	applyStringEnv(&cfg.MinioUser, false, envMinioUser, "")
	applyStringEnv(&cfg.MinioPassword, false, envMinioPassword, "")
	applyStringEnv(&cfg.MinioBucket, false, envMinioBucket, defaultMinioBucket)

	durations := []struct {
		dst      *time.Duration
		flag     string
		env      string
		fallback time.Duration
	}{
		{&cfg.TokenTTL, "token-ttl", envTokenTTL, auth.DefaultTokenTTL},
		{&cfg.TokenLeeway, "token-leeway", envTokenLeeway, 0},
		{&cfg.RequestTimeout, "request-timeout", envRequestTimeout, defaultRequestTimeout},
	}
	for _, d := range durations {
		if err := applyDurationEnv(d.dst, set[d.flag], d.env, d.fallback); err != nil {
			return nil, err
		}
	}

	if value := os.Getenv(envMinioUseSSL); value != "" {
		useSSL, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("неверное значение %s: %w", envMinioUseSSL, err)
		}
		cfg.MinioUseSSL = useSSL
	}

	// Проверяем обязательные параметры
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("не указана строка подключения к БД (--database-dsn или " + envDatabaseDSN + ")")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("не указан секретный ключ токенов (--jwt-secret или " + envJWTSecret + ")")
	}
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return nil, errors.New("для TLS нужны и сертификат, и ключ (--cert-file и --key-file)")
	}
	if cfg.TokenTTL <= 0 || cfg.TokenLeeway < 0 || cfg.RequestTimeout <= 0 {
		return nil, errors.New("длительности должны быть положительными")
	}

	return cfg, nil
}

// applyStringEnv заполняет dst из окружения или значением по умолчанию,
// если флаг не был задан в командной строке.
func applyStringEnv(dst *string, flagSet bool, env, fallback string) {
	if flagSet {
		return
	}
	if value := os.Getenv(env); value != "" {
		*dst = value
		return
	}
	*dst = fallback
}

func applyDurationEnv(dst *time.Duration, flagSet bool, env string, fallback time.Duration) error {
	if flagSet {
		return nil
	}
	value := os.Getenv(env)
	if value == "" {
		*dst = fallback
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("неверное значение %s: %w", env, err)
	}
	*dst = d
	return nil
}
