package server

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KyleBrandon/hottub-server/config"
	"github.com/KyleBrandon/hottub-server/internal/auth"
	"github.com/KyleBrandon/hottub-server/internal/database"
	"github.com/KyleBrandon/hottub-server/internal/hottub"
	"github.com/KyleBrandon/hottub-server/internal/relay"
	"github.com/KyleBrandon/hottub-server/internal/sensor"
	"github.com/KyleBrandon/hottub-server/pkg/server/health"
	"github.com/KyleBrandon/hottub-server/pkg/server/history"
	"github.com/KyleBrandon/hottub-server/pkg/server/jets"
	"github.com/KyleBrandon/hottub-server/pkg/server/monitor"
	"github.com/KyleBrandon/hottub-server/pkg/server/status"
	"github.com/KyleBrandon/hottub-server/pkg/server/temperatures"
	"github.com/KyleBrandon/hottub-server/pkg/utils"
	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/nikoksr/notify"
	"github.com/nikoksr/notify/service/twilio"
)

const (
	DEFAULT_SERVER_PORT          = "8080"
	DEFAULT_CONFIG_FILE_LOCATION = "./config/config.json"
	SHUTDOWN_TIMEOUT             = 5 * time.Second
	DATABASE_PING_TIMEOUT        = 5 * time.Second
)

// Used by "flag" to read command line argument
var (
	cmdLineFlagMockSensor bool
	cmdLineFlagLogLevel   string
)

type ServerConfig struct {
	mux                *http.ServeMux
	mctx               *monitor.MonitorContext
	ServerPort         string
	DatabaseURL        string
	UseMockSensor      bool
	LogFileLocation    string
	ConfigFileLocation string
	Username           string
	Password           string
	Logger             *slog.Logger
	LoggerLevel        *slog.LevelVar
	LogFile            *os.File
	Notifier           *notify.Notify

	Config       config.Config
	Relays       *relay.Bank
	HotTub       *hottub.HotTub
	Reader       *sensor.Reader
	Queries      *database.Queries
	DBConnection *sql.DB
}

// init will read and initialize the global command line variables
func init() {
	flag.BoolVar(&cmdLineFlagMockSensor, "use_mock_sensor", false, "Use a mock probe and relays instead of the Raspberry Pi hardware.")
	flag.StringVar(&cmdLineFlagLogLevel, "log_level", config.DefaultLogLevel.String(), "The log level to start the server at")
}

// InitializeServer loads the configuration and binds the hardware. It fails when no temperature
// probe can be found.
func InitializeServer() (*ServerConfig, error) {
	slog.Debug(">>InitializeServer")
	defer slog.Debug("<<InitializeServer")

	sc := &ServerConfig{}

	// MUST BE FIRST
	if err := sc.readEnvironmentVariables(); err != nil {
		return nil, err
	}

	// configure slog
	if err := sc.configureLogger(); err != nil {
		return nil, err
	}

	if err := sc.loadConfig(); err != nil {
		return nil, err
	}

	if err := sc.initializeHardware(); err != nil {
		sc.close()
		return nil, err
	}

	sc.openDatabase()

	var store monitor.MonitorStore
	if sc.Queries != nil {
		store = sc.Queries
	}

	var notifier monitor.Notifier
	if sc.Notifier != nil {
		notifier = sc.Notifier
	}

	sc.mctx = monitor.InitializeMonitorContext(sc.HotTub, sc.Reader, store, notifier, monitor.Intervals{
		Sensor:  sc.Config.SensorInterval(),
		Control: sc.Config.ControlInterval(),
		History: sc.Config.HistoryInterval(),
	})

	sc.mux = http.NewServeMux()
	sc.registerRoutes()

	return sc, nil
}

func (sc *ServerConfig) registerRoutes() {
	basicAuth := auth.NewBasicAuth(sc.Username, sc.Password)
	if !basicAuth.Enabled() {
		slog.Warn("USERNAME and PASSWORD are not set, mutating endpoints are not authenticated")
	}

	healthHandler := health.NewHandler(sc.LoggerLevel, basicAuth)
	healthHandler.RegisterRoutes(sc.mux)

	temperatureHandler := temperatures.NewHandler(sc.HotTub, basicAuth)
	temperatureHandler.RegisterRoutes(sc.mux)

	jetsHandler := jets.NewHandler(sc.HotTub, basicAuth)
	jetsHandler.RegisterRoutes(sc.mux)

	statusHandler := status.NewHandler(sc.HotTub, sc.Config.OriginPatterns)
	statusHandler.RegisterRoutes(sc.mux)

	var historyStore history.HistoryStore
	if sc.Queries != nil {
		historyStore = sc.Queries
	}
	historyHandler := history.NewHandler(historyStore)
	historyHandler.RegisterRoutes(sc.mux)
}

// handler wraps the routes with CORS so browser front ends on other origins can call the API.
func (sc *ServerConfig) handler() http.Handler {
	origins := sc.Config.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	return cors(sc.mux)
}

// RunServer starts the monitor and serves until a termination signal arrives or the monitor
// fails. The HTTP server is stopped first, then the loops, then the relays are turned off.
func (sc *ServerConfig) RunServer() error {
	slog.Info(">>RunServer")
	defer slog.Info("<<RunServer")

	defer sc.close()

	if err := sc.mctx.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", sc.ServerPort),
		Handler:           sc.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", sc.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("termination signal received, shutting down")

	case <-sc.mctx.Done():
		slog.Error("monitor stopped, shutting down")

	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("server did not shut down cleanly", "error", err)
	}

	if err := sc.mctx.CancelAndWait(); err != nil {
		runErr = errors.Join(runErr, err)
	}

	return runErr
}

func (sc *ServerConfig) readEnvironmentVariables() error {
	slog.Info(">>readEnvironmentVariables")
	defer slog.Info("<<readEnvironmentVariables")

	// load the environment
	err := godotenv.Load()
	if err != nil {
		slog.Warn("could not load .env file", "error", err)
	}

	sc.ServerPort = os.Getenv("PORT")
	if len(sc.ServerPort) == 0 {
		sc.ServerPort = DEFAULT_SERVER_PORT
	}

	sc.DatabaseURL = os.Getenv("DATABASE_URL")
	sc.LogFileLocation = os.Getenv("LOG_FILE_LOCATION")

	sc.ConfigFileLocation = os.Getenv("CONFIG_FILE_LOCATION")
	if len(sc.ConfigFileLocation) == 0 {
		sc.ConfigFileLocation = DEFAULT_CONFIG_FILE_LOCATION
	}

	sc.Username = os.Getenv("USERNAME")
	sc.Password = os.Getenv("PASSWORD")
	if (len(sc.Username) == 0) != (len(sc.Password) == 0) {
		return errors.New("USERNAME and PASSWORD must be set together")
	}

	twilioAccountSID := os.Getenv("TWILIO_ACCOUNT_SID")
	twilioAuthToken := os.Getenv("TWILIO_AUTH_TOKEN")
	twilioFromPhone := os.Getenv("TWILIO_FROM_PHONE_NO")
	twilioToPhone := os.Getenv("TWILIO_TO_PHONE_NO")
	if len(twilioAccountSID) != 0 {
		slog.Info("Twilio account information present, configuring Notifier")

		twilioService, err := twilio.New(twilioAccountSID, twilioAuthToken, twilioFromPhone)
		if err != nil {
			return fmt.Errorf("failed to initialize Twilio service: %w", err)
		}

		twilioService.AddReceivers(twilioToPhone)

		notifier := notify.New()
		notifier.UseServices(twilioService)
		sc.Notifier = notifier
	}

	// mock sensor flag is a command line flag for debugging
	sc.UseMockSensor = cmdLineFlagMockSensor

	return nil
}

// configureLogger will initialize the slog to stderr and save the log level so it can be set via API.
func (sc *ServerConfig) configureLogger() error {
	slog.Info(">>configureLogger")
	defer slog.Info("<<configureLogger")

	// create a variable to store the current log level
	currentLevel := new(slog.LevelVar)

	// parse the log level from any passed in command line flag
	level, err := utils.ParseLogLevel(cmdLineFlagLogLevel)
	if err != nil {
		slog.Error("Failed to parse the log level, setting to DefaultLogLevel", "error", err, "log_level", cmdLineFlagLogLevel)
		level = config.DefaultLogLevel
	}

	currentLevel.Set(level)

	// by default we will write to stderr
	logFile := os.Stderr
	if len(sc.LogFileLocation) != 0 {
		slog.Info("Save to log file", "file", sc.LogFileLocation)
		logFile, err = os.OpenFile(sc.LogFileLocation, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
	}

	fileHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: currentLevel})

	logger := slog.New(fileHandler)

	slog.SetDefault(logger)

	sc.Logger = logger
	sc.LoggerLevel = currentLevel
	sc.LogFile = logFile

	return nil
}

func (sc *ServerConfig) loadConfig() error {
	cfg, err := config.LoadConfigSettings(sc.ConfigFileLocation)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load config file %s: %w", sc.ConfigFileLocation, err)
		}

		slog.Warn("config file not found, using defaults", "file", sc.ConfigFileLocation)
		cfg = config.DefaultConfig()
	}

	sc.Config = cfg
	return nil
}

func (sc *ServerConfig) initializeHardware() error {
	slog.Debug(">>initializeHardware")
	defer slog.Debug("<<initializeHardware")

	probe, err := sensor.NewProbe(sc.Config.Probe, sc.UseMockSensor)
	if err != nil {
		return fmt.Errorf("failed to initialize the temperature probe: %w", err)
	}

	var driver relay.Driver
	if sc.UseMockSensor {
		driver = relay.NewMockDriver()
	} else {
		gpio, err := relay.NewGPIODriver()
		if err != nil {
			return err
		}
		driver = gpio
	}

	bank, err := relay.NewBank(driver, sc.Config.Relays)
	if err != nil {
		driver.Close()
		return err
	}
	sc.Relays = bank

	tub, err := hottub.New(bank, sc.Config.Control)
	if err != nil {
		return err
	}
	sc.HotTub = tub

	sc.Reader = sensor.NewReader(probe, sensor.ReaderConfig{
		Name:                     sc.Config.Probe.Name,
		Interval:                 sc.Config.SensorInterval(),
		CalibrationOffsetCelsius: sc.Config.Probe.CalibrationOffsetCelsius,
		FailSafeTemperatureF:     tub.Settings().FailSafeTemperatureF(),
	})

	return nil
}

// openDatabase connects the history store. The controller runs without it if the database is not
// configured or cannot be reached.
func (sc *ServerConfig) openDatabase() {
	if len(sc.DatabaseURL) == 0 {
		slog.Info("DATABASE_URL is not set, history is disabled")
		return
	}

	db, err := sql.Open("postgres", sc.DatabaseURL)
	if err != nil {
		slog.Error("failed to open database connection, history is disabled", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DATABASE_PING_TIMEOUT)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		slog.Error("failed to reach the database, history is disabled", "error", err)
		db.Close()
		return
	}

	sc.DBConnection = db
	sc.Queries = database.New(db)
}

func (sc *ServerConfig) close() {
	if sc.DBConnection != nil {
		sc.DBConnection.Close()
	}

	if sc.Relays != nil {
		if err := sc.Relays.Close(); err != nil {
			slog.Warn("failed to release the relay driver", "error", err)
		}
	}

	if sc.LogFile != nil && sc.LogFile != os.Stderr {
		sc.LogFile.Close()
	}
}
