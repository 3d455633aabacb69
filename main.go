package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"winequality/db"
	qhttp "winequality/http"
	"winequality/logging"
	"winequality/ml"
	"winequality/monitoring"
	"winequality/wine"
)

type Config struct {
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Log logging.Config `yaml:"log"`
}

const configPath = "config.yaml"

func main() {
	// 1. Load config
	config, err := loadConfig(configPath)
	if err != nil {
		// Logger is not up yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// 2. Initialize logging
	if err := logging.Init(config.Log); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer zap.S().Sync()

	stopWatch, err := logging.WatchConfig(configPath, func() (string, error) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return "", err
		}
		return cfg.Log.Level, nil
	})
	if err != nil {
		zap.S().Warnw("config watcher unavailable", "error", err)
	} else {
		defer stopWatch()
	}

	// 3. Initialize database
	if err := db.InitDB(config.Database.Path); err != nil {
		zap.S().Fatalw("failed to initialize database", "error", err)
	}
	defer db.Close()
	zap.S().Infof("Database initialized at %s", config.Database.Path)

	// 4. Load model; a missing or malformed artifact refuses to serve
	handle, err := ml.LoadModel(config.Model.Path)
	if err != nil {
		zap.S().Fatalw("failed to load model", "error", err)
	}
	zap.S().Infow("model loaded",
		"model_type", handle.ModelType(),
		"feature_set", handle.FeatureSetName(),
		"features", len(handle.FeatureNames()),
	)

	predictor, err := wine.NewPredictor(handle, config.Cache.Size)
	if err != nil {
		zap.S().Fatalw("failed to create predictor", "error", err)
	}

	// 5. Start monitoring and HTTP server
	monitor := monitoring.NewMonitor()
	monitor.Start()

	qhttp.SetPredictor(predictor)
	qhttp.SetMonitor(monitor)

	serverConfig := qhttp.DefaultServerConfig()
	serverConfig.Port = config.Http.Port
	if config.Http.TimeoutSeconds > 0 {
		serverConfig.Timeout = time.Duration(config.Http.TimeoutSeconds) * time.Second
	}
	if len(config.Http.AllowedOrigins) > 0 {
		serverConfig.AllowedOrigins = config.Http.AllowedOrigins
	}

	server := qhttp.NewServer(serverConfig)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalw("HTTP server failed", "error", err)
		}
	}()

	// 6. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("Shutting down...")

	if err := server.Stop(); err != nil {
		zap.S().Warnw("server forced to shutdown", "error", err)
	}
	monitor.Stop()

	zap.S().Info("Exiting")
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
