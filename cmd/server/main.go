package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nantokaworks/fontbridge/internal/env"
	"github.com/nantokaworks/fontbridge/internal/fontpath"
	"github.com/nantokaworks/fontbridge/internal/fontsource"
	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"github.com/nantokaworks/fontbridge/internal/version"
	"github.com/nantokaworks/fontbridge/internal/webserver"
	"go.uber.org/zap"
)

func main() {
	logger.Init(false)
	defer logger.Sync()

	env.LoadEnv()
	if env.Value.DebugMode {
		logger.Init(true)
		logger.Info("Debug mode enabled")
	}

	logger.Info("Starting fontbridge",
		zap.String("version", version.String()),
		zap.String("config_file", env.Value.ConfigFile))

	registry, err := fontsource.NewRegistry(fontsource.Options{
		Source:          env.Value.FontSource,
		ExtraDirs:       env.Value.FontDirs,
		IncludeEmbedded: env.Value.IncludeEmbeddedFonts,
	})
	if err != nil {
		logger.Fatal("Failed to set up font registry", zap.Error(err))
	}

	guard := fontpath.NewGuard(env.Value.AllowedRoots)
	if roots := guard.Roots(); len(roots) > 0 {
		logger.Info("Font file access restricted", zap.Strings("roots", roots))
	}

	webserver.SetFontRegistry(registry)
	webserver.SetPathGuard(guard)
	webserver.SetListTimeout(env.Value.ListTimeout)

	if err := webserver.StartWebServer(env.Value.ServerAddr); err != nil {
		logger.Fatal("Failed to start web server", zap.Error(err))
	}

	logger.Info("Server started",
		zap.String("address", env.Value.ServerAddr),
		zap.String("fonts", "http://"+env.Value.ServerAddr+"/fonts"),
		zap.String("font_source", env.Value.FontSource),
		zap.Duration("list_timeout", env.Value.ListTimeout))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	webserver.Shutdown()
	logger.Info("Shutdown complete")
}
