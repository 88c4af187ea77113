package config

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch re-reads the config file whenever it changes and applies the console
// log level to the given level var, so verbosity can be raised on a running
// daemon without a restart. Only the log level is hot-reloaded; everything
// else still requires a restart.
func Watch(logger *slog.Logger, level *slog.LevelVar) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&fsnotify.Write != fsnotify.Write {
			return
		}

		var c AppConfig
		if err := viper.Unmarshal(&c); err != nil {
			logger.Warn("ignoring config change, unmarshal failed", slog.Any("error", err))
			return
		}

		if lvl := c.Logging.GetConsoleLevel(); lvl != level.Level() {
			logger.Info("console log level changed", slog.String("level", lvl.String()))
			level.Set(lvl)
		}
	})
	viper.WatchConfig()
}
