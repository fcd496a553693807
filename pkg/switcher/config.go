package switcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/aswild/pulse-switcher/pkg/switcher/util"
)

// CanonicalConfig provides access to the pattern lists from the user's config
// file, as well as loading/file watching logic
type CanonicalConfig struct {
	Patterns PatternSet

	logger             *zap.SugaredLogger
	path               string
	explicitPath       bool
	stopWatcherChannel chan bool

	reloadConsumers []chan bool

	userConfig *viper.Viper
}

const (
	configDirName = "pulse-switcher"
	configType    = "yaml"

	configKeyIncludeNames        = "include_names"
	configKeyIncludeDescriptions = "include_descriptions"
	configKeyExcludeNames        = "exclude_names"
	configKeyExcludeDescriptions = "exclude_descriptions"
)

// DefaultConfigPath returns $XDG_CONFIG_HOME/pulse-switcher/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, configDirName, "config."+configType)
}

// NewConfig creates a config instance and sets up its viper instance.
// An empty path means the default XDG location, where a missing file is fine;
// an explicitly given path must exist.
func NewConfig(logger *zap.SugaredLogger, path string) (*CanonicalConfig, error) {
	logger = logger.Named("config")

	explicitPath := path != ""
	if !explicitPath {
		path = DefaultConfigPath()
	}

	cc := &CanonicalConfig{
		logger:             logger,
		path:               path,
		explicitPath:       explicitPath,
		reloadConsumers:    []chan bool{},
		stopWatcherChannel: make(chan bool),
	}

	userConfig := viper.New()
	userConfig.SetConfigFile(path)
	userConfig.SetConfigType(configType)

	userConfig.SetDefault(configKeyIncludeNames, []string{})
	userConfig.SetDefault(configKeyIncludeDescriptions, []string{})
	userConfig.SetDefault(configKeyExcludeNames, []string{})
	userConfig.SetDefault(configKeyExcludeDescriptions, []string{})

	cc.userConfig = userConfig

	logger.Debug("Created config instance")

	return cc, nil
}

// Path returns the config file path this instance reads from.
func (cc *CanonicalConfig) Path() string {
	return cc.path
}

// Load reads the config file from disk and tries to parse it. A missing file
// at the default location yields an empty pattern set rather than an error.
func (cc *CanonicalConfig) Load() error {
	cc.logger.Debugw("Loading config", "path", cc.path)

	if !util.FileExists(cc.path) {
		if cc.explicitPath {
			cc.logger.Warnw("Config file not found", "path", cc.path)
			return fmt.Errorf("config file doesn't exist: %s", cc.path)
		}

		cc.logger.Debugw("Default config file not found, using empty pattern set", "path", cc.path)
		cc.Patterns = PatternSet{}
		return nil
	}

	if err := cc.userConfig.ReadInConfig(); err != nil {
		cc.logger.Warnw("Viper failed to read user config", "error", err)
		return fmt.Errorf("read user config: %w", err)
	}

	cc.populateFromViper()

	cc.logger.Debug("Loaded config successfully")
	cc.logger.Debugw("Config values", "patterns", cc.Patterns)

	return nil
}

// SubscribeToChanges allows external components to receive updates when the
// config is reloaded
func (cc *CanonicalConfig) SubscribeToChanges() chan bool {
	c := make(chan bool)
	cc.reloadConsumers = append(cc.reloadConsumers, c)

	return c
}

// WatchConfigFileChanges starts watching for configuration file changes
// and attempts reloading the config when they happen
func (cc *CanonicalConfig) WatchConfigFileChanges() {
	cc.logger.Debugw("Starting to watch user config file for changes", "path", cc.path)

	const (
		minTimeBetweenReloadAttempts = time.Millisecond * 500
		delayBetweenEventAndReload   = time.Millisecond * 50
	)

	lastAttemptedReload := time.Now()

	// establish watch using viper as opposed to doing it ourselves, though our internal cooldown is still required
	cc.userConfig.WatchConfig()
	cc.userConfig.OnConfigChange(func(event fsnotify.Event) {

		// when we get a write event...
		if event.Op&fsnotify.Write == fsnotify.Write {

			now := time.Now()

			// ... check if it's not a duplicate (many editors will write to a file twice)
			if lastAttemptedReload.Add(minTimeBetweenReloadAttempts).Before(now) {

				// and attempt reload if appropriate
				cc.logger.Debugw("Config file modified, attempting reload", "event", event)

				// wait a bit to let the editor actually flush the new file contents to disk
				<-time.After(delayBetweenEventAndReload)

				if err := cc.Load(); err != nil {
					cc.logger.Warnw("Failed to reload config file", "error", err)
				} else {
					cc.logger.Info("Reloaded config successfully")
					cc.onConfigReloaded()
				}

				// don't forget to update the time
				lastAttemptedReload = now
			}
		}
	})

	// wait till they stop us
	<-cc.stopWatcherChannel
	cc.logger.Debug("Stopping user config file watcher")
	cc.userConfig.OnConfigChange(nil)
}

// StopWatchingConfigFile signals our filesystem watcher to stop
func (cc *CanonicalConfig) StopWatchingConfigFile() {
	cc.stopWatcherChannel <- true

	cc.closeReloadChannels()
}

func (cc *CanonicalConfig) closeReloadChannels() {
	for _, ch := range cc.reloadConsumers {
		close(ch)
	}
	cc.reloadConsumers = nil
	cc.logger.Debug("Closed all config reload channels")
}

func (cc *CanonicalConfig) populateFromViper() {
	cc.Patterns = PatternSet{
		IncludeNames:        cleanPatterns(cc.userConfig.GetStringSlice(configKeyIncludeNames)),
		IncludeDescriptions: cleanPatterns(cc.userConfig.GetStringSlice(configKeyIncludeDescriptions)),
		ExcludeNames:        cleanPatterns(cc.userConfig.GetStringSlice(configKeyExcludeNames)),
		ExcludeDescriptions: cleanPatterns(cc.userConfig.GetStringSlice(configKeyExcludeDescriptions)),
	}

	cc.logger.Debug("Populated config fields from viper")
}

// cleanPatterns drops empty strings, which YAML lists pick up easily from
// trailing dashes
func cleanPatterns(patterns []string) []string {
	return funk.FilterString(patterns, func(s string) bool {
		return s != ""
	})
}

func (cc *CanonicalConfig) onConfigReloaded() {
	cc.logger.Debug("Notifying consumers about configuration reload")

	for _, consumer := range cc.reloadConsumers {
		select {
		case consumer <- true:
		default:
			// consumer is busy, skip
		}
	}
}
