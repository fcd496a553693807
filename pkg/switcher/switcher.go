// Package switcher cycles the PulseAudio default sink through a filtered,
// ordered subset of the available output devices.
package switcher

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/aswild/pulse-switcher/pkg/switcher/util"
)

// Options control how a Switcher instance is assembled.
type Options struct {
	// ConfigPath overrides the default XDG config file location.
	ConfigPath string

	// Notify enables desktop toast notifications when the default device
	// changes. Tray mode turns this on regardless.
	Notify bool
}

// Switcher is the main entity managing access to all sub-components
type Switcher struct {
	logger   *zap.SugaredLogger
	notifier Notifier
	config   *CanonicalConfig

	filter     *DeviceFilter
	filterLock sync.Mutex // guards filter against tray-mode reload swaps

	stopChannel chan bool
	version     string
	stopping    sync.Once
}

// New creates a Switcher instance
func New(logger *zap.SugaredLogger, opts Options) (*Switcher, error) {
	logger = logger.Named("switcher")

	var notifier Notifier = noopNotifier{}
	if opts.Notify {
		toast, err := NewToastNotifier(logger)
		if err != nil {
			logger.Errorw("Failed to create ToastNotifier", "error", err)
			return nil, fmt.Errorf("create new ToastNotifier: %w", err)
		}
		notifier = toast
	}

	config, err := NewConfig(logger, opts.ConfigPath)
	if err != nil {
		logger.Errorw("Failed to create Config", "error", err)
		return nil, fmt.Errorf("create new Config: %w", err)
	}

	s := &Switcher{
		logger:      logger,
		notifier:    notifier,
		config:      config,
		stopChannel: make(chan bool),
	}

	logger.Debug("Created switcher instance")

	return s, nil
}

// SetVersion causes the switcher to add a version string to its tray menu if
// called before RunTray
func (s *Switcher) SetVersion(version string) {
	s.version = version
}

// Initialize loads the configuration and compiles the device filter. Pattern
// compile errors surface here, before any device is evaluated.
func (s *Switcher) Initialize() error {
	if err := s.config.Load(); err != nil {
		return err
	}

	return s.reloadFilter()
}

func (s *Switcher) reloadFilter() error {
	filter, err := NewDeviceFilter(RegexpCompiler{}, s.config.Patterns)
	if err != nil {
		return fmt.Errorf("compile device patterns: %w", err)
	}

	s.filterLock.Lock()
	s.filter = filter
	s.filterLock.Unlock()

	return nil
}

// currentFilter returns the active compiled filter. In tray mode the config
// reload goroutine swaps the filter while the menu goroutine cycles with it.
func (s *Switcher) currentFilter() *DeviceFilter {
	s.filterLock.Lock()
	defer s.filterLock.Unlock()

	return s.filter
}

// List writes all devices, the devices matching the configured patterns, and
// the current default device to w.
func (s *Switcher) List(w io.Writer) error {
	client, err := NewPulseClient(s.logger)
	if err != nil {
		return err
	}
	defer client.Close()

	devices, err := client.Sinks()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}

	defaultName, err := client.DefaultSinkName()
	if err != nil {
		return fmt.Errorf("get default device: %w", err)
	}

	fmt.Fprintln(w, "All devices:")
	for _, dev := range devices {
		fmt.Fprintln(w, dev)
	}

	fmt.Fprintln(w, "\nMatching devices:")
	for _, dev := range FilterDevices(devices, s.currentFilter()) {
		fmt.Fprintln(w, dev)
	}

	for _, dev := range devices {
		if dev.Name == defaultName {
			fmt.Fprintf(w, "\nDefault device: %s\n", dev)
			return nil
		}
	}
	fmt.Fprintln(w, "\nDefault device: (none)")

	return nil
}

// Next performs one full cycle: enumerate devices, pick the next eligible one
// after the current default, and promote it. Returns ErrNoEligibleDevice when
// the patterns match nothing.
func (s *Switcher) Next() error {
	client, err := NewPulseClient(s.logger)
	if err != nil {
		return err
	}
	defer client.Close()

	return s.cycle(client)
}

func (s *Switcher) cycle(client *PulseClient) error {
	devices, err := client.Sinks()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}

	defaultName, err := client.DefaultSinkName()
	if err != nil {
		return fmt.Errorf("get default device: %w", err)
	}

	next, err := SelectNext(devices, defaultName, s.currentFilter())
	if err != nil {
		return err
	}

	s.logger.Infow("Setting default sink", "device", next.String())

	if err := client.SetDefaultSink(next.Name); err != nil {
		return fmt.Errorf("set default device: %w", err)
	}

	s.notifier.Notify("Default output changed", next.Description)

	return nil
}

// RunTray runs the switcher as a resident tray application until stopped.
func (s *Switcher) RunTray() {
	s.setupInterruptHandler()
	s.initializeTray(s.run)
}

func (s *Switcher) setupInterruptHandler() {
	interruptChannel := util.SetupCloseHandler()

	go func() {
		signal := <-interruptChannel
		s.logger.Debugw("Interrupted", "signal", signal)
		s.signalStop()
	}()
}

func (s *Switcher) run() {
	s.logger.Info("Run loop starting")

	// watch the config file for changes
	go s.config.WatchConfigFileChanges()

	s.setupOnConfigReload()

	// wait until stopped (gracefully)
	<-s.stopChannel
	s.logger.Debug("Stop channel signaled, terminating")

	if err := s.stop(); err != nil {
		s.logger.Warnw("Failed to stop switcher", "error", err)
		os.Exit(1)
	} else {
		os.Exit(0)
	}
}

func (s *Switcher) signalStop() {
	s.stopping.Do(func() {
		s.logger.Debug("Signalling stop channel")
		select {
		case s.stopChannel <- true:
		default:
			// channel already has a signal, ignore
		}
	})
}

func (s *Switcher) stop() error {
	s.logger.Info("Stopping")

	s.config.StopWatchingConfigFile()
	s.stopTray()

	// attempt to sync on exit - this won't necessarily work but can't harm
	s.logger.Sync()

	return nil
}

// setupOnConfigReload recompiles the device filter whenever the config file
// is reloaded, keeping the old filter when the new patterns don't compile
func (s *Switcher) setupOnConfigReload() {
	configReloadedChannel := s.config.SubscribeToChanges()

	go func() {
		for range configReloadedChannel {
			if err := s.reloadFilter(); err != nil {
				s.logger.Warnw("Failed to compile reloaded patterns", "error", err)
				s.notifier.Notify("Invalid configuration!",
					"Pattern changes were not applied, please check the config file.")
				continue
			}

			s.logger.Info("Applied reloaded pattern configuration")
		}
	}()
}
