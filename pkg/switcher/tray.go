package switcher

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/getlantern/systray"

	"github.com/aswild/pulse-switcher/pkg/switcher/util"
)

func (s *Switcher) initializeTray(onDone func()) {
	logger := s.logger.Named("tray")

	onReady := func() {
		logger.Debug("Tray instance ready")

		systray.SetTitle("pulse-switcher")
		systray.SetTooltip("Cycle the default audio output device")

		nextDevice := systray.AddMenuItem("Next output device", "Switch the default output to the next matching device")
		editConfig := systray.AddMenuItem("Edit configuration", "Open the config file in your editor")

		if s.version != "" {
			systray.AddSeparator()
			versionInfo := systray.AddMenuItem(s.version, "")
			versionInfo.Disable()
		}

		systray.AddSeparator()
		quit := systray.AddMenuItem("Quit", "Stop pulse-switcher and quit")

		// wait on things to happen
		go func() {
			for {
				select {

				// quit
				case <-quit.ClickedCh:
					logger.Info("Quit menu item clicked, stopping")

					s.signalStop()

				// cycle to the next device
				case <-nextDevice.ClickedCh:
					logger.Info("Next device menu item clicked, cycling default output")

					if err := s.Next(); err != nil {
						if errors.Is(err, ErrNoEligibleDevice) {
							s.notifier.Notify("No matching devices!",
								"Adjust the include/exclude patterns in the configuration.")
						}
						logger.Warnw("Failed to cycle default device", "error", err)
					}

				// edit config
				case <-editConfig.ClickedCh:
					logger.Info("Edit config menu item clicked, opening config for editing")

					// the default config file may not exist yet, make sure its directory does
					if err := util.EnsureDirExists(filepath.Dir(s.config.Path())); err != nil {
						logger.Warnw("Failed to create config directory", "error", err)
						continue
					}

					editor := os.Getenv("EDITOR")
					if editor == "" {
						// xdg-open will open with the default text editor
						editor = "xdg-open"
					}

					if err := util.OpenExternal(logger, editor, s.config.Path()); err != nil {
						logger.Warnw("Failed to open config file for editing", "error", err)
					}
				}
			}
		}()

		// actually start the main runtime
		onDone()
	}

	onExit := func() {
		logger.Debug("Tray exited")
	}

	// start the tray icon
	logger.Debug("Running in tray")
	systray.Run(onReady, onExit)
}

func (s *Switcher) stopTray() {
	s.logger.Debug("Quitting tray")
	systray.Quit()
}
