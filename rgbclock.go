// rgb-clock drives a ring of twelve RGB LEDs as an analog clock face.
// Time updates arrive as JSON payloads on an MQTT topic; between process
// start and the first update the ring plays a configurable animation.
// The ring is either real LED hardware on a Raspberry Pi SPI bus or a
// terminal simulation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/animation"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/chime"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/clock"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/logging"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/mqtt"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/night"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/platform"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/util"
)

// App holds the life-cycle state of the application. Everything except
// ossignal and ticks is torn down and rebuilt on a config reload.
type App struct {
	ossignal chan os.Signal
	cfile    string
	realHW   bool

	conf     *config.Config
	platform platform.Platform
	clk      *clock.Clock
	seq      *animation.Sequencer
	broker   *mqtt.Client
	dimmer   *night.Dimmer
	chimes   *chime.Player
	webSrv   *http.Server

	ticks      *util.AtomicEvent[clock.LocalTime]
	stopsignal chan struct{}
	shutdownWg sync.WaitGroup
}

// NewApp creates a new instance of the main application.
func NewApp(ossignal chan os.Signal) *App {
	return &App{
		ossignal: ossignal,
		ticks:    util.NewAtomicEvent[clock.LocalTime](),
	}
}

func main() {
	cfile := flag.String("config", "config.yml", "Path to the config file")
	realp := flag.Bool("real", false, "Set to true if program runs on the real hardware")
	flag.Parse()

	ossignal := make(chan os.Signal, 1)
	app := NewApp(ossignal)
	app.cfile = filepath.Clean(*cfile)
	app.realHW = *realp

	signal.Notify(ossignal, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM)
	app.Run()
}

// Run starts the application and blocks until a termination signal
// arrives. SIGHUP tears everything down and starts over with the config
// file as it is on disk at that moment; the TUI "r" key and the config
// file watcher both feed that path.
func (a *App) Run() {
	a.initialise()

	if watcher := a.watchConfig(); watcher != nil {
		defer watcher.Close()
	}

	for sig := range a.ossignal {
		if sig == syscall.SIGHUP {
			if _, err := config.ReadConfig(a.cfile); err != nil {
				slog.Error("Ignoring reload, config file is invalid", "error", err)
				continue
			}
			slog.Info("Reloading configuration...")
			a.shutdown()
			a.initialise()
			continue
		}
		slog.Info("Received signal", "signal", sig)
		a.shutdown()
		return
	}
}

// initialise brings up the full stack from the config file: platform,
// clock, startup animation, optional night dimmer, chime and web UI, and
// finally the MQTT subscription. Failures at this stage are fatal, there
// is nothing sensible to fall back to.
func (a *App) initialise() {
	conf, err := config.ReadConfig(a.cfile)
	if err != nil {
		slog.Error("Failed to read config file", "error", err)
		os.Exit(1)
	}
	a.conf = conf

	profile := conf.Logging.HW
	if !a.realHW {
		profile = conf.Logging.TUI
	}
	// In TUI mode log output is buffered until the log pane exists.
	if err := logging.Init(!a.realHW, profile.Level, profile.Format, profile.File != "", profile.File); err != nil {
		slog.Error("Failed to initialise logging", "error", err)
		os.Exit(1)
	}
	slog.Info("Starting rgb-clock...", "config", a.cfile, "hardware", a.realHW)

	a.platform = platform.NewPlatform(conf, a.realHW, a.ossignal)
	if err := a.platform.Start(); err != nil {
		slog.Error("Failed to start platform", "error", err)
		logging.Close()
		os.Exit(1)
	}
	<-a.platform.Ready()

	a.clk = clock.New(a.platform)
	a.clk.SetHandColors(toLed(conf.Ring.HourRGB), toLed(conf.Ring.MinuteRGB), toLed(conf.Ring.SecondRGB))
	a.clk.SetBrightness(byte(conf.Ring.Brightness))

	a.seq = animation.NewSequencer(a.clk, animation.NewStyle(conf.Animation))
	a.seq.Start()

	if conf.NightDimmer.Enabled {
		a.dimmer = night.NewDimmer(a.clk, conf.NightDimmer, byte(conf.Ring.Brightness))
		a.dimmer.Start()
	}
	if conf.Chime.Enabled {
		a.chimes = chime.NewPlayer(conf.Chime)
	}
	if conf.WebUI.Enabled {
		a.startWebServer()
	}

	a.stopsignal = make(chan struct{})
	a.shutdownWg.Add(1)
	go a.tickLoop()

	a.broker = mqtt.New(conf.MQTT, a.handleTick)
	if err := a.broker.Connect(); err != nil {
		slog.Error("Failed to connect to MQTT broker", "error", err)
		logging.Close()
		os.Exit(1)
	}
	if err := a.broker.PublishStatus("online"); err != nil {
		slog.Warn("Failed to publish startup status", "error", err)
	}

	slog.Info("Setup complete, waiting for time updates", "topic", conf.MQTT.TickTopic)
}

// shutdown unwinds initialise in reverse order. The broker goes first so
// no tick handler runs into half-dismantled state, the ring is blanked
// last so a stopped clock never shows a stale time.
func (a *App) shutdown() {
	slog.Info("Shutting down...")

	a.broker.Close()

	a.seq.Cancel()
	<-a.seq.Done()

	if a.dimmer != nil {
		a.dimmer.Stop()
		a.dimmer = nil
	}
	if a.chimes != nil {
		a.chimes.Close()
		a.chimes = nil
	}
	if a.webSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.webSrv.Shutdown(ctx); err != nil {
			slog.Warn("Web server shutdown failed", "error", err)
		}
		cancel()
		a.webSrv = nil
	}

	close(a.stopsignal)
	a.shutdownWg.Wait()

	a.clk.Clear()
	if err := a.clk.Redraw(); err != nil {
		slog.Warn("Failed to blank the ring", "error", err)
	}

	if !a.realHW {
		// The log pane is about to disappear; hold messages back until
		// either a new TUI flushes them or logging.Close writes them out.
		logging.BufferOutput()
	}
	a.platform.Stop()
	logging.Close()
}

// handleTick runs on the MQTT client goroutine for every message on the
// tick topic.
func (a *App) handleTick(payload []byte) {
	// The first real time update ends the startup animation, whatever
	// the payload turns out to contain.
	a.seq.Cancel()

	t, err := clock.ParseLocalTime(payload)
	if err != nil {
		slog.Error("Ignoring tick", "error", err, "payload", fmt.Sprintf("%q", payload))
		return
	}
	a.ticks.Send(t)
}

// tickLoop renders every received time update until stopsignal closes.
// Ticks pass through an AtomicEvent, so a burst of updates collapses to
// the newest one instead of queueing up behind a slow display.
func (a *App) tickLoop() {
	defer a.shutdownWg.Done()

	first := true
	for {
		select {
		case <-a.stopsignal:
			return
		case <-a.ticks.Channel():
			if first {
				// Let the cancelled animation finish its in-flight
				// frame before the first real render.
				<-a.seq.Done()
				first = false
			}
			t := a.ticks.Value()
			if err := a.clk.SetTime(t); err != nil {
				slog.Error("Failed to display time", "time", t, "error", err)
			}
			if a.chimes != nil && t.Minute == 0 && t.Second == 0 {
				a.chimes.Strike(t.Hour)
			}
		}
	}
}

// watchConfig reloads the application whenever the config file changes
// on disk, which is how web UI edits take effect. Returns nil when
// watching is unavailable; the clock works without it.
func (a *App) watchConfig() *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("Config file watching disabled", "error", err)
		return nil
	}
	// Watch the directory, not the file: editors replace the file on
	// save and a watch on the old inode would go stale.
	if err := watcher.Add(filepath.Dir(a.cfile)); err != nil {
		slog.Warn("Config file watching disabled", "error", err)
		watcher.Close()
		return nil
	}

	go func() {
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != a.cfile || !event.Op.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				// A single save produces a burst of events; only the
				// last one triggers the reload.
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					slog.Info("Config file changed on disk", "file", a.cfile)
					select {
					case a.ossignal <- syscall.SIGHUP:
					default:
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Config watcher error", "error", err)
			}
		}
	}()
	return watcher
}

func (a *App) startWebServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", config.ConfigHandler(a.cfile))
	a.webSrv = &http.Server{Addr: a.conf.WebUI.Listen, Handler: mux}

	srv := a.webSrv
	go func() {
		slog.Info("Web UI listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Web server failed", "error", err)
		}
	}()
}

func toLed(rgb []int) clock.Led {
	return clock.Led{Red: byte(rgb[0]), Green: byte(rgb[1]), Blue: byte(rgb[2])}
}
