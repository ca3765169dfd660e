package platform

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/gammazero/deque"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/datenkollektiv/rustyfarian-rgb-clock/clock"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/config"
	"github.com/datenkollektiv/rustyfarian-rgb-clock/logging"
)

// Geometry of the simulated clock face. The twelve positions sit on an
// ellipse so the ring looks round in a character grid.
const (
	faceRows    = 11
	faceCols    = 24
	faceCenterX = 12
	faceCenterY = 5
	faceRadiusX = 10.0
	faceRadiusY = 5.0
)

const (
	maxActivityHistory = 500
	activityWidth      = 60
)

// facePositions maps each ring index to its cell in the face grid,
// twelve o'clock on top, then clockwise.
var facePositions = computeFacePositions()

func computeFacePositions() [clock.NumLeds][2]int {
	var pos [clock.NumLeds][2]int
	for i := 0; i < clock.NumLeds; i++ {
		// Ring index i is the (i+1) o'clock position.
		angle := float64(i+1) * math.Pi / 6
		col := faceCenterX + int(math.Round(faceRadiusX*math.Sin(angle)))
		row := faceCenterY - int(math.Round(faceRadiusY*math.Cos(angle)))
		pos[i] = [2]int{row, col}
	}
	return pos
}

// TUIPlatform simulates the ring in the terminal: a clock face pane, a
// strip charting recent display activity, and the log output.
type TUIPlatform struct {
	conf         *config.Config
	tviewapp     *tview.Application
	intro        *tview.TextView
	faceView     *tview.TextView
	activityView *tview.TextView
	logView      *tview.TextView
	ossignalChan chan os.Signal
	logFlushOnce sync.Once
	readyChan    chan bool

	mu       sync.Mutex
	frame    clock.Frame
	activity *deque.Deque[int]
}

// NewTUIPlatform creates the simulation platform. Pressed keys translate
// into signals on ossignalchan, the same ones the real deployment gets
// from the operating system.
func NewTUIPlatform(conf *config.Config, ossignalchan chan os.Signal) *TUIPlatform {
	inst := &TUIPlatform{
		conf:         conf,
		ossignalChan: ossignalchan,
		readyChan:    make(chan bool),
		activity:     new(deque.Deque[int]),
	}
	inst.activity.Grow(maxActivityHistory)
	return inst
}

func (s *TUIPlatform) Ready() <-chan bool {
	return s.readyChan
}

func (s *TUIPlatform) Start() error {
	s.initSimulationTUI(s.ossignalChan)
	return nil
}

func (s *TUIPlatform) Stop() {
	if s.tviewapp != nil {
		s.tviewapp.Stop()
	}
}

// Display stores the frame and schedules a redraw. Frames arriving
// before the TUI has drawn itself for the first time are kept but not
// drawn; the next frame after readiness catches up.
func (s *TUIPlatform) Display(frame clock.Frame) error {
	s.mu.Lock()
	s.frame = frame
	if s.activity.Len() == maxActivityHistory {
		s.activity.PopFront()
	}
	s.activity.PushBack(frameLuminance(frame))

	faceText := s.renderFace()
	stripLine, statsLine := s.renderActivity()
	s.mu.Unlock()

	select {
	case <-s.readyChan:
	default:
		return nil
	}

	s.tviewapp.QueueUpdateDraw(func() {
		s.faceView.SetText(faceText)
		s.activityView.SetText(stripLine + "\n" + statsLine)
	})
	return nil
}

// getIntroText generates the text for the top info pane.
func (s *TUIPlatform) getIntroText() string {
	line1 := fmt.Sprintf("The ring follows time updates on MQTT topic [#ffff00]%s[-]", s.conf.MQTT.TickTopic)
	line2 := `Publish [blue]{"hour": h, "minute": m, "second": s}[-] to move the hands`
	line3 := "Hit [#ff0000]q[-] to exit, [#ff0000]r[-] to reload, [#ff0000]Up/Down[-] to scroll logs"

	return fmt.Sprintf("%s\n%s\n%s", line1, line2, line3)
}

func (s *TUIPlatform) initSimulationTUI(ossignal chan os.Signal) {
	s.tviewapp = tview.NewApplication()

	// --- Intro Pane ---
	s.intro = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.intro.SetText(s.getIntroText())
	s.intro.SetBorder(true).SetTitle(" RGB Clock Simulation ").SetTitleColor(tcell.ColorLightBlue)
	s.intro.SetBackgroundColor(tcell.NewRGBColor(20, 20, 20))

	// --- Clock Face Pane ---
	s.faceView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.faceView.SetBorder(true)
	s.faceView.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))
	s.faceView.SetText(s.renderFace())

	// --- Activity Pane ---
	s.activityView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	s.activityView.SetBorder(true).SetTitle(" Activity ").SetTitleColor(tcell.ColorLightBlue)
	s.activityView.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))

	// --- Log Pane ---
	s.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			s.logView.ScrollToEnd()
			s.tviewapp.Draw()
		})
	s.logView.SetBorder(true).SetTitle(" Logs ").SetTitleColor(tcell.ColorLightBlue)
	s.logView.SetBackgroundColor(tcell.NewRGBColor(40, 40, 40))

	// --- Layout ---
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.intro, 5, 0, false).
		AddItem(s.faceView, faceRows+2, 0, false).
		AddItem(s.activityView, 4, 0, false).
		AddItem(s.logView, 0, 1, true) // Flexible height, gets focus

	// --- Flush logs after first draw ---
	s.tviewapp.SetAfterDrawFunc(func(screen tcell.Screen) {
		s.logFlushOnce.Do(func() {
			logWriter := tview.ANSIWriter(s.logView)
			logging.SetOutput(logWriter)
			close(s.readyChan) // Signal that the TUI is ready
		})
	})

	// --- Input Handling ---
	s.tviewapp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			s.tviewapp.Stop()
			ossignal <- os.Interrupt
			return nil
		case tcell.KeyRune:
			switch string(event.Rune()) {
			case "q", "Q":
				ossignal <- os.Interrupt
				return nil
			case "r", "R":
				ossignal <- syscall.SIGHUP
				return nil
			}
		case tcell.KeyUp:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row-1, col)
			return nil
		case tcell.KeyDown:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row+1, col)
			return nil
		}
		return event
	})

	// --- Start TUI ---
	go func() {
		if err := s.tviewapp.SetRoot(layout, true).Run(); err != nil {
			slog.Error("Error running TUI", "error", err)
			s.ossignalChan <- os.Interrupt
		}
	}()
}

// renderFace draws the ring as a clock face, one colored glyph per LED.
// Callers must hold s.mu.
func (s *TUIPlatform) renderFace() string {
	var grid [faceRows][faceCols]string
	for row := range grid {
		for col := range grid[row] {
			grid[row][col] = " "
		}
	}

	for i, led := range s.frame {
		row, col := facePositions[i][0], facePositions[i][1]
		if led.IsEmpty() {
			grid[row][col] = "·"
		} else {
			grid[row][col] = scaledColor(led) + ledGlyph(ledLuminance(led)) + "[-]"
		}
	}

	var buf strings.Builder
	for row := range grid {
		buf.WriteString(strings.Join(grid[row][:], ""))
		if row < faceRows-1 {
			buf.WriteString("\n")
		}
	}
	return buf.String()
}

// renderActivity draws the luminance history strip and a stats line.
// Callers must hold s.mu.
func (s *TUIPlatform) renderActivity() (string, string) {
	n := s.activity.Len()
	if n == 0 {
		return " [white]waiting for frames[-]", ""
	}

	first := 0
	if n > activityWidth {
		first = n - activityWidth
	}
	var strip strings.Builder
	strip.WriteString(" [white]")
	for i := first; i < n; i++ {
		strip.WriteString(activityGlyph(s.activity.At(i)))
	}
	strip.WriteString("[-]")

	data := make([]int, n)
	for i := 0; i < n; i++ {
		data[i] = s.activity.At(i)
	}
	stats := calculateStats(data)
	statsLine := fmt.Sprintf(" [yellow]luminance[-] min %3d  mean %5.1f  max %3d  stddev %5.1f",
		stats.min, stats.mean, stats.max, stats.stdDev)
	return strip.String(), statsLine
}

// ledGlyph picks a shading block for the luminance of a single LED.
func ledGlyph(value int) string {
	switch {
	case value <= 8:
		return "░"
	case value <= 16:
		return "▒"
	case value <= 32:
		return "▓"
	default:
		return "█"
	}
}

// activityGlyph picks a bar for a mean frame luminance.
func activityGlyph(value int) string {
	bars := []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}
	idx := value * len(bars) / 256
	if idx >= len(bars) {
		idx = len(bars) - 1
	}
	return bars[idx]
}

// ledLuminance is the mean of the three color channels.
func ledLuminance(led clock.Led) int {
	return (int(led.Red) + int(led.Green) + int(led.Blue)) / 3
}

// frameLuminance is the mean LED luminance over the whole frame.
func frameLuminance(frame clock.Frame) int {
	sum := 0
	for _, led := range frame {
		sum += ledLuminance(led)
	}
	return sum / clock.NumLeds
}

// scaledColor renders the LED color as a tview color tag, scaled up so
// even dim colors stay distinguishable on screen.
func scaledColor(led clock.Led) string {
	maxColor := math.Max(float64(led.Red), math.Max(float64(led.Green), float64(led.Blue)))
	if maxColor == 0 {
		return "[#000000]"
	}
	factor := 255 / maxColor
	red := math.Min(float64(led.Red)*factor, 255)
	green := math.Min(float64(led.Green)*factor, 255)
	blue := math.Min(float64(led.Blue)*factor, 255)

	const epsilon = 1e-9

	return fmt.Sprintf("[#%02x%02x%02x]", byte(math.Round(red+epsilon)), byte(math.Round(green+epsilon)), byte(math.Round(blue+epsilon)))
}
