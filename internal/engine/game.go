package engine

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	log "github.com/sirupsen/logrus"

	"sound-mixer-engine/internal/audio"
	"sound-mixer-engine/internal/filesystem"
	"sound-mixer-engine/internal/input"
	"sound-mixer-engine/internal/script"
	"sound-mixer-engine/internal/settings"
)

// volumeStep is the change applied by one volume key press
const volumeStep = 0.1

// Game is the mixer host: it owns the subsystems and drives them from the ebiten loop
type Game struct {
	audio      *audio.Manager
	input      *input.Manager
	filesystem *filesystem.Manager
	script     *script.Engine
	settings   *settings.Manager
	codec      settings.Codec

	catalog *audio.Catalog
	store   *audio.Store
	set     *audio.Set

	configPath   string
	screenWidth  int
	screenHeight int

	selected    int
	status      string
	initialized bool
}

// NewGame creates a new mixer host reading its configuration from configPath
func NewGame(configPath string) *Game {
	return &Game{
		configPath:   configPath,
		screenWidth:  800,
		screenHeight: 600,
	}
}

// Init initializes all subsystems
func (g *Game) Init() error {
	var err error

	g.settings = settings.NewManager(g.configPath)
	config := g.settings.GetConfig()
	if err = g.settings.Load(); err != nil {
		log.Printf("Warning: failed to load settings, using defaults: %v", err)
		config = settings.DefaultConfig()
	}
	configureLogging(config)

	g.screenWidth = config.ScreenWidth
	g.screenHeight = config.ScreenHeight

	g.filesystem = filesystem.NewManager(config.AssetsPath)
	if err = g.filesystem.Init(); err != nil {
		return fmt.Errorf("failed to initialize filesystem: %w", err)
	}

	g.audio = audio.NewManager(g.filesystem)
	if err = g.audio.Init(); err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}

	g.codec, err = settings.OpenCodec(context.Background(), config)
	if err != nil {
		return fmt.Errorf("failed to open volume settings: %w", err)
	}

	g.catalog = audio.DefaultCatalog()
	g.store = audio.NewStore()
	if err = g.store.Load(g.codec); err != nil {
		var loadErr *audio.LoadError
		if !errors.As(err, &loadErr) {
			return err
		}
		log.WithError(err).Warn("Using default volumes")
	}

	var opts []audio.SetOption
	if config.ClampVolumes {
		opts = append(opts, audio.WithVolumeRange(audio.UnitRange))
	}
	g.set = audio.NewSet(g.catalog, g.store, g.audio, g.catalog.IDs(), opts...)

	g.input = input.NewManager()

	g.script = script.NewEngine(g.set, g.save)
	if config.StartupScript != "" {
		if err = g.script.LoadFile(g.filesystem, config.StartupScript); err != nil {
			log.WithError(err).Warn("Startup script not loaded")
		}
	}
	g.script.Start()

	g.initialized = true
	log.WithFields(log.Fields{
		"sounds":  g.set.Len(),
		"backend": config.Backend,
	}).Info("Sound mixer initialized")
	return nil
}

func configureLogging(config *settings.Config) {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		log.Printf("Warning: unknown log level %q, keeping %s", config.LogLevel, log.GetLevel())
		return
	}
	if config.DebugMode {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

func (g *Game) save() error {
	return g.store.Save(g.codec)
}

// selectedID returns the sound under the cursor, or PickSound for an empty set
func (g *Game) selectedID() audio.SoundID {
	ids := g.set.IDs()
	if len(ids) == 0 {
		return audio.PickSound
	}
	return ids[g.selected%len(ids)]
}

// handle applies one input event to the mixer
func (g *Game) handle(e input.Event) {
	n := g.set.Len()
	if n == 0 {
		return
	}

	switch e.Action {
	case input.ActionSelect:
		if e.Index >= n {
			return
		}
		g.selected = e.Index
		g.set.Toggle(g.selectedID())
	case input.ActionSelectNext:
		g.selected = (g.selected + 1) % n
	case input.ActionSelectPrev:
		g.selected = (g.selected + n - 1) % n
	case input.ActionToggle:
		g.set.Toggle(g.selectedID())
	case input.ActionLoop:
		g.set.ToggleLooping(g.selectedID())
	case input.ActionVolumeUp, input.ActionVolumeDown:
		id := g.selectedID()
		inst, ok := g.set.Get(id)
		if !ok {
			return
		}
		g.set.SetVolume(step(inst.SelfVolume(), e.Action == input.ActionVolumeUp), id)
	case input.ActionMasterUp, input.ActionMasterDown:
		g.set.SetMasterVolume(step(g.store.Master(), e.Action == input.ActionMasterUp))
	case input.ActionPlayAll:
		g.set.PlayAll()
	case input.ActionStopAll:
		g.set.StopAll()
	case input.ActionSave:
		if err := g.save(); err != nil {
			log.WithError(err).Error("Failed to save volume settings")
			g.status = "save failed"
		} else {
			g.status = "saved"
		}
	case input.ActionMute:
		if g.audio != nil {
			g.audio.SetMuted(!g.audio.IsMuted())
		}
	}
}

// step moves v by one volume step inside [0, 1]. Values above 1 set from a
// script or soundctl are kept on the way up and reduced on the way down.
func step(v float64, up bool) float64 {
	if up {
		if v >= 1 {
			return v
		}
		return math.Min(1, math.Round((v+volumeStep)*100)/100)
	}
	return math.Max(0, math.Round((v-volumeStep)*100)/100)
}

// Update updates the mixer state
func (g *Game) Update() error {
	if !g.initialized {
		return nil
	}

	g.input.Update()
	for _, e := range g.input.Events() {
		g.handle(e)
	}

	if err := g.script.Update(); err != nil {
		return err
	}

	return g.audio.Update()
}

// Draw renders the status overlay
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})
	if !g.initialized {
		ebitenutil.DebugPrint(screen, "Initializing...")
		return
	}
	ebitenutil.DebugPrint(screen, g.overlay())
}

func (g *Game) overlay() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f  master: %.2f", ebiten.ActualFPS(), g.store.Master())
	if g.audio != nil {
		fmt.Fprintf(&b, "  pcm: %.1f MiB", float64(g.audio.GetMemoryUsage())/(1<<20))
		if g.audio.IsMuted() {
			b.WriteString("  [muted]")
		}
	}
	if g.status != "" {
		fmt.Fprintf(&b, "  (%s)", g.status)
	}
	b.WriteString("\n\n")

	for i, id := range g.set.IDs() {
		inst, _ := g.set.Get(id)
		cursor := " "
		if id == g.selectedID() {
			cursor = ">"
		}
		state := "stopped"
		if inst.Playing() {
			state = "playing"
		}
		if inst.Looping() {
			state += " loop"
		}
		def := inst.Definition()
		fmt.Fprintf(&b, "%s %d %-10s self %.2f  %-11s %.2f  = %.2f  %s\n",
			cursor, i+1, id, inst.SelfVolume(), def.Tag, inst.TagVolume(), inst.Effective(), state)
	}

	b.WriteString("\n1-9 toggle  <- -> select  space toggle  L loop  PgUp/PgDn volume\n")
	b.WriteString("Up/Down master  P play all  Esc stop all  S save  M mute")
	return b.String()
}

// Layout returns the game's screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.screenWidth, g.screenHeight
}

// Shutdown saves the volume snapshot and releases every subsystem
func (g *Game) Shutdown() error {
	if !g.initialized {
		return nil
	}
	g.initialized = false
	g.script.Stop()

	var errs []error
	if err := g.save(); err != nil {
		errs = append(errs, fmt.Errorf("save volume settings: %w", err))
	}
	if err := g.set.Close(); err != nil {
		errs = append(errs, err)
	}
	g.audio.Cleanup()
	if err := g.codec.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := g.filesystem.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Run starts the mixer
func (g *Game) Run() error {
	if err := g.Init(); err != nil {
		return err
	}

	ebiten.SetWindowSize(g.screenWidth, g.screenHeight)
	ebiten.SetWindowTitle("Sound Mixer")
	ebiten.SetWindowResizable(false)

	runErr := ebiten.RunGame(g)
	return errors.Join(runErr, g.Shutdown())
}
