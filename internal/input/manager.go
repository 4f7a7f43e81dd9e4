package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a mixer command bound to a key
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionSelectNext
	ActionSelectPrev
	ActionToggle
	ActionLoop
	ActionVolumeUp
	ActionVolumeDown
	ActionMasterUp
	ActionMasterDown
	ActionPlayAll
	ActionStopAll
	ActionSave
	ActionMute
)

var actionNames = map[Action]string{
	ActionNone:       "None",
	ActionSelect:     "Select",
	ActionSelectNext: "SelectNext",
	ActionSelectPrev: "SelectPrev",
	ActionToggle:     "Toggle",
	ActionLoop:       "Loop",
	ActionVolumeUp:   "VolumeUp",
	ActionVolumeDown: "VolumeDown",
	ActionMasterUp:   "MasterUp",
	ActionMasterDown: "MasterDown",
	ActionPlayAll:    "PlayAll",
	ActionStopAll:    "StopAll",
	ActionSave:       "Save",
	ActionMute:       "Mute",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// Event is one triggered action. Index is the zero-based slot for ActionSelect.
type Event struct {
	Action Action
	Index  int
}

// Key repeat timing in ticks for held volume keys
const (
	repeatDelay    = 30
	repeatInterval = 6
)

// Bindings maps keys to actions
var Bindings = map[ebiten.Key]Action{
	ebiten.KeyArrowRight: ActionSelectNext,
	ebiten.KeyArrowLeft:  ActionSelectPrev,
	ebiten.KeySpace:      ActionToggle,
	ebiten.KeyEnter:      ActionToggle,
	ebiten.KeyL:          ActionLoop,
	ebiten.KeyPageUp:     ActionVolumeUp,
	ebiten.KeyPageDown:   ActionVolumeDown,
	ebiten.KeyArrowUp:    ActionMasterUp,
	ebiten.KeyArrowDown:  ActionMasterDown,
	ebiten.KeyP:          ActionPlayAll,
	ebiten.KeyEscape:     ActionStopAll,
	ebiten.KeyS:          ActionSave,
	ebiten.KeyM:          ActionMute,
}

// digitKeys select slots 0..8
var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// Manager turns keyboard state into mixer events once per frame
type Manager struct {
	keys     map[ebiten.Key]int
	bindings map[ebiten.Key]Action
	events   []Event
}

// NewManager creates a new input manager with the default bindings
func NewManager() *Manager {
	return &Manager{
		keys:     make(map[ebiten.Key]int),
		bindings: Bindings,
	}
}

// Update samples the keyboard. Call once per tick.
func (m *Manager) Update() {
	m.update(inpututil.KeyPressDuration)
}

// update takes the press duration in ticks for each key (0 when released)
func (m *Manager) update(duration func(ebiten.Key) int) {
	m.events = m.events[:0]

	for i, key := range digitKeys {
		d := duration(key)
		m.keys[key] = d
		if d == 1 {
			m.events = append(m.events, Event{Action: ActionSelect, Index: i})
		}
	}

	for key, action := range m.bindings {
		d := duration(key)
		m.keys[key] = d
		if d == 1 || (repeats(action) && d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0) {
			m.events = append(m.events, Event{Action: action})
		}
	}
}

func repeats(a Action) bool {
	switch a {
	case ActionVolumeUp, ActionVolumeDown, ActionMasterUp, ActionMasterDown:
		return true
	}
	return false
}

// Events returns the events triggered during the last Update
func (m *Manager) Events() []Event {
	return m.events
}

// IsKeyPressed returns true if the specified key is currently pressed
func (m *Manager) IsKeyPressed(key ebiten.Key) bool {
	return m.keys[key] > 0
}

// IsKeyJustPressed returns true if the specified key was just pressed this frame
func (m *Manager) IsKeyJustPressed(key ebiten.Key) bool {
	return m.keys[key] == 1
}
