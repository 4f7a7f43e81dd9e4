package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"sound-mixer-engine/internal/audio"
	"sound-mixer-engine/internal/filesystem"
)

// Event states
const (
	EventWait = iota
	EventRun
	EventEnd
)

// ErrUnknownCommand is returned for a command word the engine does not know
var ErrUnknownCommand = errors.New("unknown command")

// Target is the mixer surface scripts drive. *audio.Set satisfies it.
type Target interface {
	NameToID(name string) audio.SoundID
	Play(id audio.SoundID, offset time.Duration)
	Stop(id audio.SoundID)
	Toggle(id audio.SoundID)
	ToggleLooping(id audio.SoundID)
	PlayAll()
	StopAll()
	SetVolume(volume float64, id audio.SoundID)
	SetCategoryVolume(volume float64, tag audio.Tag)
	SetMasterVolume(volume float64)
}

var _ Target = (*audio.Set)(nil)

// Command is one parsed script line
type Command struct {
	Name string
	Args []string
	Line int
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Event schedules a command at an offset from Start
type Event struct {
	At      time.Duration
	State   int
	Command Command
	Err     error
}

// Engine runs mixer command scripts against a Target
type Engine struct {
	target    Target
	save      func() error
	events    []*Event
	running   bool
	startTime time.Time
	now       func() time.Time
	logger    log.FieldLogger
}

// NewEngine creates a script engine. save backs the "save" command and may be nil.
func NewEngine(target Target, save func() error) *Engine {
	return &Engine{
		target: target,
		save:   save,
		events: make([]*Event, 0),
		now:    time.Now,
		logger: log.StandardLogger(),
	}
}

// Start starts the timeline; events are measured from now
func (e *Engine) Start() {
	e.running = true
	e.startTime = e.now()
	log.Println("Script engine started")
}

// Stop pauses the timeline
func (e *Engine) Stop() {
	e.running = false
	log.Println("Script engine stopped")
}

// Parse reads a script. Each non-blank line is an optional "@<duration>"
// offset followed by a command and its arguments; "#" starts a comment.
func Parse(r io.Reader) ([]*Event, error) {
	var events []*Event
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		var at time.Duration
		if strings.HasPrefix(fields[0], "@") {
			d, err := time.ParseDuration(fields[0][1:])
			if err != nil || d < 0 {
				return nil, fmt.Errorf("line %d: invalid offset %q", line, fields[0])
			}
			at = d
			fields = fields[1:]
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: offset without command", line)
			}
		}

		events = append(events, &Event{
			At:    at,
			State: EventWait,
			Command: Command{
				Name: strings.ToLower(fields[0]),
				Args: fields[1:],
				Line: line,
			},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return events, nil
}

// Load parses r and appends its events to the timeline
func (e *Engine) Load(r io.Reader) error {
	events, err := Parse(r)
	if err != nil {
		return err
	}
	e.events = append(e.events, events...)
	log.Printf("Loaded %d script events", len(events))
	return nil
}

// LoadFile loads a script through the asset filesystem
func (e *Engine) LoadFile(fs *filesystem.Manager, name string) error {
	rc, err := fs.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open script %s: %w", name, err)
	}
	defer rc.Close()
	return e.Load(rc)
}

// Update fires every waiting event whose offset has passed. Failed commands
// are reported and do not stop the timeline.
func (e *Engine) Update() error {
	if !e.running {
		return nil
	}

	elapsed := e.now().Sub(e.startTime)
	for _, event := range e.events {
		if event.State != EventWait || event.At > elapsed {
			continue
		}
		event.State = EventRun
		if err := e.Exec(event.Command); err != nil {
			event.Err = err
			e.logger.WithFields(log.Fields{
				"line":    event.Command.Line,
				"command": event.Command.String(),
			}).WithError(err).Warn("Script command failed")
		}
		event.State = EventEnd
	}
	return nil
}

// Exec runs a single command immediately
func (e *Engine) Exec(cmd Command) error {
	switch cmd.Name {
	case "play":
		if err := arity(cmd, 1, 2); err != nil {
			return err
		}
		id, err := e.sound(cmd.Args[0])
		if err != nil {
			return err
		}
		var offset time.Duration
		if len(cmd.Args) == 2 {
			if offset, err = time.ParseDuration(cmd.Args[1]); err != nil {
				return fmt.Errorf("invalid offset %q: %w", cmd.Args[1], err)
			}
		}
		e.target.Play(id, offset)

	case "stop", "toggle", "loop":
		if err := arity(cmd, 1, 1); err != nil {
			return err
		}
		id, err := e.sound(cmd.Args[0])
		if err != nil {
			return err
		}
		switch cmd.Name {
		case "stop":
			e.target.Stop(id)
		case "toggle":
			e.target.Toggle(id)
		default:
			e.target.ToggleLooping(id)
		}

	case "volume":
		if err := arity(cmd, 2, 2); err != nil {
			return err
		}
		id, err := e.sound(cmd.Args[0])
		if err != nil {
			return err
		}
		v, err := volume(cmd.Args[1])
		if err != nil {
			return err
		}
		e.target.SetVolume(v, id)

	case "category":
		if err := arity(cmd, 2, 2); err != nil {
			return err
		}
		tag, err := audio.ParseTag(cmd.Args[0])
		if err != nil {
			return err
		}
		v, err := volume(cmd.Args[1])
		if err != nil {
			return err
		}
		e.target.SetCategoryVolume(v, tag)

	case "master":
		if err := arity(cmd, 1, 1); err != nil {
			return err
		}
		v, err := volume(cmd.Args[0])
		if err != nil {
			return err
		}
		e.target.SetMasterVolume(v)

	case "playall":
		if err := arity(cmd, 0, 0); err != nil {
			return err
		}
		e.target.PlayAll()

	case "stopall":
		if err := arity(cmd, 0, 0); err != nil {
			return err
		}
		e.target.StopAll()

	case "save":
		if err := arity(cmd, 0, 0); err != nil {
			return err
		}
		if e.save == nil {
			return fmt.Errorf("save is not available")
		}
		return e.save()

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
	return nil
}

func (e *Engine) sound(name string) (audio.SoundID, error) {
	id := e.target.NameToID(name)
	if id == audio.PickSound {
		return id, fmt.Errorf("%w: sound %q", audio.ErrUnresolved, name)
	}
	return id, nil
}

func arity(cmd Command, lo, hi int) error {
	if n := len(cmd.Args); n < lo || n > hi {
		return fmt.Errorf("%s: expected %d..%d arguments, got %d", cmd.Name, lo, hi, n)
	}
	return nil
}

func volume(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid volume %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid volume %q: not a finite number", s)
	}
	return v, nil
}

// Clear removes all events
func (e *Engine) Clear() {
	e.events = e.events[:0]
	log.Println("Cleared all script events")
}

// GetEvents returns the current events
func (e *Engine) GetEvents() []*Event {
	return e.events
}

// Done reports whether every loaded event has fired
func (e *Engine) Done() bool {
	for _, event := range e.events {
		if event.State != EventEnd {
			return false
		}
	}
	return true
}
