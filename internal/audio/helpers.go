package audio

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"
)

// ResourceScheme prefixes catalog resource handles
const ResourceScheme = "res://"

var (
	soundsByName = foldIndex(soundNames[:])
	tagsByName   = foldIndex(tagNames[:])
	listsByName  = foldIndex(listNames[:])
)

// foldIndex maps case-folded names to their ordinal
func foldIndex(names []string) map[string]int {
	fold := cases.Fold()
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[fold.String(name)] = i
	}
	return index
}

func lookupName(index map[string]int, name string) (int, bool) {
	i, ok := index[cases.Fold().String(strings.TrimSpace(name))]
	return i, ok
}

// ParseSoundID resolves a human-readable sound name, ignoring case
func ParseSoundID(name string) (SoundID, error) {
	if i, ok := lookupName(soundsByName, name); ok {
		return SoundID(i), nil
	}
	return PickSound, fmt.Errorf("%w: sound %q", ErrUnresolved, name)
}

// ParseTag resolves a tag name, ignoring case
func ParseTag(name string) (Tag, error) {
	if i, ok := lookupName(tagsByName, name); ok {
		return Tag(i), nil
	}
	return -1, fmt.Errorf("%w: tag %q", ErrUnresolved, name)
}

// ParseList resolves a list name, ignoring case
func ParseList(name string) (List, error) {
	if i, ok := lookupName(listsByName, name); ok {
		return List(i), nil
	}
	return PickList, fmt.Errorf("%w: list %q", ErrUnresolved, name)
}

// ResourcePath strips the resource scheme from a handle
// Format: "res://sfx/bleep.wav" or just "sfx/bleep.wav"
func ResourcePath(handle string) string {
	return strings.TrimPrefix(handle, ResourceScheme)
}

// ValidateResourceHandle validates a catalog resource handle
func ValidateResourceHandle(handle string) error {
	if handle == "" {
		return fmt.Errorf("resource handle cannot be empty")
	}

	p := ResourcePath(handle)
	if p == "" {
		return fmt.Errorf("resource path cannot be empty")
	}

	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".wav", ".ogg", ".mp3":
		return nil
	default:
		return fmt.Errorf("unsupported audio format: %q (wav, ogg and mp3 are supported)", ext)
	}
}
