package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Profile is the on-disk mapping configuration: named reusable actions plus
// the trigger mappings that reference or inline them. Validation happens in
// the profile compiler, not here.
type Profile struct {
	Name     string                 `json:"name"`
	Actions  map[string]*ActionSpec `json:"actions,omitempty"`
	Mappings []Mapping              `json:"mappings"`
}

// Mapping binds one hardware control to an action tree. Device "*" matches
// any device; Channel 0 matches any channel.
type Mapping struct {
	Device  string      `json:"device"`
	Trigger string      `json:"trigger"` // "note_on", "note_off", "cc", "sysex"
	Number  uint16      `json:"number"`
	Channel uint8       `json:"channel,omitempty"`
	Action  *ActionSpec `json:"action"`
}

// ActionSpec is the serialized form of one action node. Type selects the
// variant; only the fields for that variant are read.
type ActionSpec struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`

	// "ref": reference to a named action
	Ref string `json:"ref,omitempty"`

	// "key_down", "key_up", "key_tap"
	Key string `json:"key,omitempty"`

	// "shell"
	Command   string `json:"command,omitempty"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`

	// "delay"
	DelayMS int `json:"delay_ms,omitempty"`

	// "midi"
	Midi *MidiSpec `json:"midi,omitempty"`

	// "sequence"
	OnError  string        `json:"on_error,omitempty"` // "stop" (default) or "continue"
	Children []*ActionSpec `json:"children,omitempty"`

	// "switch"
	Ranges []RangeSpec `json:"ranges,omitempty"`

	// "state_guard", "alternate", "state_set", "state_add", "state_subtract"
	StateKey  string `json:"state_key,omitempty"`
	Compare   string `json:"compare,omitempty"` // "eq", "gt", "lt"
	Threshold int32  `json:"threshold,omitempty"`
	Post      *int32 `json:"post,omitempty"`
	Value     int32  `json:"value,omitempty"`

	// "alternate"; "state_guard" reads Primary as its guarded action
	StartWithPrimary *bool       `json:"start_with_primary,omitempty"`
	Primary          *ActionSpec `json:"primary,omitempty"`
	Secondary        *ActionSpec `json:"secondary,omitempty"`

	// "relative"
	Increase *ActionSpec `json:"increase,omitempty"`
	Decrease *ActionSpec `json:"decrease,omitempty"`
}

// RangeSpec binds an inclusive value range to an action.
type RangeSpec struct {
	Min    uint8       `json:"min"`
	Max    uint8       `json:"max"`
	Action *ActionSpec `json:"action"`
}

// MidiSpec describes an outgoing MIDI message.
type MidiSpec struct {
	Port    string `json:"port"`
	MsgType string `json:"msg_type"` // "note_on", "note_off", "cc", "pc"
	Channel uint8  `json:"channel"`  // 1-16
	Number  uint8  `json:"number"`   // note, controller or program
	Value   uint8  `json:"value"`    // velocity or CC value
}

func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-trigger"), nil
}

// DefaultPath returns the default profile location in the user config dir.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.json"), nil
}

// Load reads a profile from path. A missing file yields an empty profile.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Profile{Name: "default", Mappings: []Mapping{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if p.Mappings == nil {
		p.Mappings = []Mapping{}
	}
	return &p, nil
}

// Save writes the profile to path, creating parent directories as needed.
func (p *Profile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
