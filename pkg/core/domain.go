package core

import "strings"

// Collection names one of the fixed Local Store collections.
type Collection string

const (
	CollectionNotes    Collection = "notes"
	CollectionLabels   Collection = "labels"
	CollectionSettings Collection = "settings"
)

// Collections lists every collection created on first open.
var Collections = []Collection{CollectionNotes, CollectionLabels, CollectionSettings}

// Valid reports whether c is one of the fixed collections.
func (c Collection) Valid() bool {
	switch c {
	case CollectionNotes, CollectionLabels, CollectionSettings:
		return true
	}
	return false
}

// Label groups notes. Names are unique in practice but not enforced.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetID implements typed.Record.
func (l Label) GetID() string { return l.ID }

// Validate checks the fields required for a label record.
func (l Label) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errorf(ErrValidation, "label has no id")
	}
	return CheckID(l.ID)
}

// CheckID rejects ids that cannot name a single file: ids are used as
// remote file names, so separators and dot segments are refused.
func CheckID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return errorf(ErrValidation, "empty id")
	case strings.ContainsAny(id, `/\`), strings.Contains(id, ".."), id == ".":
		return errorf(ErrValidation, "id %q is not a single path element", id)
	}
	return nil
}

// Setting is a single keyed value in the settings collection.
type Setting struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// GetID implements typed.Record.
func (s Setting) GetID() string { return s.ID }

// Well-known setting keys.
const (
	SettingRemoteToken = "githubToken"
	SettingRemoteRepo  = "githubRepo"
	SettingMediaFolder = "directoryHandle"
)

// Color is a note background tag from a fixed palette.
type Color string

const (
	ColorDefault  Color = "default"
	ColorRed      Color = "red"
	ColorOrange   Color = "orange"
	ColorYellow   Color = "yellow"
	ColorGreen    Color = "green"
	ColorTeal     Color = "teal"
	ColorBlue     Color = "blue"
	ColorCerulean Color = "cerulean"
	ColorPurple   Color = "purple"
	ColorPink     Color = "pink"
	ColorBrown    Color = "brown"
	ColorGray     Color = "gray"
)

// Palette lists every accepted color.
var Palette = []Color{
	ColorDefault, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorTeal,
	ColorBlue, ColorCerulean, ColorPurple, ColorPink, ColorBrown, ColorGray,
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// ParseColor maps a case-insensitive name to a palette color.
// The empty string maps to ColorDefault.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ColorDefault, nil
	}
	c := Color(s)
	if !c.Valid() {
		return "", errorf(ErrValidation, "unknown color %q", s)
	}
	return c, nil
}
