package keymap

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// DefaultLeader is the leader key used when none is configured.
const DefaultLeader = " "

// Chord is a single key press: either a printable rune or a special key,
// plus any modifiers.
type Chord struct {
	// Key is the special key, or tcell.KeyRune for printable input.
	Key tcell.Key

	// Rune is the printable rune when Key == tcell.KeyRune.
	Rune rune

	// Mods are the active modifiers.
	Mods tcell.ModMask
}

// Equals reports whether two chords are the same key press.
func (c Chord) Equals(other Chord) bool {
	return c.Key == other.Key && c.Rune == other.Rune && c.Mods == other.Mods
}

// String returns the chord in trigger notation.
func (c Chord) String() string {
	name := ""
	if c.Key == tcell.KeyRune {
		if c.Rune == ' ' {
			name = "Space"
		} else {
			name = string(c.Rune)
		}
	} else {
		name = canonicalKeyNames[c.Key]
		if name == "" {
			name = fmt.Sprintf("Key(%d)", c.Key)
		}
	}

	mods := modPrefix(c.Mods)
	if mods == "" && c.Key == tcell.KeyRune && c.Rune != ' ' {
		return name
	}
	return "<" + mods + name + ">"
}

// Trigger is a parsed key sequence.
type Trigger struct {
	// Chords are the key presses in order.
	Chords []Chord

	// raw is the canonical string form, used as the table key.
	raw string
}

// String returns the canonical trigger notation.
func (t Trigger) String() string {
	return t.raw
}

// Equals reports whether two triggers are the same sequence.
func (t Trigger) Equals(other Trigger) bool {
	return t.raw == other.raw
}

// specialKeys maps bracketed key names to tcell keys. Names are matched
// case-insensitively.
var specialKeys = map[string]tcell.Key{
	"CR":     tcell.KeyEnter,
	"Enter":  tcell.KeyEnter,
	"Esc":    tcell.KeyEscape,
	"Tab":    tcell.KeyTab,
	"BS":     tcell.KeyBackspace2,
	"Del":    tcell.KeyDelete,
	"Up":     tcell.KeyUp,
	"Down":   tcell.KeyDown,
	"Left":   tcell.KeyLeft,
	"Right":  tcell.KeyRight,
	"Home":   tcell.KeyHome,
	"End":    tcell.KeyEnd,
	"PgUp":   tcell.KeyPgUp,
	"PgDown": tcell.KeyPgDn,
	"F1":     tcell.KeyF1,
	"F2":     tcell.KeyF2,
	"F3":     tcell.KeyF3,
	"F4":     tcell.KeyF4,
	"F5":     tcell.KeyF5,
	"F6":     tcell.KeyF6,
	"F7":     tcell.KeyF7,
	"F8":     tcell.KeyF8,
	"F9":     tcell.KeyF9,
	"F10":    tcell.KeyF10,
	"F11":    tcell.KeyF11,
	"F12":    tcell.KeyF12,
}

// canonicalKeyNames picks one name per key for the canonical string form.
var canonicalKeyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "CR",
	tcell.KeyEscape:     "Esc",
	tcell.KeyTab:        "Tab",
	tcell.KeyBackspace2: "BS",
	tcell.KeyDelete:     "Del",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PgUp",
	tcell.KeyPgDn:       "PgDown",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// modNames maps modifier prefixes (from bracketed notation) to tcell
// modifier masks.
var modNames = map[string]tcell.ModMask{
	"C":     tcell.ModCtrl,
	"Ctrl":  tcell.ModCtrl,
	"S":     tcell.ModShift,
	"Shift": tcell.ModShift,
	"A":     tcell.ModAlt,
	"Alt":   tcell.ModAlt,
	"M":     tcell.ModMeta,
	"Meta":  tcell.ModMeta,
}

// Parser parses trigger notation into Triggers.
type Parser struct {
	leader string
}

// NewParser creates a parser with the given leader key.
// An empty leader falls back to DefaultLeader.
func NewParser(leader string) *Parser {
	if leader == "" {
		leader = DefaultLeader
	}
	return &Parser{leader: leader}
}

// Leader returns the configured leader key.
func (p *Parser) Leader() string {
	return p.leader
}

// Parse parses a trigger string like "gd", "<C-s>" or "<leader>ff".
func (p *Parser) Parse(s string) (Trigger, error) {
	if s == "" {
		return Trigger{}, ErrEmptyTrigger
	}

	// Expand the leader placeholder before tokenizing.
	expanded := strings.ReplaceAll(s, "<leader>", p.leader)
	expanded = strings.ReplaceAll(expanded, "<Leader>", p.leader)

	var chords []Chord
	runes := []rune(expanded)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '<' {
			end := indexRune(runes, i, '>')
			if end < 0 {
				return Trigger{}, fmt.Errorf("%w: unterminated <...> in %q", ErrInvalidTrigger, s)
			}
			chord, err := parseBracketed(string(runes[i+1 : end]))
			if err != nil {
				return Trigger{}, fmt.Errorf("%w: %q: %v", ErrInvalidTrigger, s, err)
			}
			chords = append(chords, chord)
			i = end
			continue
		}
		chords = append(chords, Chord{Key: tcell.KeyRune, Rune: runes[i]})
	}

	if len(chords) == 0 {
		return Trigger{}, ErrEmptyTrigger
	}

	var b strings.Builder
	for _, c := range chords {
		b.WriteString(c.String())
	}
	return Trigger{Chords: chords, raw: b.String()}, nil
}

// parseBracketed parses the inside of a <...> group.
func parseBracketed(body string) (Chord, error) {
	if body == "" {
		return Chord{}, fmt.Errorf("empty key group")
	}

	parts := strings.Split(body, "-")
	var mods tcell.ModMask

	// All but the last part must be modifiers. An empty part comes from
	// the minus-rune spellings ("<C-->", "<C->") and is not a modifier.
	for _, part := range parts[:len(parts)-1] {
		if part == "" {
			continue
		}
		mod, ok := lookupMod(part)
		if !ok {
			return Chord{}, fmt.Errorf("unknown modifier %q", part)
		}
		mods |= mod
	}

	keyName := parts[len(parts)-1]
	if keyName == "" {
		// "<C-->" binds the minus rune.
		keyName = "-"
	}

	if key, ok := lookupSpecial(keyName); ok {
		return Chord{Key: key, Mods: mods}, nil
	}
	if strings.EqualFold(keyName, "Space") {
		return Chord{Key: tcell.KeyRune, Rune: ' ', Mods: mods}, nil
	}

	keyRunes := []rune(keyName)
	if len(keyRunes) != 1 {
		return Chord{}, fmt.Errorf("unknown key %q", keyName)
	}
	return Chord{Key: tcell.KeyRune, Rune: keyRunes[0], Mods: mods}, nil
}

// lookupMod finds a modifier by name, case-insensitively.
func lookupMod(name string) (tcell.ModMask, bool) {
	for n, m := range modNames {
		if strings.EqualFold(n, name) {
			return m, true
		}
	}
	return 0, false
}

// lookupSpecial finds a special key by name, case-insensitively.
func lookupSpecial(name string) (tcell.Key, bool) {
	for n, k := range specialKeys {
		if strings.EqualFold(n, name) {
			return k, true
		}
	}
	return 0, false
}

// modPrefix renders modifiers in canonical short form ("C-A-" etc).
func modPrefix(mods tcell.ModMask) string {
	var b strings.Builder
	if mods&tcell.ModCtrl != 0 {
		b.WriteString("C-")
	}
	if mods&tcell.ModAlt != 0 {
		b.WriteString("A-")
	}
	if mods&tcell.ModShift != 0 {
		b.WriteString("S-")
	}
	if mods&tcell.ModMeta != 0 {
		b.WriteString("M-")
	}
	return b.String()
}

// indexRune returns the index of the first occurrence of r at or after
// start, or -1.
func indexRune(runes []rune, start int, r rune) int {
	for i := start; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
