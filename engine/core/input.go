package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// KeyCode follows the virtual-key numbering; printable keys map to their
// upper-case ASCII value.
type KeyCode uint16

const (
	KEY_UNKNOWN   KeyCode = 0x00
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_PAUSE     KeyCode = 0x13
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_END       KeyCode = 0x23
	KEY_HOME      KeyCode = 0x24
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_INSERT    KeyCode = 0x2D
	KEY_DELETE    KeyCode = 0x2E
	KEY_0         KeyCode = 0x30
	KEY_9         KeyCode = 0x39
	KEY_A         KeyCode = 0x41
	KEY_Z         KeyCode = 0x5A
	KEY_F1        KeyCode = 0x70
	KEY_F12       KeyCode = 0x7B
	KEY_LSHIFT    KeyCode = 0xA0
	KEY_RSHIFT    KeyCode = 0xA1
	KEY_LCONTROL  KeyCode = 0xA2
	KEY_RCONTROL  KeyCode = 0xA3
	KEY_LMENU     KeyCode = 0xA4
	KEY_RMENU     KeyCode = 0xA5
	KEYS_MAX_KEYS KeyCode = 0xFF
)

// IsPrintable reports whether the key code is a letter or digit.
func (k KeyCode) IsPrintable() bool {
	return (k >= KEY_0 && k <= KEY_9) || (k >= KEY_A && k <= KEY_Z)
}
