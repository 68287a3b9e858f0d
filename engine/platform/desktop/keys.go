package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/anywindow/engine/core"
)

var namedKeys = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyPause:        core.KEY_PAUSE,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyEnd:          core.KEY_END,
	glfw.KeyHome:         core.KEY_HOME,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyInsert:       core.KEY_INSERT,
	glfw.KeyDelete:       core.KEY_DELETE,
	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,
	glfw.KeyLeftAlt:      core.KEY_LMENU,
	glfw.KeyRightAlt:     core.KEY_RMENU,
}

func translateKey(key glfw.Key) core.KeyCode {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9:
		return core.KEY_0 + core.KeyCode(key-glfw.Key0)
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return core.KEY_A + core.KeyCode(key-glfw.KeyA)
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return core.KEY_F1 + core.KeyCode(key-glfw.KeyF1)
	}
	if code, ok := namedKeys[key]; ok {
		return code
	}
	return core.KEY_UNKNOWN
}

func translateButton(button glfw.MouseButton) (core.Button, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return core.BUTTON_LEFT, true
	case glfw.MouseButtonRight:
		return core.BUTTON_RIGHT, true
	case glfw.MouseButtonMiddle:
		return core.BUTTON_MIDDLE, true
	}
	return 0, false
}
