package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyC     = 67 // C key (ASCII)
	KeyO     = 79 // O key (ASCII)
	KeyP     = 80 // P key (ASCII)
	KeyR     = 82 // R key (ASCII)
	KeyX     = 88 // X key (ASCII)
	KeyMinus = 45 // - key (ASCII)
	KeyEqual = 61 // = / + key (ASCII)

	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
	Key5 = 53 // 5 key (ASCII)

	KeyEsc        = 256 // Escape key (GLFW)
	KeyKPSubtract = 333 // keypad - (GLFW)
	KeyKPAdd      = 334 // keypad + (GLFW)
)
