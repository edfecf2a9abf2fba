package window

// Key identifies a physical key. Values are GLFW key codes, which match the codes in common.
type Key uint32
