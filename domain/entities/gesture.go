package entities

// GestureType is a single user gesture the executor can dispatch.
type GestureType string

const (
	GestureClick        GestureType = "click"
	GestureDoubleClick  GestureType = "double_click"
	GestureContextClick GestureType = "context_click"
	GestureTypeText     GestureType = "type_text"
	GestureSetFile      GestureType = "set_file_input"
	GestureClearFile    GestureType = "clear_file_input"
)

// RequiresPointer reports whether the gesture needs an interactable target.
// File injection bypasses the pointer entirely.
func (g GestureType) RequiresPointer() bool {
	switch g {
	case GestureSetFile, GestureClearFile:
		return false
	default:
		return true
	}
}
