package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionTap            // Space - primary action (strike, lock, toggle)
	ActionConfirm        // Enter - confirm selection
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart after the session ends
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
	ActionLane0          // D - rhythm lane 1
	ActionLane1          // F - rhythm lane 2
	ActionLane2          // J - rhythm lane 3
	ActionLane3          // K - rhythm lane 4
)

// LaneActions lists the rhythm lane actions in lane order.
var LaneActions = [4]Action{ActionLane0, ActionLane1, ActionLane2, ActionLane3}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionTap:
		return "Tap"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionLane0, ActionLane1, ActionLane2, ActionLane3:
		return "Lane"
	default:
		return "Unknown"
	}
}

// Axis is an optional analog reading delivered with a frame.
type Axis struct {
	Value float64
	Set   bool
}

// Point2 is an optional position in normalized 0-100 play-area space.
type Point2 struct {
	X, Y float64
	Set  bool
}

// InputFrame represents the player's input during one simulation tick.
// Discrete actions are flags; pointer, tilt and click carry the latest analog
// reading; picks are target indices chosen directly (number keys, taps).
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool

	// Pointer is a normalized 0-100 horizontal pointer/touch position.
	Pointer Axis

	// Tilt is a raw device orientation angle in degrees.
	Tilt Axis

	// Click is a tap position inside the play area.
	Click Point2

	// Picks are explicitly selected target indices, in arrival order.
	Picks []int

	// Order lists actions in the order they were set.
	Order []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
	f.Order = append(f.Order, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// SetPointer records a normalized pointer position.
func (f *InputFrame) SetPointer(pct float64) {
	f.Pointer = Axis{Value: Percent(pct), Set: true}
}

// SetTilt records a device tilt angle.
func (f *InputFrame) SetTilt(deg float64) {
	f.Tilt = Axis{Value: deg, Set: true}
}

// SetClick records a normalized click position.
func (f *InputFrame) SetClick(x, y float64) {
	f.Click = Point2{X: Percent(x), Y: Percent(y), Set: true}
}

// Pick records a direct target selection.
func (f *InputFrame) Pick(index int) {
	f.Picks = append(f.Picks, index)
}

// Empty reports whether the frame carries no input at all.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return !f.Pointer.Set && !f.Tilt.Set && !f.Click.Set && len(f.Picks) == 0
}

// Merge folds another frame into this one. Analog readings from other win.
func (f *InputFrame) Merge(other InputFrame) {
	for _, a := range other.Order {
		f.Set(a)
	}
	for a, on := range other.Actions {
		if on && !f.Has(a) {
			f.Set(a)
		}
	}
	if other.Pointer.Set {
		f.Pointer = other.Pointer
	}
	if other.Tilt.Set {
		f.Tilt = other.Tilt
	}
	if other.Click.Set {
		f.Click = other.Click
	}
	f.Picks = append(f.Picks, other.Picks...)
}

// Clear resets all input for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Pointer = Axis{}
	f.Tilt = Axis{}
	f.Click = Point2{}
	f.Picks = f.Picks[:0]
	f.Order = f.Order[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Order = append([]Action(nil), f.Order...)
	clone.Pointer = f.Pointer
	clone.Tilt = f.Tilt
	clone.Click = f.Click
	clone.Picks = append([]int(nil), f.Picks...)
	return clone
}
