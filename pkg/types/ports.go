package types

// EventKind names the UI events the filter layer reacts to.
type EventKind string

const (
	EventFocus     EventKind = "focus"
	EventKeyDown   EventKind = "keydown"
	EventClick     EventKind = "click"
	EventMouseDown EventKind = "mousedown"
	EventChange    EventKind = "change"
)

const (
	ButtonPrimary   = 0
	ButtonAuxiliary = 1
)

type Event struct {
	Kind     EventKind `json:"kind"`
	Key      string    `json:"key,omitempty"`
	Value    string    `json:"value,omitempty"`
	Button   int       `json:"button,omitempty"`
	AltKey   bool      `json:"altKey,omitempty"`
	CtrlKey  bool      `json:"ctrlKey,omitempty"`
	MetaKey  bool      `json:"metaKey,omitempty"`
	ShiftKey bool      `json:"shiftKey,omitempty"`
	Target   Element   `json:"-"`

	defaultPrevented bool
	stopped          bool
}

func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

func (e *Event) StopPropagation() {
	e.stopped = true
}

func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// Listener is a UI event callback.
type Listener func(ev *Event)

// Element is a handle on a single node rendered into a page. Handles are
// ephemeral: an external widget may replace the node at any time, so callers
// re-acquire them through a Scope instead of keeping them.
type Element interface {
	HasClass(name string) bool
	AddClass(name string)
	RemoveClass(name string)
	Style(property string) string
	SetStyle(property, value string)
	Attr(name string) string
	SetAttr(name, value string)
	Text() string
	SetText(text string)
	// Contains reports whether other is this element or one of its descendants.
	Contains(other Element) bool
	// On registers a listener and returns the function removing it.
	On(kind EventKind, fn Listener) (off func())
	// Click activates the element the way a user click would.
	Click()
	Append(child Element)
	After(sibling Element)
	Remove()
	ScrollIntoView(smooth bool)
}

// Scope is a queryable subtree, normally a whole page.
type Scope interface {
	// Query returns the first match or nil.
	Query(selector string) Element
	QueryAll(selector string) []Element
	// On registers a listener on the scope root.
	On(kind EventKind, fn Listener) (off func())
	// Watch calls fn after batches of node insertions or removals anywhere
	// in the subtree.
	Watch(fn func()) (stop func())
	Create(tag string, classes ...string) Element
}
