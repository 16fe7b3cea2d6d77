package combobox

// ValueChangedMsg is emitted when the user confirms a selection. The widget
// does not adopt the value itself; echo it back with SetSelectedValue.
type ValueChangedMsg struct {
	Value string
}

// OpenChangedMsg is emitted whenever the popover opens or closes.
type OpenChangedMsg struct {
	Open bool
}

// searchMsg carries a deferred search-text update. Only the one matching the
// latest sequence number is applied.
type searchMsg struct {
	seq   int
	value string
}

type focusSource int

const (
	sourceFilter focusSource = iota
	sourcePointer
	sourceTerminal
	sourceKeyboard
)

// focusLostMsg reports that something inside or around the widget lost focus.
// Virtual losses come from highlight moves inside the list, where no real
// focus changes.
type focusLostMsg struct {
	Virtual bool
	Source  focusSource
}
