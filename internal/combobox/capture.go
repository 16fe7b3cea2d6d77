package combobox

// captureFocusLost runs before a focus loss reaches the select primitive and
// reports whether it should stop there.
//
// Moving the highlight makes the list primitive emit a virtual blur from the
// filter field, as if the previously highlighted row had real focus. The
// select primitive closes the popover on any focus loss, so without this
// check arrow-key navigation would dismiss the list. Only virtual losses from
// the filter field are stopped; pointer, keyboard and terminal losses pass.
func captureFocusLost(msg focusLostMsg) bool {
	return msg.Virtual && msg.Source == sourceFilter
}
