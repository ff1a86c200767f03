package forms

import "strings"

// Callback action constants
const (
	CallbackPrefix = "fm:"
	ActionSelect   = "select"
	ActionMulti    = "multi"
	ActionDone     = "done"
	ActionYes      = "yes"
	ActionNo       = "no"
	ActionSkip     = "skip"
	ActionBack     = "back"
	ActionCancel   = "cancel"
	ActionNoop     = "noop"
)

// CallbackData represents parsed callback data.
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses a callback data string.
// Format: "fm:action:value" or "fm:action"
func ParseCallback(data string) *CallbackData {
	if !strings.HasPrefix(data, CallbackPrefix) {
		return nil
	}

	data = strings.TrimPrefix(data, CallbackPrefix)
	parts := strings.SplitN(data, ":", 2)

	cb := &CallbackData{
		Action: parts[0],
	}

	if len(parts) > 1 {
		cb.Value = parts[1]
	}

	return cb
}

// IsFormCallback checks if the callback data belongs to the form engine.
func IsFormCallback(data string) bool {
	return strings.HasPrefix(data, CallbackPrefix)
}

// BuildCallback creates a callback data string.
func BuildCallback(action string, value ...string) string {
	if len(value) > 0 && value[0] != "" {
		return CallbackPrefix + action + ":" + value[0]
	}
	return CallbackPrefix + action
}

// IsSelect checks if the callback is a "select" action.
func (c *CallbackData) IsSelect() bool {
	return c.Action == ActionSelect
}

// IsMulti checks if the callback toggles a multi-select option.
func (c *CallbackData) IsMulti() bool {
	return c.Action == ActionMulti
}

// IsDone checks if the callback commits a multi-select field.
func (c *CallbackData) IsDone() bool {
	return c.Action == ActionDone
}

// IsYes checks if the callback is a "yes" action.
func (c *CallbackData) IsYes() bool {
	return c.Action == ActionYes
}

// IsNo checks if the callback is a "no" action.
func (c *CallbackData) IsNo() bool {
	return c.Action == ActionNo
}

// IsSkip checks if the callback is a "skip" action.
func (c *CallbackData) IsSkip() bool {
	return c.Action == ActionSkip
}

// IsBack checks if the callback is a "back" action.
func (c *CallbackData) IsBack() bool {
	return c.Action == ActionBack
}

// IsCancel checks if the callback is a "cancel" action.
func (c *CallbackData) IsCancel() bool {
	return c.Action == ActionCancel
}

// SelectedOption returns the chosen option for select and multi callbacks.
func (c *CallbackData) SelectedOption() string {
	if c.Action != ActionSelect && c.Action != ActionMulti {
		return ""
	}
	return c.Value
}
