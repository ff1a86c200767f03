package ui

import (
	"StaffDesk/bot/forms"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// YesNoKeyboard creates an inline keyboard for boolean fields.
func YesNoKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: "Yes", CallbackData: forms.BuildCallback(forms.ActionYes)},
				{Text: "No", CallbackData: forms.BuildCallback(forms.ActionNo)},
			},
		},
	}
}

// SelectKeyboard creates an inline keyboard for single-select fields, one
// option per row.
func SelectKeyboard(options []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, len(options))
	for i, option := range options {
		rows[i] = []tgbotapi.InlineKeyboardButton{
			{Text: option, CallbackData: forms.BuildCallback(forms.ActionSelect, option)},
		}
	}
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// MultiSelectKeyboard creates a toggle keyboard for multi-select fields.
// Selected options carry a check mark; the Done row commits the field.
func MultiSelectKeyboard(options, selected []string) tgbotapi.InlineKeyboardMarkup {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options)+1)
	for _, option := range options {
		text := option
		if chosen[option] {
			text = "✅ " + option
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			{Text: text, CallbackData: forms.BuildCallback(forms.ActionMulti, option)},
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "Done", CallbackData: forms.BuildCallback(forms.ActionDone)},
	})

	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// NavigationRow builds the back/skip/cancel row shown under every prompt.
func NavigationRow(canBack, canSkip bool) []tgbotapi.InlineKeyboardButton {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 3)
	if canBack {
		row = append(row, tgbotapi.InlineKeyboardButton{
			Text: "⬅️ Back", CallbackData: forms.BuildCallback(forms.ActionBack),
		})
	}
	if canSkip {
		row = append(row, tgbotapi.InlineKeyboardButton{
			Text: "Skip", CallbackData: forms.BuildCallback(forms.ActionSkip),
		})
	}
	row = append(row, tgbotapi.InlineKeyboardButton{
		Text: "Cancel", CallbackData: forms.BuildCallback(forms.ActionCancel),
	})
	return row
}

// WithNavigation appends the navigation row to a keyboard.
func WithNavigation(kb tgbotapi.InlineKeyboardMarkup, canBack, canSkip bool) tgbotapi.InlineKeyboardMarkup {
	kb.InlineKeyboard = append(kb.InlineKeyboard, NavigationRow(canBack, canSkip))
	return kb
}

// NavigationKeyboard is the bare back/skip/cancel keyboard for free-text
// prompts.
func NavigationKeyboard(canBack, canSkip bool) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			NavigationRow(canBack, canSkip),
		},
	}
}
