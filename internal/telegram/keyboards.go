package telegram

import "fmt"

func DuelKeyboard(label, token string) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: label, CallbackData: token}},
		},
	}
}

// PaginationKeyboard returns nil when there is nowhere to go.
func PaginationKeyboard(board Board, page Page, hasMore bool) *InlineKeyboardMarkup {
	var row []InlineKeyboardButton
	if page > 0 {
		row = append(row, InlineKeyboardButton{Text: "◀️", CallbackData: fmt.Sprintf("%s%d", board.callbackPrefix(), page-1)})
	}
	if hasMore {
		row = append(row, InlineKeyboardButton{Text: "▶️", CallbackData: fmt.Sprintf("%s%d", board.callbackPrefix(), page+1)})
	}
	if len(row) == 0 {
		return nil
	}
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{row}}
}
