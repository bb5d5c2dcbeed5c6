package telegram

import (
	"errors"
	"testing"
)

func TestParsePageCallback(t *testing.T) {
	board, page, err := ParsePageCallback("worst:page:3")
	if err != nil {
		t.Fatalf("ParsePageCallback returned error: %v", err)
	}
	if board != BoardWorst || page != 3 {
		t.Fatalf("got %v/%d, want worst/3", board, page)
	}

	for _, data := range []string{"top:page:", "top:page:x", "top:page:-1", "top:page:1048577", "top:page:9223372036854775807", "btf:1:2:3"} {
		_, _, err := ParsePageCallback(data)
		var invalid *InvalidPageError
		if !errors.As(err, &invalid) {
			t.Fatalf("ParsePageCallback(%q) error = %v, want InvalidPageError", data, err)
		}
	}
}

func TestPaginationKeyboard(t *testing.T) {
	if kb := PaginationKeyboard(BoardTop, 0, false); kb != nil {
		t.Fatalf("expected no keyboard for a single page, got %+v", kb)
	}

	kb := PaginationKeyboard(BoardTop, 0, true)
	if len(kb.InlineKeyboard[0]) != 1 || kb.InlineKeyboard[0][0].CallbackData != "top:page:1" {
		t.Fatalf("first page keyboard = %+v", kb)
	}

	kb = PaginationKeyboard(BoardWorst, 2, true)
	row := kb.InlineKeyboard[0]
	if len(row) != 2 || row[0].CallbackData != "worst:page:1" || row[1].CallbackData != "worst:page:3" {
		t.Fatalf("middle page keyboard = %+v", row)
	}
}
