package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// Board is one of the two mirrored leaderboards.
type Board int

const (
	BoardTop Board = iota
	BoardWorst
)

const (
	topPagePrefix   = "top:page:"
	worstPagePrefix = "worst:page:"
)

func (b Board) callbackPrefix() string {
	if b == BoardWorst {
		return worstPagePrefix
	}
	return topPagePrefix
}

// Page is zero-based.
type Page int

// MaxPage keeps page*limit far from overflowing for any accepted limit.
const MaxPage = 1 << 20

type InvalidPageError struct {
	Value  string
	Reason string
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("invalid page %q: %s", e.Value, e.Reason)
}

func IsPageCallback(data string) bool {
	return strings.HasPrefix(data, topPagePrefix) || strings.HasPrefix(data, worstPagePrefix)
}

func ParsePageCallback(data string) (Board, Page, error) {
	var board Board
	var raw string
	switch {
	case strings.HasPrefix(data, topPagePrefix):
		board, raw = BoardTop, strings.TrimPrefix(data, topPagePrefix)
	case strings.HasPrefix(data, worstPagePrefix):
		board, raw = BoardWorst, strings.TrimPrefix(data, worstPagePrefix)
	default:
		return 0, 0, &InvalidPageError{Value: data, Reason: "unknown prefix"}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, 0, &InvalidPageError{Value: raw, Reason: err.Error()}
	}
	if n < 0 {
		return 0, 0, &InvalidPageError{Value: raw, Reason: "negative"}
	}
	if n > MaxPage {
		return 0, 0, &InvalidPageError{Value: raw, Reason: "too large"}
	}
	return board, Page(n), nil
}
