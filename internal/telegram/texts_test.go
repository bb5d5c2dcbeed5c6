package telegram

import (
	"strings"
	"testing"

	"github.com/moeinovic/bassuli/internal/duel"
	"github.com/moeinovic/bassuli/internal/models"
	"github.com/moeinovic/bassuli/internal/services"

	"golang.org/x/text/language"
)

func TestTextsForPicksLanguage(t *testing.T) {
	cases := map[string]language.Tag{
		"ru":    language.Russian,
		"ru-RU": language.Russian,
		"en-GB": language.English,
		"de":    language.English,
		"":      language.English,
		"%%":    language.English,
	}
	for code, want := range cases {
		if got := TextsFor(code).Language(); got != want {
			t.Fatalf("TextsFor(%q) = %v, want %v", code, got, want)
		}
	}
	if got := TextsFor("ru").T("duel.button"); got != "Принять вызов" {
		t.Fatalf("russian button = %q", got)
	}
}

func testOutcome() *duel.Outcome {
	top := duel.Side{Participant: models.Participant{ID: 1, Name: "A<b>"}, Role: duel.RoleTop, Delta: 2, Value: 2, Rank: 1, Ranked: true}
	bottom := duel.Side{Participant: models.Participant{ID: 2, Name: "Bob"}, Role: duel.RoleBottom, Delta: -10, Value: -10, Rank: 2, Ranked: true}
	return &duel.Outcome{
		Stake:  5,
		Top:    top,
		Bottom: bottom,
		Winner: bottom,
		Loser:  top,
		Stats: &services.BattleStatsDelta{
			Winner: services.WinnerStats{WinRate: 0.5, WinStreakCurrent: 1, WinStreakMax: 3},
			Loser:  services.LoserStats{WinRate: 0.25, PrevWinStreak: 4},
		},
	}
}

func TestOutcomeText(t *testing.T) {
	texts := TextsFor("en")
	text := texts.Outcome(testOutcome(), true, true)

	for _, want := range []string{
		"A&lt;b&gt; attacked and got 2 worse.",
		"Bob defended and got 10 better!",
		"Bob wins the duel for 5!",
		"Bob is now #2.",
		"winner 50.0%, loser 25.0%",
		"streak of 4 wins is over",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("outcome text lacks %q:\n%s", want, text)
		}
	}

	plain := texts.Outcome(testOutcome(), false, false)
	if strings.Contains(plain, "#") || strings.Contains(plain, "Win rate") {
		t.Fatalf("toggles ignored:\n%s", plain)
	}
}

func TestBoardText(t *testing.T) {
	texts := TextsFor("en")
	rows := []services.Row{
		{ParticipantID: 1, Name: "Alice", Value: -3, Position: 1},
		{ParticipantID: 2, Name: "Bob", Value: 4, Position: 2},
	}
	text := texts.Board(BoardTop, rows, 2)
	if !strings.Contains(text, "1. Alice: -3") || !strings.Contains(text, "2. <u>Bob</u>: 4") {
		t.Fatalf("unexpected board:\n%s", text)
	}
	if got := texts.Board(BoardWorst, nil, 2); got != texts.T("worst.empty") {
		t.Fatalf("empty board = %q", got)
	}
}
