package telegram

import (
	"html"
	"strings"
	"time"

	"github.com/moeinovic/bassuli/internal/duel"
	"github.com/moeinovic/bassuli/internal/services"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(supported)

var catalog = map[language.Tag]map[string]string{
	language.English: {
		"duel.start":                    "⚔️ %[1]s is looking for a duel! Stake: %[2]d.",
		"duel.button":                   "Accept the duel",
		"duel.inline.title":             "Duel for %[1]d",
		"duel.errors.no_args":           "Usage: /duel <stake>",
		"duel.errors.invalid_bet":       "The stake must be a whole number from 1 to 65535.",
		"duel.errors.not_enough.init":   "The initiator is in no shape for a duel with such a stake.",
		"duel.errors.not_enough.accept": "You are in no shape to accept this duel.",
		"duel.errors.same_person":       "You cannot duel yourself!",
		"duel.errors.in_progress":       "This duel is already being resolved.",
		"duel.errors.invalid_button":    "This button is no longer valid.",
		"duel.result.top_worse":         "🗡 %[1]s attacked and got %[2]d worse.",
		"duel.result.top_better":        "🗡 %[1]s attacked and got %[2]d better!",
		"duel.result.bottom_worse":      "🛡 %[1]s defended and got %[2]d worse.",
		"duel.result.bottom_better":     "🛡 %[1]s defended and got %[2]d better!",
		"duel.result.winner":            "🏆 %[1]s wins the duel for %[2]d!",
		"duel.result.position":          "%[1]s is now #%[2]d.",
		"duel.result.stats":             "Win rate: winner %.1[1]f%%, loser %.1[2]f%%. Winner's streak: %[3]d (best %[4]d).",
		"duel.result.lost_streak":       "The loser's streak of %[1]d wins is over.",
		"shrink.better":                 "✨ %[1]s got %[2]d better. Value: %[3]d.",
		"shrink.worse":                  "😣 %[1]s got %[2]d worse. Value: %[3]d.",
		"shrink.tomorrow":               "You have already tried today.",
		"shrink.next":                   "Next attempt in %[1]dh %[2]dm.",
		"level.value":                   "Your value: %[1]d.",
		"level.position":                "Your position: #%[1]d.",
		"level.not_found":               "You have no record in this chat yet.",
		"top.title":                     "🏅 Best of the chat:",
		"top.empty":                     "Nobody is on the board yet.",
		"worst.title":                   "🩹 Worst of the chat:",
		"worst.empty":                   "Nobody is on the board yet.",
		"board.line":                    "%[1]d. %[2]s: %[3]d",
		"errors.generic":                "Something went wrong, try again later.",
		"errors.feature_disabled":       "This feature is disabled.",
		"help": "/shrink - your daily attempt\n" +
			"/duel <stake> - challenge the chat\n" +
			"/level - your value and position\n" +
			"/top - the best of the chat\n" +
			"/worst - the worst of the chat\n" +
			"Type @bot <stake> in any chat to duel inline.",
		"commands.shrink": "your daily attempt",
		"commands.duel":   "challenge the chat",
		"commands.level":  "your value and position",
		"commands.top":    "the best of the chat",
		"commands.worst":  "the worst of the chat",
		"commands.help":   "how to play",
	},
	language.Russian: {
		"duel.start":                    "⚔️ %[1]s ищет соперника! Ставка: %[2]d.",
		"duel.button":                   "Принять вызов",
		"duel.inline.title":             "Дуэль на %[1]d",
		"duel.errors.no_args":           "Использование: /duel <ставка>",
		"duel.errors.invalid_bet":       "Ставка должна быть целым числом от 1 до 65535.",
		"duel.errors.not_enough.init":   "Зачинщик не в форме для дуэли с такой ставкой.",
		"duel.errors.not_enough.accept": "Вы не в форме, чтобы принять этот вызов.",
		"duel.errors.same_person":       "Нельзя вызвать самого себя!",
		"duel.errors.in_progress":       "Эта дуэль уже проходит.",
		"duel.errors.invalid_button":    "Эта кнопка больше не действует.",
		"duel.result.top_worse":         "🗡 %[1]s атаковал и стал хуже на %[2]d.",
		"duel.result.top_better":        "🗡 %[1]s атаковал и стал лучше на %[2]d!",
		"duel.result.bottom_worse":      "🛡 %[1]s защищался и стал хуже на %[2]d.",
		"duel.result.bottom_better":     "🛡 %[1]s защищался и стал лучше на %[2]d!",
		"duel.result.winner":            "🏆 %[1]s выигрывает дуэль на %[2]d!",
		"duel.result.position":          "%[1]s теперь на %[2]d месте.",
		"duel.result.stats":             "Доля побед: победитель %.1[1]f%%, проигравший %.1[2]f%%. Серия победителя: %[3]d (рекорд %[4]d).",
		"duel.result.lost_streak":       "Серия проигравшего из %[1]d побед прервана.",
		"shrink.better":                 "✨ %[1]s стал лучше на %[2]d. Значение: %[3]d.",
		"shrink.worse":                  "😣 %[1]s стал хуже на %[2]d. Значение: %[3]d.",
		"shrink.tomorrow":               "Вы уже пробовали сегодня.",
		"shrink.next":                   "Следующая попытка через %[1]d ч %[2]d мин.",
		"level.value":                   "Ваше значение: %[1]d.",
		"level.position":                "Ваше место: %[1]d.",
		"level.not_found":               "У вас пока нет записи в этом чате.",
		"top.title":                     "🏅 Лучшие в чате:",
		"top.empty":                     "В таблице пока никого нет.",
		"worst.title":                   "🩹 Худшие в чате:",
		"worst.empty":                   "В таблице пока никого нет.",
		"board.line":                    "%[1]d. %[2]s: %[3]d",
		"errors.generic":                "Что-то пошло не так, попробуйте позже.",
		"errors.feature_disabled":       "Эта функция отключена.",
		"help": "/shrink - ежедневная попытка\n" +
			"/duel <ставка> - вызвать чат на дуэль\n" +
			"/level - ваше значение и место\n" +
			"/top - лучшие в чате\n" +
			"/worst - худшие в чате\n" +
			"Напишите @bot <ставка> в любом чате для дуэли.",
		"commands.shrink": "ежедневная попытка",
		"commands.duel":   "вызвать чат на дуэль",
		"commands.level":  "ваше значение и место",
		"commands.top":    "лучшие в чате",
		"commands.worst":  "худшие в чате",
		"commands.help":   "как играть",
	},
}

func init() {
	for tag, messages := range catalog {
		for key, msg := range messages {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Texts renders user-facing strings in one language.
type Texts struct {
	tag language.Tag
	p   *message.Printer
}

// TextsFor falls back to English for unknown or empty codes.
func TextsFor(languageCode string) *Texts {
	tag := language.English
	if languageCode != "" {
		if parsed, err := language.Parse(languageCode); err == nil {
			_, idx, _ := matcher.Match(parsed)
			tag = supported[idx]
		}
	}
	return &Texts{tag: tag, p: message.NewPrinter(tag)}
}

func (t *Texts) Language() language.Tag {
	return t.tag
}

func (t *Texts) T(key string, args ...interface{}) string {
	return t.p.Sprintf(key, args...)
}

func displayName(p string, id int64, viewerID int64) string {
	name := html.EscapeString(p)
	if name == "" {
		name = "???"
	}
	if id == viewerID {
		return "<u>" + name + "</u>"
	}
	return name
}

// Outcome describes a resolved duel: both sides, the winner, then optional
// positions and statistics.
func (t *Texts) Outcome(out *duel.Outcome, showRanks, showStats bool) string {
	var b strings.Builder
	b.WriteString(t.side(out.Top, "duel.result.top"))
	b.WriteString("\n\n")
	b.WriteString(t.side(out.Bottom, "duel.result.bottom"))
	b.WriteString("\n\n")
	b.WriteString(t.T("duel.result.winner", html.EscapeString(out.Winner.Participant.Name), int(out.Stake)))

	if showRanks && out.Winner.Ranked && out.Loser.Ranked {
		b.WriteString("\n\n")
		b.WriteString(t.T("duel.result.position", html.EscapeString(out.Winner.Participant.Name), out.Winner.Rank))
		b.WriteString("\n")
		b.WriteString(t.T("duel.result.position", html.EscapeString(out.Loser.Participant.Name), out.Loser.Rank))
	}

	if showStats && out.Stats != nil {
		s := out.Stats
		b.WriteString("\n\n")
		b.WriteString(t.T("duel.result.stats", s.Winner.WinRate*100, s.Loser.WinRate*100, s.Winner.WinStreakCurrent, s.Winner.WinStreakMax))
		if s.Loser.PrevWinStreak > 1 {
			b.WriteString("\n")
			b.WriteString(t.T("duel.result.lost_streak", s.Loser.PrevWinStreak))
		}
	}
	return b.String()
}

func (t *Texts) side(s duel.Side, keyPrefix string) string {
	name := html.EscapeString(s.Participant.Name)
	if s.Delta > 0 {
		return t.T(keyPrefix+"_worse", name, s.Delta)
	}
	return t.T(keyPrefix+"_better", name, -s.Delta)
}

func (t *Texts) Board(board Board, rows []services.Row, viewerID int64) string {
	title, empty := "top.title", "top.empty"
	if board == BoardWorst {
		title, empty = "worst.title", "worst.empty"
	}
	if len(rows) == 0 {
		return t.T(empty)
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, t.T("board.line", r.Position, displayName(r.Name, r.ParticipantID, viewerID), r.Value))
	}
	return t.T(title) + "\n\n" + strings.Join(lines, "\n")
}

// Treatment describes a daily single-party change.
func (t *Texts) Treatment(name string, delta int, res services.DeltaResult, showRank bool) string {
	name = html.EscapeString(name)
	text := t.T("shrink.worse", name, delta, res.Value)
	if delta < 0 {
		text = t.T("shrink.better", name, -delta, res.Value)
	}
	if showRank && res.Ranked {
		text += "\n" + t.T("level.position", res.Rank)
	}
	return text
}

// NextAttempt tells how long until the next UTC day.
func (t *Texts) NextAttempt(now time.Time) string {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	left := next.Sub(now)
	return t.T("shrink.next", int(left.Hours()), int(left.Minutes())%60)
}

func (t *Texts) Level(entry services.Row, showRank bool) string {
	text := t.T("level.value", entry.Value)
	if showRank && entry.Position > 0 {
		text += "\n" + t.T("level.position", entry.Position)
	}
	return text
}
