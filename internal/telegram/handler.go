package telegram

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/moeinovic/bassuli/internal/config"
	"github.com/moeinovic/bassuli/internal/duel"
	"github.com/moeinovic/bassuli/internal/models"
	"github.com/moeinovic/bassuli/internal/services"
	"github.com/moeinovic/bassuli/internal/ws"
)

// Options are the per-deployment settings the handler passes down on every
// call instead of reading them from globals.
type Options struct {
	Features  config.FeatureToggles
	Direction services.Direction
	TopLimit  int
	// Source drives daily treatments; nil means the runtime generator.
	Source duel.Source
}

type UpdateHandler struct {
	client       Sender
	arbiter      *duel.Arbiter
	ledger       *services.StakeLedger
	ranking      *services.RankingService
	participants *services.ParticipantService
	hub          *ws.Hub
	opts         Options
	logger       *slog.Logger
}

func NewUpdateHandler(
	client Sender,
	arbiter *duel.Arbiter,
	ledger *services.StakeLedger,
	ranking *services.RankingService,
	participants *services.ParticipantService,
	hub *ws.Hub,
	opts Options,
	logger *slog.Logger,
) *UpdateHandler {
	if opts.Source == nil {
		opts.Source = duel.DefaultSource()
	}
	return &UpdateHandler{
		client:       client,
		arbiter:      arbiter,
		ledger:       ledger,
		ranking:      ranking,
		participants: participants,
		hub:          hub,
		opts:         opts,
		logger:       logger.With("component", "bot"),
	}
}

func (h *UpdateHandler) rules() duel.Rules {
	return duel.Rules{CheckAcceptor: h.opts.Features.CheckAcceptor, Direction: h.opts.Direction}
}

func (h *UpdateHandler) Handle(upd Update) {
	switch {
	case upd.CallbackQuery != nil:
		h.handleCallback(upd.CallbackQuery)
	case upd.InlineQuery != nil:
		h.handleInlineQuery(upd.InlineQuery)
	case upd.Message != nil:
		h.handleMessage(upd.Message)
	}
}

func chatScope(chatID int64) string {
	return "chat:" + strconv.FormatInt(chatID, 10)
}

func callbackScope(cb *CallbackQuery) string {
	if cb.Message != nil {
		return chatScope(cb.Message.Chat.ID)
	}
	return "inst:" + cb.ChatInstance
}

func (h *UpdateHandler) touch(u User) {
	if _, err := h.participants.Touch(u.ID, u.FullName()); err != nil {
		h.logger.Warn("couldn't refresh participant", "participant", u.ID, "error", err)
	}
}

func (h *UpdateHandler) handleMessage(msg *Message) {
	if msg.From == nil {
		return
	}
	cmd, args, ok := commandOf(msg)
	if !ok {
		return
	}
	h.touch(*msg.From)
	texts := TextsFor(msg.From.LanguageCode)
	scope := chatScope(msg.Chat.ID)

	var text string
	var kb *InlineKeyboardMarkup
	switch cmd {
	case "shrink":
		text = h.cmdShrink(scope, *msg.From, texts)
	case "duel":
		text, kb = h.cmdDuel(scope, *msg.From, args, texts)
	case "level":
		text = h.cmdLevel(scope, msg.From.ID, texts)
	case "top":
		text, kb = h.renderBoard(scope, BoardTop, 0, msg.From.ID, texts)
	case "worst":
		text, kb = h.renderBoard(scope, BoardWorst, 0, msg.From.ID, texts)
	case "help", "start":
		text = texts.T("help")
	default:
		return
	}

	if _, err := h.client.SendMessage(msg.Chat.ID, msg.MessageID, text, kb); err != nil {
		h.logger.Error("send reply", "command", cmd, "chat", msg.Chat.ID, "error", err)
	}
}

func parseStake(s string) (uint16, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint16(n), true
}

func (h *UpdateHandler) cmdDuel(scope string, from User, args string, texts *Texts) (string, *InlineKeyboardMarkup) {
	if strings.TrimSpace(args) == "" {
		return texts.T("duel.errors.no_args"), nil
	}
	stake, ok := parseStake(args)
	if !ok {
		return texts.T("duel.errors.invalid_bet"), nil
	}

	enough, err := h.arbiter.CanInitiate(scope, from.ID, stake, h.rules())
	if err != nil {
		h.logger.Error("check initiator", "scope", scope, "participant", from.ID, "error", err)
		return texts.T("errors.generic"), nil
	}
	h.logger.Debug("duel requested", "scope", scope, "initiator", from.ID, "stake", stake, "enough", enough)
	if !enough {
		return texts.T("duel.errors.not_enough.init"), nil
	}

	text := texts.T("duel.start", html.EscapeString(from.FullName()), int(stake))
	return text, DuelKeyboard(texts.T("duel.button"), h.arbiter.CreateInvitation(from.ID, stake))
}

func (h *UpdateHandler) cmdShrink(scope string, from User, texts *Texts) string {
	delta := duel.TreatmentDelta(h.opts.Source)
	res, err := h.ledger.AdjustDaily(scope, services.Delta{
		Participant: models.Participant{ID: from.ID, Name: from.FullName()},
		Amount:      delta,
	})
	next := texts.NextAttempt(time.Now())
	if errors.Is(err, services.ErrAlreadyTreated) {
		return texts.T("shrink.tomorrow") + "\n" + next
	}
	if err != nil {
		h.logger.Error("daily treatment", "scope", scope, "participant", from.ID, "error", err)
		return texts.T("errors.generic")
	}
	h.logger.Debug("treated", "scope", scope, "participant", from.ID, "delta", delta, "value", res.Value)
	if h.hub != nil {
		h.hub.Broadcast(scope, ws.WSMessage{Type: ws.EventLedgerAdjusted, Data: res})
	}
	return texts.Treatment(from.FullName(), delta, res, h.opts.Features.RankDisplay) + "\n" + next
}

func (h *UpdateHandler) cmdLevel(scope string, uid int64, texts *Texts) string {
	entry, err := h.ledger.Entry(scope, uid)
	if errors.Is(err, services.ErrEntryNotFound) {
		return texts.T("level.not_found")
	}
	if err != nil {
		h.logger.Error("level", "scope", scope, "participant", uid, "error", err)
		return texts.T("errors.generic")
	}
	return texts.Level(entry, h.opts.Features.RankDisplay)
}

func (h *UpdateHandler) renderBoard(scope string, board Board, page Page, viewerID int64, texts *Texts) (string, *InlineKeyboardMarkup) {
	ordering := h.ranking.Best()
	if board == BoardWorst {
		ordering = h.ranking.Worst()
	}
	rows, hasMore, err := h.ranking.Page(scope, int(page)*h.opts.TopLimit, h.opts.TopLimit, ordering)
	if err != nil {
		h.logger.Error("leaderboard", "scope", scope, "page", page, "error", err)
		return texts.T("errors.generic"), nil
	}
	text := texts.Board(board, rows, viewerID)
	if !h.opts.Features.TopUnlimited {
		return text, nil
	}
	return text, PaginationKeyboard(board, page, hasMore)
}

func (h *UpdateHandler) handleInlineQuery(q *InlineQuery) {
	stake, ok := parseStake(q.Query)
	if !ok {
		return
	}
	h.touch(q.From)
	texts := TextsFor(q.From.LanguageCode)

	article := InlineQueryResultArticle{
		Type:  "article",
		ID:    "duel",
		Title: texts.T("duel.inline.title", int(stake)),
		InputMessageContent: InputTextMessageContent{
			MessageText: texts.T("duel.start", html.EscapeString(q.From.FullName()), int(stake)),
			ParseMode:   "HTML",
		},
		ReplyMarkup: DuelKeyboard(texts.T("duel.button"), h.arbiter.CreateInvitation(q.From.ID, stake)),
	}
	if err := h.client.AnswerInlineQuery(q.ID, []InlineQueryResultArticle{article}); err != nil {
		h.logger.Error("answer inline query", "participant", q.From.ID, "error", err)
	}
}

func (h *UpdateHandler) handleCallback(cb *CallbackQuery) {
	texts := TextsFor(cb.From.LanguageCode)
	switch {
	case duel.HasPrefix(cb.Data):
		h.touch(cb.From)
		h.onDuelAccepted(cb, texts)
	case IsPageCallback(cb.Data):
		h.onPage(cb, texts)
	default:
		h.answer(cb, texts.T("duel.errors.invalid_button"), true)
	}
}

func (h *UpdateHandler) onDuelAccepted(cb *CallbackQuery, texts *Texts) {
	scope := callbackScope(cb)
	acceptor := models.Participant{ID: cb.From.ID, Name: cb.From.FullName()}

	res, err := h.arbiter.Resolve(scope, cb.Data, acceptor, h.rules())
	var invalid *duel.InvalidTokenError
	switch {
	case errors.As(err, &invalid):
		h.logger.Warn("invalid duel button", "data", cb.Data, "error", err)
		h.answer(cb, texts.T("duel.errors.invalid_button"), true)
		return
	case err != nil:
		h.logger.Error("resolve duel", "scope", scope, "error", err)
		h.answer(cb, texts.T("errors.generic"), true)
		return
	}

	switch res.State {
	case duel.RejectedSamePerson:
		h.answer(cb, texts.T("duel.errors.same_person"), true)
	case duel.RejectedConcurrent:
		h.answer(cb, texts.T("duel.errors.in_progress"), true)
	case duel.RejectedInsufficientAcceptor:
		h.answer(cb, texts.T("duel.errors.not_enough.accept"), true)
	case duel.RejectedInsufficientInitiator:
		h.edit(cb, texts.T("duel.errors.not_enough.init"), nil)
		h.answer(cb, "", false)
	case duel.Resolved:
		f := h.opts.Features
		h.edit(cb, texts.Outcome(res.Outcome, f.RankDisplay, f.ShowStats), nil)
		h.answer(cb, "", false)
		if h.hub != nil {
			h.hub.Broadcast(scope, ws.WSMessage{Type: ws.EventDuelResolved, Data: res.Outcome})
		}
	}
}

func (h *UpdateHandler) onPage(cb *CallbackQuery, texts *Texts) {
	if !h.opts.Features.TopUnlimited {
		h.answer(cb, texts.T("errors.feature_disabled"), true)
		return
	}
	board, page, err := ParsePageCallback(cb.Data)
	if err != nil {
		h.logger.Warn("invalid page callback", "data", cb.Data, "error", err)
		h.answer(cb, texts.T("duel.errors.invalid_button"), true)
		return
	}

	text, kb := h.renderBoard(callbackScope(cb), board, page, cb.From.ID, texts)
	h.edit(cb, text, kb)
	h.answer(cb, "", false)
}

func (h *UpdateHandler) edit(cb *CallbackQuery, text string, kb *InlineKeyboardMarkup) {
	var err error
	if cb.Message != nil {
		err = h.client.EditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text, kb)
	} else {
		err = h.client.EditInlineMessageText(cb.InlineMessageID, text, kb)
	}
	if err != nil {
		h.logger.Error("edit message", "callback", cb.ID, "error", err)
	}
}

func (h *UpdateHandler) answer(cb *CallbackQuery, text string, alert bool) {
	if err := h.client.AnswerCallbackQuery(cb.ID, text, alert); err != nil {
		h.logger.Error("answer callback", "callback", cb.ID, "error", err)
	}
}

// commandOf returns the command name without slash or @botname, and the rest
// of the text.
func commandOf(msg *Message) (string, string, bool) {
	for _, e := range msg.Entities {
		if e.Type != "bot_command" || e.Offset != 0 || e.Length > len(msg.Text) {
			continue
		}
		cmd := strings.TrimPrefix(msg.Text[:e.Length], "/")
		cmd = strings.ToLower(strings.SplitN(cmd, "@", 2)[0])
		return cmd, strings.TrimSpace(msg.Text[e.Length:]), true
	}
	return "", "", false
}

// Commands lists the bot menu in the given language.
func Commands(texts *Texts) []BotCommand {
	names := []string{"shrink", "duel", "level", "top", "worst", "help"}
	out := make([]BotCommand, 0, len(names))
	for _, n := range names {
		out = append(out, BotCommand{Command: n, Description: texts.T(fmt.Sprintf("commands.%s", n))})
	}
	return out
}
