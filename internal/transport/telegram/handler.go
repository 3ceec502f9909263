package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	adminService "github.com/okhotnikdev/mediagate/internal/modules/admin/service"
	approvalDomain "github.com/okhotnikdev/mediagate/internal/modules/approval/domain"
	approvalService "github.com/okhotnikdev/mediagate/internal/modules/approval/service"
	ruleDomain "github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
	ruleService "github.com/okhotnikdev/mediagate/internal/modules/rule/service"
	schedulerService "github.com/okhotnikdev/mediagate/internal/modules/scheduler/service"
	"github.com/okhotnikdev/mediagate/internal/shared/config"
)

// Handler handles Telegram bot interactions
type Handler struct {
	cfg       *config.Config
	rules     *ruleService.Service
	approvals *approvalService.Service
	admin     *adminService.Service
	scheduler *schedulerService.Service
	sessions  *sessionStore
}

// New creates a new Telegram handler
func New(
	cfg *config.Config,
	rules *ruleService.Service,
	approvals *approvalService.Service,
	admin *adminService.Service,
	scheduler *schedulerService.Service,
) *Handler {
	return &Handler{
		cfg:       cfg,
		rules:     rules,
		approvals: approvals,
		admin:     admin,
		scheduler: scheduler,
		sessions:  newSessionStore(),
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/add_rule", bot.MatchTypeExact, h.handleAddRule)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/my_rules", bot.MatchTypeExact, h.handleMyRules)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/delete_rule", bot.MatchTypePrefix, h.handleDeleteRule)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact, h.handleStatus)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/reload_admins", bot.MatchTypeExact, h.handleReloadAdmins)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, h.handleCancel)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "decision:", bot.MatchTypePrefix, h.handleDecision)
}

// HandleUpdate processes updates no command handler matched. Free text is
// only meaningful while the sender has an add-rule wizard in progress.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	session := h.sessions.get(update.Message.From.ID)
	if session == nil {
		return
	}
	if !h.authorized(ctx, b, update) {
		return
	}

	h.advanceWizardWith(ctx, b, update, session)
}

func (h *Handler) advanceWizardWith(ctx context.Context, b *bot.Bot, update *models.Update, session *wizardSession) {
	ownerID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	reply, draft := advanceWizard(session, update.Message.Text)
	if draft == nil {
		h.reply(ctx, b, chatID, reply)
		return
	}

	saved, err := h.rules.CreateOrUpdate(ctx, draft)
	h.sessions.clear(ownerID)
	if err != nil {
		h.reply(ctx, b, chatID, fmt.Sprintf("❌ Failed to save the rule: %v", err))
		return
	}

	h.reply(ctx, b, chatID, fmt.Sprintf(
		"✅ Rule #%d saved!\n%s\n\nRunning the first check now…",
		saved.ID, formatRule(saved)))

	// First check runs out of band so the reply is not held up by media
	// resolution.
	go h.scheduler.CheckRule(ctx, saved)
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorized(ctx, b, update) {
		return
	}

	text := `👋 Welcome to MediaGate!

I watch subreddit feeds, fetch their media and send every new item to you for review. Approved items get posted to your channel.

Available commands:
/add_rule - Add a forwarding rule (guided)
/my_rules - List your rules
/delete_rule <id> - Delete a rule
/status - Show pipeline status
/reload_admins - Re-read the admin list
/cancel - Abandon the current wizard
/help - Show this help message`

	h.reply(ctx, b, update.Message.Chat.ID, text)
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleStart(ctx, b, update)
}

func (h *Handler) handleAddRule(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorized(ctx, b, update) {
		return
	}

	h.sessions.start(update.Message.From.ID)
	h.reply(ctx, b, update.Message.Chat.ID,
		"📡 Let's add a rule. Which subreddit should I watch? Send its name, like earthporn or r/earthporn.")
}

func (h *Handler) handleMyRules(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorized(ctx, b, update) {
		return
	}

	rules, err := h.rules.ListForOwner(ctx, update.Message.From.ID)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to list rules: %v", err))
		return
	}
	if len(rules) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID, "📭 No rules yet.\nUse /add_rule to add one.")
		return
	}

	var text strings.Builder
	text.WriteString("📋 Your rules:\n\n")
	for _, rule := range rules {
		text.WriteString(formatRule(rule))
		text.WriteString("\n")
	}

	h.reply(ctx, b, update.Message.Chat.ID, text.String())
}

func (h *Handler) handleDeleteRule(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorized(ctx, b, update) {
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /delete_rule <id>\nFind the id with /my_rules.")
		return
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Invalid rule id")
		return
	}

	if err := h.rules.Delete(ctx, id, update.Message.From.ID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to delete rule: %v", err))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Rule #%d deleted.", id))
}

func (h *Handler) handleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorized(ctx, b, update) {
		return
	}

	stats, err := h.approvals.Stats(ctx)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to get status: %v", err))
		return
	}

	lastTick := "never"
	if t := h.scheduler.LastTick(); !t.IsZero() {
		lastTick = t.Format("2006-01-02 15:04:05")
	}

	text := fmt.Sprintf(`📊 Pipeline status:

Active rules: %d
Items seen: %d (pending %d / approved %d / rejected %d)
Awaiting review: %d
Last check pass: %s

Check interval: %dm
Items per check: %d
Media dir: %s`,
		stats.ActiveRules,
		stats.TotalItems, stats.PendingItems, stats.ApprovedItems, stats.RejectedItems,
		stats.PendingReviews,
		lastTick,
		h.cfg.CheckIntervalMinutes,
		h.cfg.MaxItemsPerCheck,
		h.cfg.MediaDir)

	h.reply(ctx, b, update.Message.Chat.ID, text)
}

func (h *Handler) handleReloadAdmins(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorized(ctx, b, update) {
		return
	}

	count, err := h.admin.Reload()
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to reload admin list: %v", err))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Admin list reloaded: %d admins.", count))
}

func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorized(ctx, b, update) {
		return
	}

	if h.sessions.clear(update.Message.From.ID) {
		h.reply(ctx, b, update.Message.Chat.ID, "🚮 Wizard cancelled.")
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, "Nothing to cancel.")
}

func (h *Handler) handleDecision(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	if !h.admin.IsAdmin(query.From.ID) {
		h.answerCallback(ctx, b, query.ID, "You are not allowed to decide this.")
		return
	}

	msg := query.Message.Message
	if msg == nil {
		// The review message is too old for the API to hand back.
		h.answerCallback(ctx, b, query.ID, "This review is no longer available.")
		return
	}

	kind, err := approvalDomain.ParseDecisionKind(strings.TrimPrefix(query.Data, "decision:"))
	if err != nil {
		h.answerCallback(ctx, b, query.ID, "Unknown action.")
		return
	}

	resolution := h.approvals.HandleDecision(ctx, approvalDomain.Decision{
		Handle:  strconv.Itoa(msg.ID),
		Kind:    kind,
		ActorID: query.From.ID,
	})

	h.answerCallback(ctx, b, query.ID, resolution.Detail)

	caption := msg.Caption
	if caption != "" {
		caption += "\n\n"
	}
	caption += outcomeEmoji(resolution.Outcome) + " " + resolution.Detail

	params := &bot.EditMessageCaptionParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Caption:   caption,
	}
	if retryableOutcome(resolution.Outcome) {
		// Keep the buttons: the review is still pending and can be
		// decided again.
		params.ReplyMarkup = approvalKeyboard()
	}
	if _, err := b.EditMessageCaption(ctx, params); err != nil {
		slog.Error("Failed to edit review message", "message_id", msg.ID, "error", err)
	}
}

func (h *Handler) authorized(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if h.admin.IsAdmin(update.Message.From.ID) {
		return true
	}
	h.reply(ctx, b, update.Message.Chat.ID, "❌ You are not authorized to use this bot.")
	return false
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		slog.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) answerCallback(ctx context.Context, b *bot.Bot, queryID string, text string) {
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	}); err != nil {
		slog.Error("Failed to answer callback query", "error", err)
	}
}

func formatRule(rule *ruleDomain.Rule) string {
	sort := string(rule.SortMode)
	if rule.SortMode == ruleDomain.SortModeTop && rule.TimeWindow != "" {
		sort = fmt.Sprintf("%s/%s", rule.SortMode, rule.TimeWindow)
	}

	last := "never"
	if !rule.LastCheckedAt.IsZero() {
		last = rule.LastCheckedAt.UTC().Format("2006-01-02 15:04")
	}

	return fmt.Sprintf("#%d r/%s %s every %dh → %s (last check: %s)",
		rule.ID, rule.Source, sort, rule.FrequencyHours, rule.TargetChannel, last)
}

func outcomeEmoji(outcome approvalDomain.Outcome) string {
	switch outcome {
	case approvalDomain.OutcomeApproved:
		return "✅"
	case approvalDomain.OutcomeRejected:
		return "🗑"
	case approvalDomain.OutcomeExpired:
		return "⏳"
	case approvalDomain.OutcomeMediaMissing, approvalDomain.OutcomeDeliveryFailed:
		return "⚠️"
	default:
		return "❌"
	}
}

// retryableOutcome reports whether the review is still pending after this
// outcome, so the decision buttons should stay.
func retryableOutcome(outcome approvalDomain.Outcome) bool {
	switch outcome {
	case approvalDomain.OutcomeMediaMissing, approvalDomain.OutcomeDeliveryFailed, approvalDomain.OutcomeStoreError:
		return true
	}
	return false
}
