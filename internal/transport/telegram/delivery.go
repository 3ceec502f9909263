package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	approvalDomain "github.com/okhotnikdev/mediagate/internal/modules/approval/domain"
	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
	"github.com/samber/oops"
)

// Delivery sends resolved media through the bot: review copies go to rule
// owners, approved copies go to their target channels. Message IDs double
// as decision handles.
type Delivery struct {
	b *bot.Bot
}

// NewDelivery creates a new bot-backed delivery. The bot is attached with
// SetBot once it exists; it depends on the handler chain this delivery
// feeds into.
func NewDelivery() *Delivery {
	return &Delivery{}
}

// SetBot attaches the bot
func (d *Delivery) SetBot(b *bot.Bot) {
	d.b = b
}

// DeliverForApproval uploads the item's media to its owner with an
// approve/reject keyboard and returns the review message ID as the
// decision handle.
func (d *Delivery) DeliverForApproval(ctx context.Context, ownerID int64, item *itemDomain.Item) (string, error) {
	file, err := os.Open(item.FilePath)
	if err != nil {
		return "", oops.With("item_id", item.ID, "file_path", item.FilePath, "context", "failed to open media file").Wrap(err)
	}
	defer file.Close()

	upload := &models.InputFileUpload{Filename: filepath.Base(item.FilePath), Data: file}
	caption := approvalCaption(item)

	var msg *models.Message
	if item.MediaKind == itemDomain.MediaKindVideo {
		msg, err = d.b.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:      ownerID,
			Video:       upload,
			Caption:     caption,
			ReplyMarkup: approvalKeyboard(),
		})
	} else {
		msg, err = d.b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      ownerID,
			Photo:       upload,
			Caption:     caption,
			ReplyMarkup: approvalKeyboard(),
		})
	}
	if err != nil {
		return "", oops.With("item_id", item.ID, "owner_id", ownerID, "context", "failed to send review message").Wrap(err)
	}

	return strconv.Itoa(msg.ID), nil
}

// ForwardToChannel uploads the approved media to the target channel and
// returns the posted message ID.
func (d *Delivery) ForwardToChannel(ctx context.Context, targetChannel string, pending *approvalDomain.PendingApproval) (string, error) {
	file, err := os.Open(pending.ItemFilePath)
	if err != nil {
		return "", oops.With("item_id", pending.ItemID, "file_path", pending.ItemFilePath, "context", "failed to open media file").Wrap(err)
	}
	defer file.Close()

	upload := &models.InputFileUpload{Filename: filepath.Base(pending.ItemFilePath), Data: file}
	caption := forwardCaption(pending)

	var msg *models.Message
	if strings.HasSuffix(strings.ToLower(pending.ItemFilePath), ".mp4") {
		msg, err = d.b.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:  targetChannel,
			Video:   upload,
			Caption: caption,
		})
	} else {
		msg, err = d.b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  targetChannel,
			Photo:   upload,
			Caption: caption,
		})
	}
	if err != nil {
		return "", oops.With("item_id", pending.ItemID, "target_channel", targetChannel, "context", "failed to post to channel").Wrap(err)
	}

	return strconv.Itoa(msg.ID), nil
}

func approvalCaption(item *itemDomain.Item) string {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("📥 r/%s\n", item.Source))
	text.WriteString(truncateRunes(item.Title, 300))
	if item.Author != "" {
		text.WriteString(fmt.Sprintf("\nby u/%s", item.Author))
	}
	text.WriteString("\n\n" + item.Permalink)
	return text.String()
}

func forwardCaption(pending *approvalDomain.PendingApproval) string {
	return fmt.Sprintf("%s\n\n%s", truncateRunes(pending.ItemTitle, 300), pending.ItemPermalink)
}

func approvalKeyboard() models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "✅ Approve", CallbackData: "decision:approve"},
			{Text: "❌ Reject", CallbackData: "decision:reject"},
		}},
	}
}

// truncateRunes keeps captions inside Telegram's limit without splitting
// a multi-byte character.
func truncateRunes(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
