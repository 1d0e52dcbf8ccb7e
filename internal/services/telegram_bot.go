package services

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"crmhub/internal/logging"
	"crmhub/internal/models"
)

// DealNotifier is told about deals that reached a closing stage.
type DealNotifier interface {
	DealClosed(ctx context.Context, deal *models.Deal) error
}

type TelegramService struct {
	token  string
	chatID int64
	client *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

func NewTelegramService(botToken string, chatID int64) *TelegramService {
	return &TelegramService{
		token:  botToken,
		chatID: chatID,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// api connects lazily; NewBotAPI calls getMe, so nothing talks to Telegram until the first message.
func (t *TelegramService) api() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.token, tgbotapi.APIEndpoint, t.client)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	t.bot = bot
	return bot, nil
}

func (t *TelegramService) DealClosed(ctx context.Context, deal *models.Deal) error {
	if t == nil || t.token == "" || t.chatID == 0 {
		logging.Logger.Debug().Msg("[tg][skip] token or chat id empty")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bot, err := t.api()
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, dealClosedText(deal))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	logging.Logger.Info().Str("deal_id", deal.ID).Str("stage", string(deal.Stage)).Msg("[tg][send] deal closed")
	return nil
}

func dealClosedText(d *models.Deal) string {
	var b strings.Builder
	icon := "✅"
	if d.Stage != models.StageWon {
		icon = "❌"
	}
	fmt.Fprintf(&b, "%s <b>Deal %s</b>\n", icon, html.EscapeString(strings.ToLower(string(d.Stage))))
	fmt.Fprintf(&b, "<b>%s</b>", html.EscapeString(d.DealName))
	if d.CustomerName != "" {
		fmt.Fprintf(&b, " · %s", html.EscapeString(d.CustomerName))
	}
	if d.TotalContractValue != nil {
		fmt.Fprintf(&b, "\nValue: %s %s", d.TotalContractValue.StringFixed(2), html.EscapeString(d.Currency))
	}
	if d.LeadOwner != "" {
		fmt.Fprintf(&b, "\nOwner: %s", html.EscapeString(d.LeadOwner))
	}
	return strings.TrimRight(b.String(), " ")
}
