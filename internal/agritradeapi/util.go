package agritradeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/redis/go-redis/v9"

	"agritrade/internal/telegram"
	"agritrade/internal/worker"
)

const (
	MessageTargetSync         = "sync"
	MessageTargetNotification = "notify"

	MessageStyleSuccess = "success"
	MessageStyleWarning = "warning"
	MessageStyleError   = "error"
	MessageStyleInfo    = "info"

	MessageTypeCustom     = "custom"
	MessageTypeLotSold    = "lot_sold"
	MessageTypeDeposit    = "deposit"
	MessageTypeAutofill   = "autofill_reward"
	MessageTypeWithdrawal = "withdrawal_update"
)

type WsResponseData struct {
	Target string           `json:"target"` // Websocket message type: 'notify', 'sync'
	User   UserData         `json:"user"`
	Data   NotificationData `json:"data"`
}

type NotificationData struct {
	Id      int     `json:"id"`
	Style   string  `json:"style"` // Target component style: 'success', 'warning', 'error', 'info'
	Type    string  `json:"type"`
	Message string  `json:"message"`
	Amount  float64 `json:"amount"` // Reward, Transaction, etc. USDT amount
}

func EscapeMarkdownV2(text string) string {
	specialChars := []string{"_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	for _, char := range specialChars {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

func SendTelegramMessage(msg string, chat string) error {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		err := errors.New("TELEGRAM_TOKEN is not set")
		return err
	}
	var chatId string
	switch chat {
	case "signup":
		chatId = os.Getenv("SIGNUP_CHAT_ID")
	case "finance":
		chatId = os.Getenv("FINANCE_CHAT_ID")
	default:
		chatId = os.Getenv("DEFAULT_CHAT_ID")
	}
	if chatId == "" {
		chatId = os.Getenv("DEFAULT_CHAT_ID")
	}
	if chatId == "" {
		err := errors.New("CHAT_ID is not set")
		return err
	}
	chatIdInt, err := strconv.Atoi(chatId)
	if err != nil {
		return err
	}
	id := int64(chatIdInt)
	bot, err := telegram.NewBot(token)
	if err != nil {
		return err
	}
	// Send a message
	_, err = bot.Api.SendMessage(id, msg, &gotgbot.SendMessageOpts{
		ParseMode: "MarkdownV2",
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
			IsDisabled: true,
		},
	})
	if err != nil {
		return err
	}
	return nil
}

var notifyPool = worker.NewPool(4, 64)

// ConfigureNotifyPool applies the deployment config's worker sizing. Called at
// startup, before anything is queued.
func ConfigureNotifyPool(speed int, queue int) {
	if speed <= 0 {
		speed = 4
	}
	if queue > 0 {
		notifyPool = worker.NewPool(speed, queue)
		return
	}
	notifyPool.Resize(speed)
}

type telegramTask struct {
	msg  string
	chat string
}

func (t telegramTask) Execute() {
	if err := SendTelegramMessage(t.msg, t.chat); err != nil {
		fmt.Println("telegram send failed:", err)
	}
}

// QueueTelegramMessage dispatches an ops notification off the request path.
func QueueTelegramMessage(msg string, chat string) {
	notifyPool.Exec(telegramTask{msg: msg, chat: chat})
}

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// FloorFloat truncates toward zero at the given precision; used where
// over-crediting would break pool accounting.
func FloorFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Floor(val*ratio) / ratio
}

// PublishUserSync pushes an up-to-date snapshot of the user to their
// notification channel so an open dashboard refreshes instantly.
func PublishUserSync(rdb *redis.Client, user User) {
	data := WsResponseData{
		Target: MessageTargetSync,
		User:   user.Data(),
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	_ = rdb.Publish(context.Background(), fmt.Sprintf("notification_ch@%d", user.Id), jsonData).Err()
}

// PublishNotification pushes a one-off event (lot sold, deposit credited) to
// the user's channel.
func PublishNotification(rdb *redis.Client, user User, data NotificationData) {
	payload := WsResponseData{
		Target: MessageTargetNotification,
		User:   user.Data(),
		Data:   data,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = rdb.Publish(context.Background(), fmt.Sprintf("notification_ch@%d", user.Id), jsonData).Err()
}
