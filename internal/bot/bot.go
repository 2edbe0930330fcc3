// Package bot реализует телеграм-клиент трекера подписок: длинный опрос
// обновлений и пошаговые диалоги входа и добавления подписки.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kmalakhov/subtracker/internal/lib/sl"
	"github.com/kmalakhov/subtracker/internal/models"
)

const (
	buttonList   = "Мои подписки"
	buttonAdd    = "Добавить подписку"
	buttonStats  = "Статистика"
	buttonCancel = "Отмена"
)

var mainKeyboard = &ReplyKeyboardMarkup{
	Keyboard: [][]KeyboardButton{
		{{Text: buttonList}, {Text: buttonAdd}},
		{{Text: buttonStats}},
	},
	ResizeKeyboard: true,
}

var cancelKeyboard = &ReplyKeyboardMarkup{
	Keyboard:       [][]KeyboardButton{{{Text: buttonCancel}}},
	ResizeKeyboard: true,
}

var cycleKeyboard = &ReplyKeyboardMarkup{
	Keyboard: [][]KeyboardButton{
		{{Text: "Ежемесячно"}, {Text: "Ежегодно"}},
		{{Text: "Еженедельно"}, {Text: buttonCancel}},
	},
	ResizeKeyboard: true,
}

// Bot связывает Telegram-клиент, клиент API и хранилище сессий.
type Bot struct {
	tg       *TelegramClient
	api      *APIClient
	sessions *Sessions
	log      *slog.Logger
}

// New создаёт бота.
func New(tg *TelegramClient, api *APIClient, log *slog.Logger) *Bot {
	return &Bot{
		tg:       tg,
		api:      api,
		sessions: NewSessions(),
		log:      log,
	}
}

// Run крутит цикл длинного опроса до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			b.log.Info("bot shutting down gracefully")
			return nil
		default:
		}

		updates, err := b.tg.GetUpdates(ctx, offset)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			b.log.Error("failed to get updates", sl.Err(err))
			time.Sleep(3 * time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message.Chat.ID, update.Message.Text)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, chatID int64, text string) {
	session := b.sessions.Get(chatID)

	switch {
	case strings.HasPrefix(text, "/start"):
		b.handleStart(ctx, chatID)
	case strings.HasPrefix(text, "/help"):
		b.handleHelp(ctx, chatID)
	case strings.HasPrefix(text, "/login"):
		b.handleLogin(ctx, chatID, session)
	case strings.HasPrefix(text, "/list") || text == buttonList:
		b.handleList(ctx, chatID, session)
	case strings.HasPrefix(text, "/add") || text == buttonAdd:
		b.handleAdd(ctx, chatID, session)
	case strings.HasPrefix(text, "/delete"):
		b.handleDelete(ctx, chatID, session, text)
	case strings.HasPrefix(text, "/stats") || text == buttonStats:
		b.handleStats(ctx, chatID, session)
	case strings.HasPrefix(text, "/cancel") || text == buttonCancel:
		b.handleCancel(ctx, chatID)
	default:
		b.handleDialogInput(ctx, chatID, session, text)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	message := "Добро пожаловать в SubTracker!\n\n" +
		"Я помогу вам управлять подписками и контролировать расходы.\n\n" +
		"Доступные команды:\n" +
		"/login - Войти в аккаунт\n" +
		"/list - Показать все подписки\n" +
		"/add - Добавить новую подписку\n" +
		"/delete [id] - Удалить подписку\n" +
		"/stats - Показать статистику\n" +
		"/help - Справка"
	b.send(ctx, chatID, message, mainKeyboard)
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	message := "Справка по командам:\n\n" +
		"/login - Войти в аккаунт\n" +
		"/list - Показать все ваши подписки\n" +
		"/add - Добавить новую подписку\n" +
		"/delete [id] - Удалить подписку по ID\n" +
		"/stats - Показать статистику расходов\n" +
		"/cancel - Отменить текущую операцию"
	b.send(ctx, chatID, message, nil)
}

func (b *Bot) handleLogin(ctx context.Context, chatID int64, session *Session) {
	session.Stage = StageLoginUsername
	session.Draft = Draft{}
	b.send(ctx, chatID, "Введите имя пользователя:", cancelKeyboard)
}

func (b *Bot) handleList(ctx context.Context, chatID int64, session *Session) {
	if !b.requireToken(ctx, chatID, session) {
		return
	}
	items, err := b.api.ListSubscriptions(ctx, session.Token)
	if err != nil {
		b.replyAPIError(ctx, chatID, session, err, "Ошибка при загрузке подписок.")
		return
	}
	if len(items) == 0 {
		b.send(ctx, chatID, "У вас пока нет подписок.\n\nИспользуйте /add для добавления первой подписки.", mainKeyboard)
		return
	}

	var sb strings.Builder
	sb.WriteString("Ваши подписки:\n\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "%s\n", item.Name)
		fmt.Fprintf(&sb, "  %s %s, %s\n", item.Price, item.Currency, translateBillingCycle(item.BillingCycle))
		fmt.Fprintf(&sb, "  Следующая оплата: %s\n", item.NextPaymentDate)
		fmt.Fprintf(&sb, "  ID: %s\n\n", item.ID)
	}
	sb.WriteString("Для удаления используйте: /delete [ID]")
	b.send(ctx, chatID, sb.String(), mainKeyboard)
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, session *Session) {
	if !b.requireToken(ctx, chatID, session) {
		return
	}
	session.Stage = StageAddName
	session.Draft = Draft{}
	b.send(ctx, chatID, "Добавление новой подписки.\n\nВведите название подписки (например: Netflix):", cancelKeyboard)
}

func (b *Bot) handleDelete(ctx context.Context, chatID int64, session *Session, text string) {
	if !b.requireToken(ctx, chatID, session) {
		return
	}
	parts := strings.Fields(text)
	if len(parts) < 2 {
		b.send(ctx, chatID, "Укажите ID подписки.\nПример: /delete abc123", nil)
		return
	}
	deleted, err := b.api.DeleteSubscription(ctx, session.Token, parts[1])
	if err != nil {
		b.replyAPIError(ctx, chatID, session, err, "Ошибка при удалении подписки.")
		return
	}
	if deleted {
		b.send(ctx, chatID, "Подписка успешно удалена.", mainKeyboard)
	} else {
		b.send(ctx, chatID, "Подписка не найдена или уже удалена.", mainKeyboard)
	}
}

func (b *Bot) handleStats(ctx context.Context, chatID int64, session *Session) {
	if !b.requireToken(ctx, chatID, session) {
		return
	}
	items, err := b.api.ListSubscriptions(ctx, session.Token)
	if err != nil {
		b.replyAPIError(ctx, chatID, session, err, "Ошибка при загрузке статистики.")
		return
	}
	if len(items) == 0 {
		b.send(ctx, chatID, "Статистика недоступна: у вас нет подписок.", mainKeyboard)
		return
	}

	activeCount := 0
	var nearest *SubscriptionItem
	for i, item := range items {
		if !item.IsActive {
			continue
		}
		activeCount++
		if nearest == nil || item.NextPaymentDate < nearest.NextPaymentDate {
			nearest = &items[i]
		}
	}

	var sb strings.Builder
	sb.WriteString("Статистика подписок:\n\n")
	fmt.Fprintf(&sb, "Активных подписок: %d\n", activeCount)
	if nearest != nil {
		fmt.Fprintf(&sb, "Ближайшая оплата: %s\n", nearest.NextPaymentDate)
		fmt.Fprintf(&sb, "  %s - %s %s\n", nearest.Name, nearest.Price, nearest.Currency)
	}
	b.send(ctx, chatID, sb.String(), mainKeyboard)
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	b.sessions.Reset(chatID)
	b.send(ctx, chatID, "Операция отменена.", mainKeyboard)
}

func (b *Bot) handleDialogInput(ctx context.Context, chatID int64, session *Session, text string) {
	switch session.Stage {
	case StageLoginUsername:
		session.Username = text
		session.Stage = StageLoginPassword
		b.send(ctx, chatID, "Введите пароль:", cancelKeyboard)

	case StageLoginPassword:
		token, err := b.api.Login(ctx, session.Username, text)
		if err != nil {
			b.log.Error("login failed", sl.Err(err))
			session.Stage = StageNone
			b.send(ctx, chatID, "Неверное имя пользователя или пароль. Попробуйте /login ещё раз.", mainKeyboard)
			return
		}
		session.Token = token
		session.Stage = StageNone
		b.send(ctx, chatID, "Вы успешно вошли в аккаунт.", mainKeyboard)

	case StageAddName:
		session.Draft.Name = text
		session.Stage = StageAddPrice
		b.send(ctx, chatID, "Введите цену подписки (например: 15.99):", cancelKeyboard)

	case StageAddPrice:
		if !models.ValidPrice(text) {
			b.send(ctx, chatID, "Неверный формат цены. Введите число, не более двух знаков после точки (например: 15.99):", cancelKeyboard)
			return
		}
		session.Draft.Price = text
		session.Stage = StageAddCurrency
		b.send(ctx, chatID, "Введите валюту из трёх букв (например: USD):", cancelKeyboard)

	case StageAddCurrency:
		if len(text) != 3 {
			b.send(ctx, chatID, "Неверная валюта. Введите трёхбуквенный код (например: USD):", cancelKeyboard)
			return
		}
		session.Draft.Currency = strings.ToUpper(text)
		session.Stage = StageAddCycle
		b.send(ctx, chatID, "Выберите цикл оплаты:", cycleKeyboard)

	case StageAddCycle:
		cycle, ok := parseBillingCycle(text)
		if !ok {
			b.send(ctx, chatID, "Неверный цикл оплаты. Выберите из предложенных вариантов:", cycleKeyboard)
			return
		}
		session.Draft.BillingCycle = cycle
		session.Stage = StageAddDate
		b.send(ctx, chatID, "Введите дату следующей оплаты в формате ГГГГ-ММ-ДД (например: 2026-12-25):", cancelKeyboard)

	case StageAddDate:
		if _, err := time.Parse(time.DateOnly, text); err != nil {
			b.send(ctx, chatID, "Неверный формат даты. Используйте ГГГГ-ММ-ДД (например: 2026-12-25):", cancelKeyboard)
			return
		}
		session.Draft.NextPaymentDate = text
		b.finishAdd(ctx, chatID, session)

	default:
		b.send(ctx, chatID, "Не понимаю команду. Используйте /help для справки.", nil)
	}
}

func (b *Bot) finishAdd(ctx context.Context, chatID int64, session *Session) {
	req := CreateSubscriptionRequest{
		Name:            session.Draft.Name,
		Price:           session.Draft.Price,
		Currency:        session.Draft.Currency,
		BillingCycle:    session.Draft.BillingCycle,
		NextPaymentDate: session.Draft.NextPaymentDate,
	}
	item, err := b.api.CreateSubscription(ctx, session.Token, req)
	if err != nil {
		b.replyAPIError(ctx, chatID, session, err, "Ошибка при добавлении подписки.")
		return
	}
	b.sessions.Reset(chatID)
	b.send(ctx, chatID, fmt.Sprintf("Подписка %q успешно добавлена.", item.Name), mainKeyboard)
}

// requireToken проверяет, что пользователь вошёл, и подсказывает /login если нет.
func (b *Bot) requireToken(ctx context.Context, chatID int64, session *Session) bool {
	if session.Token == "" {
		b.send(ctx, chatID, "Сначала войдите в аккаунт: /login", mainKeyboard)
		return false
	}
	return true
}

func (b *Bot) replyAPIError(ctx context.Context, chatID int64, session *Session, err error, fallback string) {
	if errors.Is(err, ErrUnauthorized) {
		session.Token = ""
		session.Stage = StageNone
		b.send(ctx, chatID, "Сессия истекла. Войдите снова: /login", mainKeyboard)
		return
	}
	b.log.Error("api call failed", sl.Err(err))
	b.send(ctx, chatID, fallback, mainKeyboard)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, keyboard *ReplyKeyboardMarkup) {
	if err := b.tg.SendMessage(ctx, chatID, text, keyboard); err != nil {
		b.log.Error("failed to send message", sl.Err(err))
	}
}

func parseBillingCycle(text string) (string, bool) {
	switch text {
	case "Ежемесячно":
		return models.CycleMonthly, true
	case "Ежегодно":
		return models.CycleYearly, true
	case "Еженедельно":
		return models.CycleWeekly, true
	case models.CycleMonthly, models.CycleYearly, models.CycleWeekly:
		return text, true
	default:
		return "", false
	}
}

func translateBillingCycle(cycle string) string {
	switch cycle {
	case models.CycleMonthly:
		return "Ежемесячно"
	case models.CycleYearly:
		return "Ежегодно"
	case models.CycleWeekly:
		return "Еженедельно"
	default:
		return cycle
	}
}
