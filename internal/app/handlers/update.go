package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/shop-bot/internal/bot"
	"github.com/linemk/shop-bot/internal/jwt-new/jwtmiddleware"
)

// UpdateRequest - действие пользователя, пересланное шлюзом: ровно одно из полей
type UpdateRequest struct {
	Text         string `json:"text" validate:"required_without=CallbackData,excluded_with=CallbackData,max=4096"`
	CallbackData string `json:"callback_data" validate:"required_without=Text,excluded_with=Text,max=64"`
}

type ActionHandler interface {
	Handle(ctx context.Context, a bot.Action) (*bot.Response, error)
}

var validate = validator.New()

// UpdateHandler обрабатывает POST /api/bot/update.
// Chat id берётся из токена шлюза, тело содержит текст сообщения или payload кнопки.
func UpdateHandler(log *slog.Logger, actions ActionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateHandler"
		logger := log.With(slog.String("op", op))

		var req UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Info("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Info("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		chatID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("chatID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		resp, err := actions.Handle(r.Context(), bot.Action{
			ChatID:   chatID,
			Text:     req.Text,
			Callback: req.CallbackData,
		})
		if err != nil {
			if errors.Is(err, bot.ErrUnknownAction) || errors.Is(err, bot.ErrEmptyAction) {
				http.Error(w, "unknown action", http.StatusBadRequest)
				return
			}
			logger.Error("failed to handle action", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
}
