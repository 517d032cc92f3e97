package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/handlers/render"
	"github.com/mohamederrajy/cryptos-backend/internal/handlers/userctx"
	"github.com/mohamederrajy/cryptos-backend/internal/logger"
)

func handleRequestWithdrawal(withdrawalService withdrawalService, l logger.Logger) http.Handler {
	type request struct {
		Amount            decimal.Decimal `json:"amount"`
		Currency          string          `json:"currency" validate:"required"`
		WithdrawalAddress string          `json:"withdrawalAddress" validate:"required"`
	}

	type response struct {
		Message    string             `json:"message"`
		Withdrawal withdrawalResponse `json:"withdrawal"`
	}

	type insufficientResponse struct {
		Error     string  `json:"error"`
		Required  float64 `json:"required"`
		Available float64 `json:"available"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usr, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if !req.Amount.IsPositive() {
			render.ServiceError(w, "Amount must be positive", http.StatusBadRequest)
			return
		}

		created, err := withdrawalService.Request(r.Context(), usr.ID, req.Amount, req.Currency, req.WithdrawalAddress)

		var insufficient *apperrors.InsufficientFundsError

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{
				Message:    "Withdrawal request submitted successfully",
				Withdrawal: toWithdrawalResponse(created),
			}, http.StatusCreated)
		case errors.As(err, &insufficient):
			required, _ := insufficient.Required.Float64()
			available, _ := insufficient.Available.Float64()
			render.JSONWithStatus(w, insufficientResponse{
				Error:     "Insufficient balance",
				Required:  required,
				Available: available,
			}, http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrCurrencyNotSupported):
			render.ServiceError(w, "Currency not supported", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to request withdrawal", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleMyWithdrawals(withdrawalService withdrawalService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usr, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		withdrawals, err := withdrawalService.ListByUser(r.Context(), usr.ID)
		if err != nil {
			l.Error("Failed to list withdrawals", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toWithdrawalResponses(withdrawals))
	})
}

func handlePendingWithdrawals(withdrawalService withdrawalService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		withdrawals, err := withdrawalService.ListPending(r.Context())
		if err != nil {
			l.Error("Failed to list pending withdrawals", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toWithdrawalResponses(withdrawals))
	})
}

func handleProcessWithdrawal(withdrawalService withdrawalService, l logger.Logger) http.Handler {
	type request struct {
		Status string  `json:"status" validate:"required,oneof=approved rejected"`
		Reason *string `json:"reason"`
	}

	type response struct {
		Message    string             `json:"message"`
		Withdrawal withdrawalResponse `json:"withdrawal"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		withdrawalID, err := uuid.Parse(r.PathValue("withdrawalId"))
		if err != nil {
			render.ServiceError(w, "Invalid withdrawal id", http.StatusBadRequest)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		decided, err := withdrawalService.Decide(r.Context(), admin.ID, withdrawalID, req.Status, req.Reason)

		switch {
		case err == nil:
			render.JSON(w, response{
				Message:    "Withdrawal " + decided.Status + " successfully",
				Withdrawal: toWithdrawalResponse(decided),
			})
		case errors.Is(err, apperrors.ErrWithdrawalNotFound):
			render.ServiceError(w, "Withdrawal not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAlreadyProcessed):
			render.ServiceError(w, "Withdrawal already processed", http.StatusBadRequest)
		default:
			l.Error("Failed to process withdrawal", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
