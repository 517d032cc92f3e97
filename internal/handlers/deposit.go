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

func handleSubmitDeposit(depositService depositService, l logger.Logger) http.Handler {
	type request struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency" validate:"required"`
	}

	type deposit struct {
		depositResponse
		Instructions string `json:"instructions"`
	}

	type response struct {
		Message string  `json:"message"`
		Deposit deposit `json:"deposit"`
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

		created, instructions, err := depositService.Submit(r.Context(), usr.ID, req.Amount, req.Currency)

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{
				Message: "Deposit request submitted successfully",
				Deposit: deposit{
					depositResponse: toDepositResponse(created),
					Instructions:    instructions,
				},
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrCurrencyNotSupported):
			render.ServiceError(w, "Currency not supported", http.StatusBadRequest)
		default:
			l.Error("Failed to submit deposit", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleMyDeposits(depositService depositService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usr, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		deposits, err := depositService.ListByUser(r.Context(), usr.ID)
		if err != nil {
			l.Error("Failed to list deposits", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toDepositResponses(deposits))
	})
}

func handlePendingDeposits(depositService depositService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deposits, err := depositService.ListPending(r.Context())
		if err != nil {
			l.Error("Failed to list pending deposits", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toDepositResponses(deposits))
	})
}

func handleProcessDeposit(depositService depositService, l logger.Logger) http.Handler {
	type request struct {
		Status string `json:"status" validate:"required,oneof=approved rejected"`
	}

	type response struct {
		Message string          `json:"message"`
		Deposit depositResponse `json:"deposit"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		depositID, err := uuid.Parse(r.PathValue("depositId"))
		if err != nil {
			render.ServiceError(w, "Invalid deposit id", http.StatusBadRequest)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		decided, err := depositService.Decide(r.Context(), admin.ID, depositID, req.Status)

		switch {
		case err == nil:
			render.JSON(w, response{
				Message: "Deposit " + decided.Status + " successfully",
				Deposit: toDepositResponse(decided),
			})
		case errors.Is(err, apperrors.ErrDepositNotFound):
			render.ServiceError(w, "Deposit not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAlreadyProcessed):
			render.ServiceError(w, "Deposit already processed", http.StatusBadRequest)
		default:
			l.Error("Failed to process deposit", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
