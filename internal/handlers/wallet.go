package handlers

import (
	"net/http"

	"github.com/mohamederrajy/cryptos-backend/internal/handlers/render"
	"github.com/mohamederrajy/cryptos-backend/internal/handlers/userctx"
	"github.com/mohamederrajy/cryptos-backend/internal/logger"
)

func handleGetBalance(walletService walletService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usr, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		wallet, err := walletService.GetWallet(r.Context(), usr.ID)
		if err != nil {
			l.Error("Failed to get wallet", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toWalletResponse(wallet))
	})
}
