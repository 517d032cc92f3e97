package handlers

import (
	"errors"
	"net/http"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/handlers/render"
	"github.com/mohamederrajy/cryptos-backend/internal/handlers/userctx"
	"github.com/mohamederrajy/cryptos-backend/internal/logger"
	"github.com/mohamederrajy/cryptos-backend/internal/service/user"
)

func handleSignup(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName" validate:"required"`
	}

	type response struct {
		Message string       `json:"message"`
		User    userResponse `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		created, err := userService.Register(r.Context(), user.RegisterParams{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{
				Message: "User created successfully",
				User:    toUserResponse(created),
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusBadRequest)
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(userService userService, authService authService, walletService walletService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	type response struct {
		Message      string         `json:"message"`
		Token        string         `json:"token"`
		RefreshToken string         `json:"refreshToken"`
		User         userResponse   `json:"user"`
		Wallet       walletResponse `json:"wallet"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		usr, err := userService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			render.ServiceError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		pair, err := authService.GeneratePair(usr)
		if err != nil {
			l.Error("Failed to issue tokens", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		wallet, err := walletService.GetWallet(r.Context(), usr.ID)
		if err != nil {
			l.Error("Failed to load wallet", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			Message:      "Login successful",
			Token:        pair.Access,
			RefreshToken: pair.Refresh,
			User:         toUserResponse(usr),
			Wallet:       toWalletResponse(wallet),
		})
	})
}

func handleRefreshToken(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Token string `json:"token" validate:"required"`
	}

	type response struct {
		Token string `json:"token"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		access, err := authService.Refresh(r.Context(), req.Token)
		if err != nil {
			render.ServiceError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		render.JSON(w, response{Token: access})
	})
}

func handleMe(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		Profile userResponse   `json:"profile"`
		Wallet  walletResponse `json:"wallet"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usr, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		wallet, err := walletService.GetWallet(r.Context(), usr.ID)
		if err != nil {
			l.Error("Failed to load wallet", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			Profile: toUserResponse(usr),
			Wallet:  toWalletResponse(wallet),
		})
	})
}

func handleUpdateProfile(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Email     *string `json:"email" validate:"omitempty,email"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
	}

	type response struct {
		Message string       `json:"message"`
		User    userResponse `json:"user"`
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

		updated, err := userService.UpdateProfile(r.Context(), usr.ID, user.UpdateProfileParams{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})

		switch {
		case err == nil:
			render.JSON(w, response{
				Message: "Profile updated successfully",
				User:    toUserResponse(updated),
			})
		case errors.Is(err, apperrors.ErrEmailTaken):
			render.ServiceError(w, "Email already in use", http.StatusBadRequest)
		default:
			l.Error("Failed to update profile", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
