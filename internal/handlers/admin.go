package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mohamederrajy/cryptos-backend/internal/apperrors"
	"github.com/mohamederrajy/cryptos-backend/internal/handlers/render"
	"github.com/mohamederrajy/cryptos-backend/internal/logger"
	"github.com/mohamederrajy/cryptos-backend/internal/models"
	"github.com/mohamederrajy/cryptos-backend/internal/repository"
)

func handleStatistics(adminService adminService, l logger.Logger) http.Handler {
	type requestStats struct {
		PendingCount  int64   `json:"pendingCount"`
		PendingSum    float64 `json:"pendingSum"`
		ApprovedCount int64   `json:"approvedCount"`
		ApprovedSum   float64 `json:"approvedSum"`
	}

	type response struct {
		TotalUsers   int64                   `json:"totalUsers"`
		TotalAdmins  int64                   `json:"totalAdmins"`
		TotalBalance map[string]float64      `json:"totalBalance"`
		Deposits     map[string]requestStats `json:"deposits"`
		Withdrawals  map[string]requestStats `json:"withdrawals"`
	}

	toRequestStats := func(in map[string]models.RequestStats) map[string]requestStats {
		out := make(map[string]requestStats, len(in))
		for code, s := range in {
			pendingSum, _ := s.PendingSum.Float64()
			approvedSum, _ := s.ApprovedSum.Float64()
			out[code] = requestStats{
				PendingCount:  s.PendingCount,
				PendingSum:    pendingSum,
				ApprovedCount: s.ApprovedCount,
				ApprovedSum:   approvedSum,
			}
		}
		return out
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := adminService.Statistics(r.Context())
		if err != nil {
			l.Error("Failed to aggregate statistics", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		totals := make(map[string]float64, len(stats.TotalBalance))
		for code, sum := range stats.TotalBalance {
			total, _ := sum.Float64()
			totals[code] = total
		}

		render.JSON(w, response{
			TotalUsers:   stats.TotalUsers,
			TotalAdmins:  stats.TotalAdmins,
			TotalBalance: totals,
			Deposits:     toRequestStats(stats.Deposits),
			Withdrawals:  toRequestStats(stats.Withdrawals),
		})
	})
}

func handleListUsers(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users, err := userService.List(r.Context())
		if err != nil {
			l.Error("Failed to list users", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		resp := make([]userResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, toUserResponse(u))
		}

		render.JSON(w, resp)
	})
}

func handleGetUser(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.PathValue("userId"))
		if err != nil {
			render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		usr, err := userService.GetByID(r.Context(), userID)

		switch {
		case err == nil:
			render.JSON(w, toUserResponse(usr))
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to get user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateUser(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Email *string `json:"email" validate:"omitempty,email"`
		Role  *string `json:"role" validate:"omitempty,oneof=user admin"`
	}

	type response struct {
		Message string       `json:"message"`
		User    userResponse `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.PathValue("userId"))
		if err != nil {
			render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		updated, err := userService.UpdateUser(r.Context(), userID, repository.UpdateUserParams{
			Email: req.Email,
			Role:  req.Role,
		})

		switch {
		case err == nil:
			render.JSON(w, response{
				Message: "User updated successfully",
				User:    toUserResponse(updated),
			})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrEmailTaken):
			render.ServiceError(w, "Email already in use", http.StatusBadRequest)
		default:
			l.Error("Failed to update user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeleteUser(userService userService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.PathValue("userId"))
		if err != nil {
			render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		err = userService.Delete(r.Context(), userID)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "User deleted successfully"})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to delete user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleCreateAdmin(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	type response struct {
		Message string    `json:"message"`
		AdminID uuid.UUID `json:"adminId"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		created, err := userService.CreateAdmin(r.Context(), req.Email, req.Password)

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{
				Message: "Admin user created successfully",
				AdminID: created.ID,
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusBadRequest)
		default:
			l.Error("Failed to create admin", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
