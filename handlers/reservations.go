package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spotly/models"
	"spotly/services/reservation"
	"spotly/services/schedule"
	"spotly/utils"
)

// ReservationHandler exposes the reservation flow: book a slot, cancel a
// booking, list a user's bookings.
type ReservationHandler struct {
	Service reservation.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(service reservation.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: service}
}

func authenticatedUser(c *gin.Context) (string, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	userID, ok := userIDValue.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID, true
}

func (h *ReservationHandler) ReserveHandler(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req models.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	res, err := h.Service.Reserve(c.Request.Context(), userID, req.SlotID)
	if err != nil {
		if schedule.CodeOf(err) != "" {
			respondScheduleError(c, err)
			return
		}
		utils.GetLogger().Error("Failed to create reservation", zap.String("slotID", req.SlotID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation": res})
}

func (h *ReservationHandler) CancelHandler(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}
	reservationID := c.Param("reservationID")
	if reservationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing reservation ID in path"})
		return
	}

	res, err := h.Service.Cancel(c.Request.Context(), userID, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, reservation.ErrNotReservationOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, reservation.ErrReservationCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			if schedule.CodeOf(err) != "" {
				respondScheduleError(c, err)
				return
			}
			utils.GetLogger().Error("Failed to cancel reservation", zap.String("reservationID", reservationID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel reservation"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

func (h *ReservationHandler) ListMineHandler(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	reservations, err := h.Service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("Failed to list reservations", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reservations"})
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}
