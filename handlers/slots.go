package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	spaceRepo "spotly/database/repository/space"
	"spotly/models"
	"spotly/services/schedule"
	"spotly/utils"
)

// SlotHandler exposes the space-management flow: slot CRUD and listings.
type SlotHandler struct {
	Scheduler schedule.SchedulingService
	Spaces    spaceRepo.SpaceRepository
}

// NewSlotHandler constructs a SlotHandler.
func NewSlotHandler(scheduler schedule.SchedulingService, spaces spaceRepo.SpaceRepository) *SlotHandler {
	return &SlotHandler{Scheduler: scheduler, Spaces: spaces}
}

// authorizeOwner checks that the authenticated owner owns the space in the
// path. Returns the space id, or "" after writing the error response.
func (h *SlotHandler) authorizeOwner(c *gin.Context) string {
	ownerIDValue, exists := c.Get("ownerID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Owner not authenticated"})
		return ""
	}
	ownerID, _ := ownerIDValue.(string)

	spaceID := c.Param("spaceID")
	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing space ID in path"})
		return ""
	}

	space, err := h.Spaces.FetchByID(c.Request.Context(), spaceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parking space not found"})
		} else {
			utils.GetLogger().Error("Failed to load parking space", zap.String("spaceID", spaceID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load parking space"})
		}
		return ""
	}
	if space.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not manage this parking space"})
		return ""
	}
	return spaceID
}

// slotWindow parses the day and clock strings of a slot payload.
func slotWindow(c *gin.Context, day, start, end string) (string, int, int, bool) {
	d, err := models.ParseDay(day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day", "message": err.Error()})
		return "", 0, 0, false
	}
	s, err := models.ParseClock(start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start time", "message": err.Error()})
		return "", 0, 0, false
	}
	e, err := models.ParseClock(end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end time", "message": err.Error()})
		return "", 0, 0, false
	}
	return d, s, e, true
}

func (h *SlotHandler) CreateSlotHandler(c *gin.Context) {
	spaceID := h.authorizeOwner(c)
	if spaceID == "" {
		return
	}

	var req models.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	day, start, end, ok := slotWindow(c, req.Day, req.Start, req.End)
	if !ok {
		return
	}

	slot, err := h.Scheduler.CreateSlot(c.Request.Context(), spaceID, day, start, end)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slot": slot.ToView()})
}

func (h *SlotHandler) UpdateSlotHandler(c *gin.Context) {
	spaceID := h.authorizeOwner(c)
	if spaceID == "" {
		return
	}
	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}
	if !h.slotBelongsToSpace(c, slotID, spaceID) {
		return
	}

	var req models.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	day, start, end, ok := slotWindow(c, req.Day, req.Start, req.End)
	if !ok {
		return
	}

	slot, err := h.Scheduler.UpdateSlot(c.Request.Context(), slotID, day, start, end)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot.ToView()})
}

func (h *SlotHandler) DeleteSlotHandler(c *gin.Context) {
	spaceID := h.authorizeOwner(c)
	if spaceID == "" {
		return
	}
	slotID := c.Param("slotID")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot ID in path"})
		return
	}
	if !h.slotBelongsToSpace(c, slotID, spaceID) {
		return
	}

	if err := h.Scheduler.DeleteSlot(c.Request.Context(), slotID); err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted"})
}

// ListSlotsHandler is public: renters browse a space's schedule with it.
func (h *SlotHandler) ListSlotsHandler(c *gin.Context) {
	spaceID := c.Param("spaceID")
	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing space ID in path"})
		return
	}

	day := c.Query("day")
	if day != "" {
		normalized, err := models.ParseDay(day)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day", "message": err.Error()})
			return
		}
		day = normalized
	}
	availableOnly := c.Query("available") == "true"

	slots, err := h.Scheduler.ListSlots(c.Request.Context(), spaceID, day, availableOnly)
	if err != nil {
		utils.GetLogger().Error("Failed to list slots", zap.String("spaceID", spaceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list slots"})
		return
	}

	views := make([]models.SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, s.ToView())
	}
	c.JSON(http.StatusOK, gin.H{"slots": views})
}

// slotBelongsToSpace rejects slot ids that live under a different space than
// the (already authorized) one in the path.
func (h *SlotHandler) slotBelongsToSpace(c *gin.Context, slotID, spaceID string) bool {
	slot, err := h.Scheduler.GetSlot(c.Request.Context(), slotID)
	if err != nil {
		respondScheduleError(c, err)
		return false
	}
	if slot.SpaceID != spaceID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found for this parking space"})
		return false
	}
	return true
}

// respondScheduleError translates the scheduling engine's error kinds into
// transport responses. Conflicts carry the complete list of overlapping slots.
func respondScheduleError(c *gin.Context, err error) {
	switch schedule.CodeOf(err) {
	case schedule.CodeInvalidInterval, schedule.CodePastDate:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case schedule.CodeConflict:
		conflicting := schedule.ConflictingSlots(err)
		views := make([]models.SlotView, 0, len(conflicting))
		for _, s := range conflicting {
			views = append(views, s.ToView())
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "conflicting": views})
	case schedule.CodeSlotReserved, schedule.CodeSlotUnavailable, schedule.CodeSlotAlreadyAvailable:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case schedule.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		utils.GetLogger().Error("Scheduling operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scheduling operation failed"})
	}
}
