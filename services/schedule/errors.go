package schedule

import (
	"errors"
	"fmt"

	"spotly/models"
)

// Error codes surfaced by the scheduling engine. The HTTP layer translates
// them; the engine itself never maps them to transport concerns.
const (
	CodeInvalidInterval      = "invalidInterval"
	CodePastDate             = "pastDate"
	CodeConflict             = "conflict"
	CodeSlotReserved         = "slotReserved"
	CodeSlotUnavailable      = "slotUnavailable"
	CodeSlotAlreadyAvailable = "slotAlreadyAvailable"
	CodeNotFound             = "notFound"
)

// ScheduleError is the engine's failure value. Conflicting is populated only
// for CodeConflict, and always carries the complete set of overlapping slots.
type ScheduleError struct {
	Code        string
	Message     string
	Conflicting []models.Slot
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, message string) error {
	return &ScheduleError{Code: code, Message: message}
}

// NewConflictError builds a conflict error carrying every overlapping slot.
func NewConflictError(conflicting []models.Slot) error {
	return &ScheduleError{
		Code:        CodeConflict,
		Message:     fmt.Sprintf("interval overlaps %d existing slot(s)", len(conflicting)),
		Conflicting: conflicting,
	}
}

// CodeOf returns the scheduling error code of err, or "" if err is not a
// ScheduleError.
func CodeOf(err error) string {
	var se *ScheduleError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// ConflictingSlots returns the overlapping slots attached to a conflict
// error, or nil.
func ConflictingSlots(err error) []models.Slot {
	var se *ScheduleError
	if errors.As(err, &se) {
		return se.Conflicting
	}
	return nil
}
