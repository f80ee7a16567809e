package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/formatting"
	"github.com/m04kA/SMC-TherapySessions/internal/recurrence"
	"github.com/m04kA/SMC-TherapySessions/internal/service/availability/models"
	"github.com/m04kA/SMC-TherapySessions/pkg/types"
)

// Service сервис окон доступности терапевтов
type Service struct {
	repo   AvailabilityRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo AvailabilityRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetAvailability возвращает недельные окна терапевта
func (s *Service) GetAvailability(ctx context.Context, req *models.GetAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("GetAvailability: fetching availability for therapist=%s", req.TherapistID)

	if req.TherapistID == "" {
		return nil, fmt.Errorf("%w: therapistId is required", ErrInvalidInput)
	}
	if req.Timezone != "" {
		if _, err := formatting.LoadLocation(req.Timezone); err != nil {
			s.logger.Warn("GetAvailability: unknown timezone=%q", req.Timezone)
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
		}
	}

	slots, err := s.repo.ListByTherapist(ctx, req.TherapistID)
	if err != nil {
		s.logger.Error("GetAvailability: repository error for therapist=%s: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: GetAvailability - repository error: %v", ErrInternal, err)
	}

	resp := &models.AvailabilityResponse{
		TherapistID: req.TherapistID,
		Slots:       make([]models.SlotResponse, 0, len(slots)),
	}
	if req.Date != nil {
		date := req.Date.Format(domain.DateFormat)
		resp.Date = &date
	}

	for _, slot := range slots {
		item := models.SlotResponse{
			Weekday:     slot.Weekday,
			WeekdayName: formatting.WeekdayName(slot.Weekday),
			StartTime:   slot.StartTime.String(),
			EndTime:     slot.EndTime.String(),
			Timezone:    slot.Timezone,
		}

		if req.Date != nil {
			if int(req.Date.Weekday()) != slot.Weekday {
				continue
			}
			startsAt, display, err := renderOnDate(slot, *req.Date, req.Timezone)
			if err != nil {
				s.logger.Error("GetAvailability: cannot render slot of therapist=%s (timezone=%s): %v", req.TherapistID, slot.Timezone, err)
				return nil, fmt.Errorf("%w: GetAvailability - render slot: %v", ErrInternal, err)
			}
			item.StartsAt = &startsAt
			item.Display = &display
		}

		resp.Slots = append(resp.Slots, item)
	}

	s.logger.Info("GetAvailability: returning %d slots for therapist=%s", len(resp.Slots), req.TherapistID)
	return resp, nil
}

// FitsSchedule проверяет, что первая сессия расписания попадает в одно из окон терапевта.
// Время сессии переводится в часовой пояс окна, поэтому окна и расписание могут быть в разных поясах.
func (s *Service) FitsSchedule(ctx context.Context, therapistID string, schedule domain.RecurringSchedule, durationMinutes int, ref time.Time) (bool, error) {
	occ, err := recurrence.FirstOccurrence(schedule, ref, recurrence.Options{})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slots, err := s.repo.ListByTherapist(ctx, therapistID)
	if err != nil {
		s.logger.Error("FitsSchedule: repository error for therapist=%s: %v", therapistID, err)
		return false, fmt.Errorf("%w: FitsSchedule - repository error: %v", ErrInternal, err)
	}

	for _, slot := range slots {
		loc, err := formatting.LoadLocation(slot.Timezone)
		if err != nil {
			s.logger.Warn("FitsSchedule: slot of therapist=%s has unknown timezone=%q", therapistID, slot.Timezone)
			continue
		}
		local := occ.At.In(loc)
		if slot.Contains(int(local.Weekday()), types.NewTimeString(local), durationMinutes) {
			return true, nil
		}
	}

	s.logger.Info("FitsSchedule: no slot of therapist=%s fits %s", therapistID, formatting.ScheduleSummary(schedule))
	return false, nil
}

func renderOnDate(slot domain.AvailabilitySlot, date time.Time, viewerTZ string) (string, string, error) {
	loc, err := formatting.LoadLocation(slot.Timezone)
	if err != nil {
		return "", "", err
	}
	at, err := slot.StartTime.On(date.Year(), date.Month(), date.Day(), loc)
	if err != nil {
		return "", "", err
	}

	occ := domain.ScheduledOccurrence{At: at.UTC(), AuthoringTimezone: slot.Timezone}
	display, err := formatting.FormatDual(occ, viewerTZ)
	if err != nil {
		return "", "", err
	}
	return occ.At.Format(time.RFC3339), display, nil
}
