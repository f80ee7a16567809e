package models

import "time"

// GetAvailabilityRequest запрос окон доступности терапевта
type GetAvailabilityRequest struct {
	TherapistID string
	// Date календарная дата; если задана, возвращаются только окна этого дня с конкретным временем
	Date *time.Time
	// Timezone часовой пояс клиента для отображения
	Timezone string
}

// SlotResponse недельное окно доступности
type SlotResponse struct {
	Weekday     int    `json:"weekday"`
	WeekdayName string `json:"weekdayName"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Timezone    string `json:"timezone"`

	// Заполняются, когда в запросе указана дата
	StartsAt *string `json:"startsAt,omitempty"`
	Display  *string `json:"display,omitempty"`
}

// AvailabilityResponse ответ с окнами доступности
type AvailabilityResponse struct {
	TherapistID string         `json:"therapistId"`
	Date        *string        `json:"date,omitempty"`
	Slots       []SlotResponse `json:"slots"`
}
