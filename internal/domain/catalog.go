package domain

import "time"

// Barber барбер, к которому ведется запись
type Barber struct {
	ID              int64
	Name            string
	ExperienceYears int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Service услуга барбершопа
// Длительность услуги определяет конец слота: end = start + Duration()
type Service struct {
	ID              int64
	Name            string
	Description     *string
	Price           float64
	DurationMinutes int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration возвращает длительность услуги
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
