package domain

// Role роль аутентифицированного пользователя
// Разрешается один раз на границе запроса и передается явно в операции,
// вместо повторных ad-hoc проверок "является ли пользователь барбером"
type Role string

const (
	RoleClient Role = "client"
	RoleBarber Role = "barber"
	RoleAdmin  Role = "admin"
)

// Principal типизированный аутентифицированный субъект запроса
// Аутентификация выполняется внешним слоем; сюда попадает уже проверенная личность
type Principal struct {
	UserID int64
	Email  *string
	Role   Role

	// BarberID заполнен только для Role == RoleBarber
	BarberID *int64
}

// IsBarber возвращает true для барбера
func (p Principal) IsBarber() bool {
	return p.Role == RoleBarber
}

// IsAdmin возвращает true для администратора
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanActOnBooking возвращает true, если субъект может управлять записью:
// владелец-клиент, назначенный барбер или администратор
func (p Principal) CanActOnBooking(b *Booking) bool {
	if p.IsAdmin() {
		return true
	}
	if p.IsBarber() {
		return p.BarberID != nil && *p.BarberID == b.BarberID
	}
	return p.UserID == b.ClientID
}
