package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// Заголовки аутентификации
// Аутентификацию выполняет внешний шлюз; сюда приходят уже проверенные данные
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
	headerEmail    = "X-User-Email"
	headerBarberID = "X-Barber-ID"
)

// Auth извлекает аутентифицированного субъекта из заголовков
// и кладет его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "no autenticado")
			return
		}

		principal := domain.Principal{
			UserID: userID,
			Role:   parseRole(r.Header.Get(headerUserRole)),
		}

		if email := r.Header.Get(headerEmail); email != "" {
			principal.Email = &email
		}

		if principal.Role == domain.RoleBarber {
			barberID, err := strconv.ParseInt(r.Header.Get(headerBarberID), 10, 64)
			if err != nil || barberID <= 0 {
				handlers.RespondError(w, http.StatusUnauthorized, "no autenticado")
				return
			}
			principal.BarberID = &barberID
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext возвращает субъекта запроса, положенного Auth
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(domain.Principal)
	return principal, ok
}

// RequireAdmin пропускает только администраторов
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			handlers.RespondError(w, http.StatusUnauthorized, "no autenticado")
			return
		}
		if !principal.IsAdmin() {
			handlers.RespondForbidden(w, "acceso denegado")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseRole(role string) domain.Role {
	switch domain.Role(role) {
	case domain.RoleBarber:
		return domain.RoleBarber
	case domain.RoleAdmin:
		return domain.RoleAdmin
	default:
		return domain.RoleClient
	}
}
