package identityservice

// Role роль пользователя в системе
// Разрешается один раз на запрос и дальше проверяется как типизированное значение
type Role string

const (
	RoleGuest      Role = "guest"
	RoleConsumer   Role = "consumer"
	RoleProvider   Role = "provider"
	RoleManagement Role = "management"
)

// User модель пользователя из IdentityService
type User struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// IsConsumer возвращает true для роли потребителя
func (u *User) IsConsumer() bool {
	return u.Role == RoleConsumer
}

// IsProvider возвращает true для роли провайдера
func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}

// IsManagement возвращает true для роли администратора
func (u *User) IsManagement() bool {
	return u.Role == RoleManagement
}

// ErrorResponse модель ошибки от IdentityService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
