package model

// Роли пользователей. Отдельного хранилища пользователей нет:
// роль определяется при входе и живёт в auth-токене.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
