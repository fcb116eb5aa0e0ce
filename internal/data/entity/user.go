package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	Base
	FullName     string   `db:"full_name"`
	Email        string   `db:"email"`
	Phone        *string  `db:"phone"`
	Role         UserRole `db:"role"`
	PasswordHash string   `db:"password_hash"`
}
