package user

import "strings"

// User - учётная запись. Password хранит bcrypt-хэш и наружу не отдаётся.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	Password string `json:"password" db:"password"`
}

// Public - данные пользователя, которые можно показать клиенту
type Public struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Email сравнивается с учётом регистра, как сохранён; обрезаются только пробелы
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
