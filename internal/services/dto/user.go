package dto

// UpdateMeRequest - самообслуживание профиля. Строгий whitelist:
// поля пароля в этом запросе отклоняются на уровне хендлера.
type UpdateMeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}
