package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/RoberSamy04/natours/internal/models"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации - ошибка времени запуска приложения
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-difficulty': сложность тура из фиксированного набора
	mustRegister("is-difficulty", validateDifficulty)

	// 'is-user-role': роль пользователя валидна
	mustRegister("is-user-role", validateUserRole)
}

func validateDifficulty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые обрабатывает 'required'
	}

	switch models.Difficulty(value) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyDifficult:
		return true
	default:
		return false
	}
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	switch models.UserRole(value) {
	case models.UserRoleUser, models.UserRoleGuide, models.UserRoleLeadGuide, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}
