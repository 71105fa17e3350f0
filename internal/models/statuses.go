package models

// UserRole - роль пользователя
type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleGuide     UserRole = "guide"
	UserRoleLeadGuide UserRole = "lead-guide"
	UserRoleAdmin     UserRole = "admin"
)

// Difficulty - сложность тура
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)
