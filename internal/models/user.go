package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User - документ пользователя. Пароль и служебные поля (OTP, reset token,
// active) никогда не сериализуются клиенту.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Photo string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role  UserRole           `bson:"role" json:"role"`

	Password string `bson:"password" json:"-"`

	EmailVerificationOTP       string     `bson:"emailVerificationOtp,omitempty" json:"-"`
	EmailVerificationOTPExpiry *time.Time `bson:"emailVerificationOtpExpiry,omitempty" json:"-"`
	IsEmailVerified            bool       `bson:"isEmailVerified" json:"isEmailVerified"`

	PasswordChangedAt    *time.Time `bson:"passwordChangedAt,omitempty" json:"-"`
	PasswordResetToken   string     `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time `bson:"passwordResetExpires,omitempty" json:"-"`

	// Soft-delete: false исключает пользователя из всех стандартных выборок
	Active *bool `bson:"active,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"-"`
}

// ChangedPasswordAfter проверяет, менялся ли пароль после выдачи токена.
// Используется в protect для инвалидации старых токенов.
func (u *User) ChangedPasswordAfter(tokenIssuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	// Сравнение с секундной точностью: iat в JWT хранится в секундах
	return tokenIssuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// HasValidOTP проверяет совпадение и срок действия OTP
func (u *User) HasValidOTP(otp string) bool {
	if u.EmailVerificationOTP == "" || u.EmailVerificationOTP != otp {
		return false
	}
	if u.EmailVerificationOTPExpiry == nil || u.EmailVerificationOTPExpiry.Before(time.Now()) {
		return false
	}
	return true
}
