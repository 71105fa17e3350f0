package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/auth"
	"github.com/RoberSamy04/natours/internal/email"
	"github.com/RoberSamy04/natours/internal/logger"
	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/internal/services/dto"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

const (
	otpLength    = 6
	otpTTL       = 24 * time.Hour
	resetTTL     = 10 * time.Minute
	// passwordChangedAt отводится на 2 секунды назад, чтобы токен,
	// выданный в ту же секунду, оставался валидным
	passwordChangedAtSkew = 2 * time.Second
)

type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest, verifyURL string) (*models.User, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*models.User, error)
	ForgotPassword(ctx context.Context, emailAddr, resetURLBase string) error
	ResetPassword(ctx context.Context, token string, req *dto.ResetPasswordRequest) (*models.User, error)
	UpdatePassword(ctx context.Context, userID string, req *dto.UpdatePasswordRequest) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	emailProvider email.Provider
}

func NewAuthService(userRepo repositories.UserRepository, emailProvider email.Provider) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		emailProvider: emailProvider,
	}
}

// Signup создает неподтвержденного пользователя и отправляет OTP на почту.
// Если письмо отправить не удалось, OTP-поля откатываются, но сам
// пользователь остается (email failure не откатывает создание).
func (s *AuthServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest, verifyURL string) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	active := true
	user := &models.User{
		ID:              primitive.NewObjectID(),
		Name:            req.Name,
		Email:           normalizeEmail(req.Email),
		Photo:           "default.jpg",
		Role:            models.UserRoleUser,
		Password:        hashedPassword,
		IsEmailVerified: false,
		Active:          &active,
		CreatedAt:       time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// duplicate key классифицируется в 400 с именем поля
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	expiry := time.Now().Add(otpTTL)
	if err := s.userRepo.SetFields(ctx, user.ID, bson.M{
		"emailVerificationOtp":       otp,
		"emailVerificationOtpExpiry": expiry,
	}); err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.emailProvider.SendVerificationOTP(user.Email, user.Name, otp, verifyURL); err != nil {
		logger.CtxWithError(ctx, "Failed to send verification email", err, "email", user.Email)

		if rbErr := s.userRepo.UnsetFields(ctx, user.ID, "emailVerificationOtp", "emailVerificationOtpExpiry"); rbErr != nil {
			logger.CtxWithError(ctx, "Failed to roll back OTP fields", rbErr, "user_id", user.ID.Hex())
		}
		return nil, apperrors.ErrEmailSendFailed
	}

	return user, nil
}

// VerifyEmail проверяет OTP и помечает email подтвержденным
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Internal(err)
	}

	if user.IsEmailVerified {
		return apperrors.ErrEmailAlreadyVerified
	}

	if !user.HasValidOTP(req.OTP) {
		return apperrors.ErrInvalidOTP
	}

	if err := s.userRepo.UnsetFields(ctx, user.ID, "emailVerificationOtp", "emailVerificationOtpExpiry"); err != nil {
		return apperrors.Internal(err)
	}
	if err := s.userRepo.SetFields(ctx, user.ID, bson.M{"isEmailVerified": true}); err != nil {
		return apperrors.Internal(err)
	}

	return nil
}

// Login проверяет учетные данные. Неизвестный email и неверный пароль
// дают одну и ту же ошибку - без утечки существования аккаунта.
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Internal(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	return user, nil
}

// ForgotPassword генерирует reset-токен, хранит только его хеш и
// отправляет plaintext ссылкой на почту. При ошибке отправки поля
// токена очищаются.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, emailAddr, resetURLBase string) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Internal(err)
	}

	resetToken, hashedToken, err := generateResetToken()
	if err != nil {
		return apperrors.Internal(err)
	}

	expires := time.Now().Add(resetTTL)
	if err := s.userRepo.SetFields(ctx, user.ID, bson.M{
		"passwordResetToken":   hashedToken,
		"passwordResetExpires": expires,
	}); err != nil {
		return apperrors.Internal(err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", resetURLBase, resetToken)
	if err := s.emailProvider.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		logger.CtxWithError(ctx, "Failed to send password reset email", err, "email", user.Email)

		if rbErr := s.userRepo.UnsetFields(ctx, user.ID, "passwordResetToken", "passwordResetExpires"); rbErr != nil {
			logger.CtxWithError(ctx, "Failed to roll back reset token fields", rbErr, "user_id", user.ID.Hex())
		}
		return apperrors.ErrEmailSendFailed
	}

	return nil
}

// ResetPassword устанавливает новый пароль по действующему reset-токену
// и возвращает пользователя для повторной аутентификации
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token string, req *dto.ResetPasswordRequest) (*models.User, error) {
	hashed := hashToken(token)

	user, err := s.userRepo.FindByResetToken(ctx, hashed)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrResetTokenInvalid
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.setNewPassword(ctx, user, req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.UnsetFields(ctx, user.ID, "passwordResetToken", "passwordResetExpires"); err != nil {
		return nil, apperrors.Internal(err)
	}

	return user, nil
}

// UpdatePassword меняет пароль аутентифицированного пользователя,
// требуя текущий пароль
func (s *AuthServiceImpl) UpdatePassword(ctx context.Context, userID string, req *dto.UpdatePasswordRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrTokenUserGone
		}
		return nil, apperrors.Internal(err)
	}

	if !auth.CheckPasswordHash(req.PasswordCurrent, user.Password) {
		return nil, apperrors.ErrWrongPassword
	}

	if err := s.setNewPassword(ctx, user, req.Password); err != nil {
		return nil, err
	}

	return user, nil
}

// setNewPassword хеширует и сохраняет пароль, проставляя
// passwordChangedAt. Все ранее выданные токены становятся невалидны.
func (s *AuthServiceImpl) setNewPassword(ctx context.Context, user *models.User, password string) error {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.Internal(err)
	}

	changedAt := time.Now().Add(-passwordChangedAtSkew)
	if err := s.userRepo.SetFields(ctx, user.ID, bson.M{
		"password":          hashedPassword,
		"passwordChangedAt": changedAt,
	}); err != nil {
		return apperrors.Internal(err)
	}

	user.Password = hashedPassword
	user.PasswordChangedAt = &changedAt
	return nil
}

// generateOTP генерирует 6-значный числовой код
func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", otpLength, n), nil
}

// generateResetToken возвращает plaintext токен (для письма) и его
// sha256-хеш (для хранения)
func generateResetToken() (token, hashed string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}

	token = hex.EncodeToString(raw)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
