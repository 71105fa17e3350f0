package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/auth"
	"github.com/RoberSamy04/natours/internal/email"
	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/internal/services/dto"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

// fakeUserRepo - in-memory реализация UserRepository для unit-тестов
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return errors.New("E11000 duplicate key error index: email_1 dup key")
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	u, ok := r.users[objID]
	if !ok || (u.Active != nil && !*u.Active) {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Find(_ context.Context, _ bson.M, _ *repositories.QueryOptions) ([]models.User, error) {
	out := []models.User{}
	for _, u := range r.users {
		if u.Active != nil && !*u.Active {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateByID(_ context.Context, id string, update bson.M) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	u, ok := r.users[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if name, ok := update["name"].(string); ok {
		u.Name = name
	}
	if mail, ok := update["email"].(string); ok {
		u.Email = mail
	}
	if photo, ok := update["photo"].(string); ok {
		u.Photo = photo
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) DeleteByID(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	if _, ok := r.users[objID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, objID)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, mail string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == mail {
			if u.Active != nil && !*u.Active {
				break
			}
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindByResetToken(_ context.Context, hashedToken string) (*models.User, error) {
	for _, u := range r.users {
		if u.PasswordResetToken == hashedToken &&
			u.PasswordResetExpires != nil && u.PasswordResetExpires.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindManyByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SetFields(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "emailVerificationOtp":
			u.EmailVerificationOTP = v.(string)
		case "emailVerificationOtpExpiry":
			t := v.(time.Time)
			u.EmailVerificationOTPExpiry = &t
		case "isEmailVerified":
			u.IsEmailVerified = v.(bool)
		case "passwordResetToken":
			u.PasswordResetToken = v.(string)
		case "passwordResetExpires":
			t := v.(time.Time)
			u.PasswordResetExpires = &t
		case "password":
			u.Password = v.(string)
		case "passwordChangedAt":
			t := v.(time.Time)
			u.PasswordChangedAt = &t
		case "active":
			b := v.(bool)
			u.Active = &b
		}
	}
	return nil
}

func (r *fakeUserRepo) UnsetFields(_ context.Context, id primitive.ObjectID, fields ...string) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, f := range fields {
		switch f {
		case "emailVerificationOtp":
			u.EmailVerificationOTP = ""
		case "emailVerificationOtpExpiry":
			u.EmailVerificationOTPExpiry = nil
		case "passwordResetToken":
			u.PasswordResetToken = ""
		case "passwordResetExpires":
			u.PasswordResetExpires = nil
		}
	}
	return nil
}

// fakeEmailProvider записывает отправленные письма, умеет падать по команде
type fakeEmailProvider struct {
	failNext   bool
	sentOTPs   []string
	resetURLs  []string
	recipients []string
}

func (p *fakeEmailProvider) Send(_ *email.Email) error { return nil }

func (p *fakeEmailProvider) SendTemplate(_ []string, _ string, _ string, _ email.TemplateData) error {
	return nil
}

func (p *fakeEmailProvider) SendVerificationOTP(to, _, otp, _ string) error {
	if p.failNext {
		return errors.New("smtp: connection refused")
	}
	p.sentOTPs = append(p.sentOTPs, otp)
	p.recipients = append(p.recipients, to)
	return nil
}

func (p *fakeEmailProvider) SendPasswordReset(to, _ string, resetURL string) error {
	if p.failNext {
		return errors.New("smtp: connection refused")
	}
	p.resetURLs = append(p.resetURLs, resetURL)
	p.recipients = append(p.recipients, to)
	return nil
}

func signupRequest() *dto.SignupRequest {
	return &dto.SignupRequest{
		Name:            "Leo Gillespie",
		Email:           "leo@example.com",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
}

func TestAuthService_Signup(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeEmailProvider{}
	svc := NewAuthService(repo, mailer)

	user, err := svc.Signup(context.Background(), signupRequest(), "http://localhost/verify-email")
	require.NoError(t, err)

	assert.Equal(t, "leo@example.com", user.Email)
	assert.Equal(t, models.UserRoleUser, user.Role)
	assert.Equal(t, "default.jpg", user.Photo)
	assert.False(t, user.IsEmailVerified)
	// Пароль хранится только хешем
	assert.NotEqual(t, "pass1234", user.Password)
	assert.True(t, auth.CheckPasswordHash("pass1234", user.Password))

	// OTP сгенерирован, шестизначный, ушел на почту
	require.Len(t, mailer.sentOTPs, 1)
	assert.Len(t, mailer.sentOTPs[0], 6)

	stored := repo.users[user.ID]
	assert.Equal(t, mailer.sentOTPs[0], stored.EmailVerificationOTP)
	require.NotNil(t, stored.EmailVerificationOTPExpiry)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *stored.EmailVerificationOTPExpiry, time.Minute)
}

func TestAuthService_Signup_EmailFailureRollsBackOTP(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeEmailProvider{failNext: true}
	svc := NewAuthService(repo, mailer)

	_, err := svc.Signup(context.Background(), signupRequest(), "http://localhost/verify-email")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmailSendFailed)

	// Пользователь создан, но OTP-поля очищены
	require.Len(t, repo.users, 1)
	for _, u := range repo.users {
		assert.Empty(t, u.EmailVerificationOTP)
		assert.Nil(t, u.EmailVerificationOTPExpiry)
	}
}

func TestAuthService_VerifyEmail(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeEmailProvider{}
	svc := NewAuthService(repo, mailer)

	user, err := svc.Signup(context.Background(), signupRequest(), "http://localhost/verify-email")
	require.NoError(t, err)
	otp := mailer.sentOTPs[0]

	// Неверный код
	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: user.Email, OTP: "000000"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)

	// Верный код
	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: user.Email, OTP: otp})
	require.NoError(t, err)

	stored := repo.users[user.ID]
	assert.True(t, stored.IsEmailVerified)
	assert.Empty(t, stored.EmailVerificationOTP)

	// Повторная верификация
	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: user.Email, OTP: otp})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyVerified)

	// Несуществующий email
	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: "ghost@example.com", OTP: otp})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuthService_VerifyEmail_ExpiredOTP(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeEmailProvider{}
	svc := NewAuthService(repo, mailer)

	user, err := svc.Signup(context.Background(), signupRequest(), "http://localhost/verify-email")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	repo.users[user.ID].EmailVerificationOTPExpiry = &expired

	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: user.Email, OTP: mailer.sentOTPs[0]})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeEmailProvider{}
	svc := NewAuthService(repo, mailer)

	user, err := svc.Signup(context.Background(), signupRequest(), "http://localhost/verify-email")
	require.NoError(t, err)

	// До верификации email вход запрещен
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "pass1234"})
	assert.ErrorIs(t, err, apperrors.ErrEmailNotVerified)

	require.NoError(t, svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: user.Email, OTP: mailer.sentOTPs[0]}))

	logged, err := svc.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "pass1234"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	// Неверный пароль и неизвестный email дают одинаковую ошибку
	_, badPass := svc.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "wrongpass"})
	_, badMail := svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@example.com", Password: "pass1234"})
	assert.ErrorIs(t, badPass, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, badMail, apperrors.ErrInvalidCredentials)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeEmailProvider{}
	svc := NewAuthService(repo, mailer)

	user, err := svc.Signup(context.Background(), signupRequest(), "http://localhost/verify-email")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email, "http://localhost"))
	require.Len(t, mailer.resetURLs, 1)

	// В письме plaintext токен, в хранилище - только хеш
	resetURL := mailer.resetURLs[0]
	token := resetURL[len("http://localhost/api/v1/users/resetPassword/"):]
	assert.Len(t, token, 64)
	assert.NotEqual(t, token, repo.users[user.ID].PasswordResetToken)

	updated, err := svc.ResetPassword(context.Background(), token, &dto.ResetPasswordRequest{
		Password:        "newpass1234",
		PasswordConfirm: "newpass1234",
	})
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("newpass1234", updated.Password))

	stored := repo.users[user.ID]
	assert.Empty(t, stored.PasswordResetToken)
	assert.Nil(t, stored.PasswordResetExpires)
	// passwordChangedAt проставлен со сдвигом назад
	require.NotNil(t, stored.PasswordChangedAt)
	assert.True(t, stored.PasswordChangedAt.Before(time.Now()))

	// Повторное использование токена
	_, err = svc.ResetPassword(context.Background(), token, &dto.ResetPasswordRequest{
		Password:        "anotherpass",
		PasswordConfirm: "anotherpass",
	})
	assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), &fakeEmailProvider{})

	err := svc.ForgotPassword(context.Background(), "ghost@example.com", "http://localhost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeEmailProvider{}
	svc := NewAuthService(repo, mailer)

	user, err := svc.Signup(context.Background(), signupRequest(), "http://localhost/verify-email")
	require.NoError(t, err)

	// Неверный текущий пароль
	_, err = svc.UpdatePassword(context.Background(), user.ID.Hex(), &dto.UpdatePasswordRequest{
		PasswordCurrent: "wrongpass",
		Password:        "newpass1234",
		PasswordConfirm: "newpass1234",
	})
	assert.ErrorIs(t, err, apperrors.ErrWrongPassword)

	updated, err := svc.UpdatePassword(context.Background(), user.ID.Hex(), &dto.UpdatePasswordRequest{
		PasswordCurrent: "pass1234",
		Password:        "newpass1234",
		PasswordConfirm: "newpass1234",
	})
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("newpass1234", updated.Password))
	require.NotNil(t, updated.PasswordChangedAt)
}
