package services

import (
	"errors"

	"github.com/dmitrijs2005/eatery/internal/server/models"
)

// Account errors. Their messages are shown to end users as-is.
var (
	ErrDuplicateEmail        = errors.New("Пользователь с такой почтой уже существует")
	ErrAccountCreationFailed = errors.New("Не получается создать аккаунт")
	ErrUserNotFound          = errors.New("Пользователя не существует")
	ErrInvalidCredentials    = errors.New("Неверный пароль")
	ErrInvalidCode           = errors.New("Верификация не найдена")
	ErrInvalidInput          = errors.New("Некорректные данные")
	ErrInternal              = errors.New("Внутренняя ошибка")
)

// Output is the common part of every account operation result.
type Output struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func ok() Output { return Output{Ok: true} }

func fail(err error) Output { return Output{Ok: false, Error: err.Error()} }

type CreateAccountInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,password_bytes"`
	Role     string `json:"role" validate:"required,role"`
}

type CreateAccountOutput struct {
	Output
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	Output
	Token string `json:"token,omitempty"`
}

// EditProfileInput carries optional changes; nil or empty fields are left
// as they are.
type EditProfileInput struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type EditProfileOutput struct {
	Output
	User *models.User `json:"user,omitempty"`
}

type VerifyEmailInput struct {
	Code string `json:"code"`
}

type VerifyEmailOutput struct {
	Output
}

type UserProfileOutput struct {
	Output
	User *models.User `json:"user,omitempty"`
}
