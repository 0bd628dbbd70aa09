package models

import (
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"`
	Avatar   string             `json:"avatar" bson:"avatar,omitempty"`
	Date     time.Time          `json:"date" bson:"date"`
}

// UserRef is the slice of a User that gets joined into profile responses.
type UserRef struct {
	ID     primitive.ObjectID `json:"_id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Name == "" {
		errs = append(errs, FieldError{Msg: "Name is required", Param: "name"})
	}
	if !validEmail(r.Email) {
		errs = append(errs, FieldError{Msg: "Please include valid email", Param: "email"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, FieldError{Msg: "Please enter a password with 6 or more characters", Param: "password"})
	}

	return errs
}

func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError

	if !validEmail(r.Email) {
		errs = append(errs, FieldError{Msg: "Please include valid email", Param: "email"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Msg: "Please enter password", Param: "password"})
	}

	return errs
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
