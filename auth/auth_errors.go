package auth

import "errors"

var (
	// InvalidCredentialsErr deliberately covers both "no such user" and
	// "wrong password" so the login form cannot be used to enumerate
	// accounts.
	InvalidCredentialsErr = errors.New("invalid email or password")

	PasswordMismatchErr = errors.New("passwords do not match")
	WeakPasswordErr     = errors.New("password too weak")

	CodeDeliveryErr  = errors.New("could not send verification code")
	CodeExpiredErr   = errors.New("verification code expired")
	CodeMismatchErr  = errors.New("verification code incorrect")
	NoPendingCodeErr = errors.New("no verification code pending")
)
