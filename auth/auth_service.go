// Package auth implements the multi-step login core: password check,
// time-boxed one-time passcode challenge, and session establishment.
package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/scholarhub/portal/sessions"
	"github.com/scholarhub/portal/users"
)

// Repos holds the repository dependencies for the Service.
type Repos struct {
	Users      users.UserRepo
	Challenges ChallengeRepo
}

// Service orchestrates the local login flow: credentials are checked first,
// then a passcode challenge is issued, and only a verified passcode
// establishes a session.
type Service struct {
	repos   Repos
	engine  *ChallengeEngine
	session *sessions.Manager
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithServiceNowTime sets the now time function (primarily for testing)
func WithServiceNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repos Repos, engine *ChallengeEngine, sessionMgr *sessions.Manager, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[auth.NewService] Users repo is required")
	}
	if repos.Challenges == nil {
		return nil, errors.New("[auth.NewService] Challenges repo is required")
	}
	if engine == nil {
		return nil, errors.New("[auth.NewService] challenge engine is required")
	}
	if sessionMgr == nil {
		return nil, errors.New("[auth.NewService] session manager is required")
	}

	svc := &Service{
		repos:   repos,
		engine:  engine,
		session: sessionMgr,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(svc)
	}
	return svc, nil
}

// Login checks the password and, on success, issues a passcode challenge
// for the attempt identified by loginToken. Unknown email, wrong password,
// and password-less (Google-only) accounts all collapse into
// InvalidCredentialsErr. Login never establishes a session by itself.
func (s *Service) Login(ctx context.Context, loginToken, email, password string) error {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.NotFoundErr) {
			return InvalidCredentialsErr
		}
		return errors.Wrap(err, "[Service.Login] GetByEmail")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return InvalidCredentialsErr
	}

	if _, err := s.engine.Issue(ctx, loginToken, email); err != nil {
		if errors.Is(err, CodeDeliveryErr) {
			return CodeDeliveryErr
		}
		return errors.Wrap(err, "[Service.Login] engine.Issue")
	}
	return nil
}

// VerifyCode checks the submitted passcode for the attempt identified by
// loginToken and, when accepted, binds sessionToken to the user. This is
// the shared terminal step also used by the Google login flow.
func (s *Service) VerifyCode(ctx context.Context, loginToken, sessionToken, code string) (*users.User, error) {
	result, err := s.engine.Verify(ctx, loginToken, code)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.VerifyCode] engine.Verify")
	}

	switch result.Outcome {
	case OutcomeExpired:
		return nil, CodeExpiredErr
	case OutcomeMismatched:
		return nil, CodeMismatchErr
	case OutcomeNoPendingChallenge:
		return nil, NoPendingCodeErr
	}

	user, err := s.repos.Users.GetByEmail(ctx, result.Email)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.VerifyCode] GetByEmail")
	}

	if err := s.session.Establish(ctx, sessionToken, user); err != nil {
		return nil, errors.Wrap(err, "[Service.VerifyCode] session.Establish")
	}
	return user, nil
}

// Signup creates a new unverified account. It never authenticates; the
// student logs in afterwards through the normal flow.
func (s *Service) Signup(ctx context.Context, email, password, confirm string) (*users.User, error) {
	if password != confirm {
		return nil, PasswordMismatchErr
	}
	if err := users.ValidatePasswordStrength(password); err != nil {
		return nil, WeakPasswordErr
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Signup] HashPassword")
	}

	user := &users.User{
		Email:        email,
		PasswordHash: hash,
		Verified:     false,
		CreatedAt:    s.nowTime(),
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, users.DuplicateUserErr) {
			return nil, users.DuplicateUserErr
		}
		return nil, errors.Wrap(err, "[Service.Signup] Create")
	}
	return user, nil
}

// Logout tears down the authenticated session and abandons any pending
// challenge for the login attempt. Safe when neither exists.
func (s *Service) Logout(ctx context.Context, loginToken, sessionToken string) error {
	if loginToken != "" {
		if err := s.engine.Abandon(ctx, loginToken); err != nil {
			return errors.Wrap(err, "[Service.Logout] engine.Abandon")
		}
	}
	if err := s.session.Terminate(ctx, sessionToken); err != nil {
		return errors.Wrap(err, "[Service.Logout] session.Terminate")
	}
	return nil
}

// Sessions exposes the session manager so protected handlers can use the
// RequireAuthenticated guard.
func (s *Service) Sessions() *sessions.Manager {
	return s.session
}
