// Package googleauth implements login via Google's OIDC authorization-code
// flow. A provider-verified email is trusted, so this path skips the
// passcode challenge and converges directly on session establishment.
package googleauth

import (
	"context"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"github.com/scholarhub/portal/sessions"
	"github.com/scholarhub/portal/users"
	"golang.org/x/oauth2"
)

const (
	// GoogleIssuer is Google's OIDC issuer; overridable for tests.
	GoogleIssuer = "https://accounts.google.com"

	defaultTimeout = 10 * time.Second
)

var (
	// NotConfiguredErr means client credentials are absent; no redirect to
	// the provider is ever attempted in that state.
	NotConfiguredErr = errors.New("google login not configured")

	// ProviderUnreachableErr means discovery metadata could not be fetched.
	ProviderUnreachableErr = errors.New("google provider unreachable")

	TokenExchangeFailedErr = errors.New("google token exchange failed")

	// UnverifiedEmailErr is a hard stop: accounts are never created or
	// logged in from an email Google has not verified.
	UnverifiedEmailErr = errors.New("google email not verified")
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	IssuerURL    string        // defaults to GoogleIssuer
	Timeout      time.Duration // bound on discovery, exchange, and userinfo calls
}

// Federator runs the federated login flow and maps verified Google
// identities onto local accounts.
type Federator struct {
	config  Config
	users   users.UserRepo
	session *sessions.Manager

	mu       sync.Mutex
	provider *oidc.Provider
	oauthCfg *oauth2.Config
}

func New(config Config, userRepo users.UserRepo, sessionMgr *sessions.Manager) (*Federator, error) {
	if userRepo == nil {
		return nil, errors.New("[googleauth.New] user repo is required")
	}
	if sessionMgr == nil {
		return nil, errors.New("[googleauth.New] session manager is required")
	}
	if config.IssuerURL == "" {
		config.IssuerURL = GoogleIssuer
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &Federator{
		config:  config,
		users:   userRepo,
		session: sessionMgr,
	}, nil
}

// Configured reports whether client credentials are present.
func (f *Federator) Configured() bool {
	return f.config.ClientID != "" && f.config.ClientSecret != ""
}

// oauthConfig lazily discovers the provider metadata and caches the
// resulting endpoints for the lifetime of the process.
func (f *Federator) oauthConfig(ctx context.Context) (*oauth2.Config, *oidc.Provider, error) {
	if !f.Configured() {
		return nil, nil, NotConfiguredErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.oauthCfg != nil {
		return f.oauthCfg, f.provider, nil
	}

	discoverCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	provider, err := oidc.NewProvider(discoverCtx, f.config.IssuerURL)
	if err != nil {
		return nil, nil, errors.Wrap(ProviderUnreachableErr, err.Error())
	}

	f.provider = provider
	f.oauthCfg = &oauth2.Config{
		ClientID:     f.config.ClientID,
		ClientSecret: f.config.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  f.config.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}
	return f.oauthCfg, f.provider, nil
}

// AuthURL returns the Google authorization endpoint URL to redirect the
// user agent to. Fails with NotConfiguredErr before any provider contact
// when credentials are absent, and ProviderUnreachableErr when discovery
// fails.
func (f *Federator) AuthURL(ctx context.Context, state string) (string, error) {
	cfg, _, err := f.oauthConfig(ctx)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state), nil
}

// Profile is the subset of Google userinfo claims the flow consumes.
type Profile struct {
	Subject       string
	Email         string
	EmailVerified bool
	GivenName     string
}

// Authenticate exchanges the callback authorization code, fetches the
// verified profile, maps it to a local account (creating one on first
// login), and establishes the session. No session and no account are ever
// created from an unverified email.
func (f *Federator) Authenticate(ctx context.Context, sessionToken, code string) (*users.User, error) {
	cfg, provider, err := f.oauthConfig(ctx)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	token, err := cfg.Exchange(callCtx, code)
	if err != nil {
		return nil, errors.Wrap(TokenExchangeFailedErr, err.Error())
	}

	userInfo, err := provider.UserInfo(callCtx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, errors.Wrap(TokenExchangeFailedErr, err.Error())
	}

	var claims struct {
		GivenName string `json:"given_name"`
	}
	_ = userInfo.Claims(&claims)

	profile := Profile{
		Subject:       userInfo.Subject,
		Email:         userInfo.Email,
		EmailVerified: userInfo.EmailVerified,
		GivenName:     claims.GivenName,
	}
	if !profile.EmailVerified || profile.Email == "" {
		return nil, UnverifiedEmailErr
	}

	user, err := f.mapIdentity(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := f.session.Establish(ctx, sessionToken, user); err != nil {
		return nil, errors.Wrap(err, "[Federator.Authenticate] session.Establish")
	}
	return user, nil
}

// mapIdentity finds the local account for a verified Google profile,
// creating one (verified, no password hash) on first login. An existing
// account is reused as-is; names are not merged.
func (f *Federator) mapIdentity(ctx context.Context, profile Profile) (*users.User, error) {
	user, err := f.users.GetByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, users.NotFoundErr) {
		return nil, errors.Wrap(err, "[Federator.mapIdentity] GetByEmail")
	}

	user = &users.User{
		Email:     profile.Email,
		Name:      profile.GivenName,
		Verified:  true,
		CreatedAt: time.Now(),
	}
	if err := f.users.Create(ctx, user); err != nil {
		if errors.Is(err, users.DuplicateUserErr) {
			// Lost a race with another login for the same email.
			return f.users.GetByEmail(ctx, profile.Email)
		}
		return nil, errors.Wrap(err, "[Federator.mapIdentity] Create")
	}
	return user, nil
}
