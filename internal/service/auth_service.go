package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"storehub/internal/entity"
	"storehub/internal/repository"
	"storehub/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type AuthService struct {
	users        repository.UserRepository
	principals   repository.PrincipalRepository
	sessions     repository.SessionRepository
	oneTimeCodes repository.OneTimeCodeRepository
	securityLogs repository.SecurityLogRepository

	challenges      ChallengeStore
	challengeTokens ChallengeTokenIssuer
	emailSender     EmailSender
	smsSender       SMSSender
	passwordHash    PasswordHasher
	accessTokens    *utils.JWTManager
	totp            TOTPProvider
	recoveryCipher  *RecoveryCodeCipher
	logger          *logrus.Logger
	clock           Clock
	config          AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	principals repository.PrincipalRepository,
	sessions repository.SessionRepository,
	oneTimeCodes repository.OneTimeCodeRepository,
	securityLogs repository.SecurityLogRepository,
	challenges ChallengeStore,
	challengeTokens ChallengeTokenIssuer,
	emailSender EmailSender,
	smsSender SMSSender,
	passwordHash PasswordHasher,
	accessTokens *utils.JWTManager,
	totp TOTPProvider,
	recoveryCipher *RecoveryCodeCipher,
	logger *logrus.Logger,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		users:           users,
		principals:      principals,
		sessions:        sessions,
		oneTimeCodes:    oneTimeCodes,
		securityLogs:    securityLogs,
		challenges:      challenges,
		challengeTokens: challengeTokens,
		emailSender:     emailSender,
		smsSender:       smsSender,
		passwordHash:    passwordHash,
		accessTokens:    accessTokens,
		totp:            totp,
		recoveryCipher:  recoveryCipher,
		logger:          logger,
		clock:           clock,
		config:          config,
	}
}

type LoginInput struct {
	// Guard pins the login to one guard. Nil resolves the guard from the
	// email in fixed priority order.
	Guard     *entity.Guard
	Email     string
	Password  string
	Remember  bool
	IPAddress *string
	UserAgent *string
}

type LoginResult struct {
	Guard         entity.Guard
	DashboardPath string

	AccessToken      string
	ExpiresIn        int64
	RefreshToken     string
	RefreshExpiresIn int64

	TwoFactorRequired  bool
	ChallengeToken     string
	ChallengeExpiresIn int64
}

// Login resolves the guard, verifies the password and either establishes the
// guard session or suspends it behind a pending two-factor challenge. The
// "no principal" and "wrong password" outcomes are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	principal, err := s.resolvePrincipal(ctx, input.Guard, email)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.logSecurity(ctx, nil, nil, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.logSecurity(ctx, nil, &principal.Guard, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(*user.PasswordHash, input.Password) {
		_ = s.logSecurity(ctx, &user.ID, &principal.Guard, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled() {
		return s.beginChallenge(ctx, principal, user, input)
	}

	result, err := s.establishSession(ctx, principal, input.Remember, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}
	_ = s.logSecurity(ctx, &user.ID, &principal.Guard, input.IPAddress, entity.LoginSuccess, nil)
	return result, nil
}

// resolvePrincipal walks the guards in fixed priority order and returns the
// first principal whose linked user owns the email.
func (s *AuthService) resolvePrincipal(ctx context.Context, pinned *entity.Guard, email string) (*entity.Principal, error) {
	order := entity.GuardResolutionOrder()
	if pinned != nil {
		order = []entity.Guard{*pinned}
	}
	for _, guard := range order {
		principal, err := s.principals.FindByEmail(ctx, guard, email)
		if err != nil {
			return nil, err
		}
		if principal != nil {
			return principal, nil
		}
	}
	return nil, nil
}

// beginChallenge suspends login: no guard session is issued; a pending
// challenge is written to the store and a signed reference token returned.
func (s *AuthService) beginChallenge(ctx context.Context, principal *entity.Principal, user *entity.User, input LoginInput) (*LoginResult, error) {
	challengeID, err := utils.GenerateRandomToken(24)
	if err != nil {
		return nil, err
	}

	state := &ChallengeState{
		PrincipalID: principal.ID,
		UserID:      user.ID,
		Guard:       principal.Guard,
		Remember:    input.Remember,
		ExpiresAt:   s.now().Add(s.config.challengeTTL()),
	}
	if err := s.challenges.Put(ctx, challengeID, state); err != nil {
		return nil, err
	}

	token, ttl, err := s.challengeTokens.Issue(challengeID, principal.Guard)
	if err != nil {
		return nil, err
	}

	_ = s.logSecurity(ctx, &user.ID, &principal.Guard, input.IPAddress, entity.ChallengeCreated, nil)
	return &LoginResult{
		Guard:              principal.Guard,
		TwoFactorRequired:  true,
		ChallengeToken:     token,
		ChallengeExpiresIn: int64(ttl.Seconds()),
	}, nil
}

// establishSession is the session finalizer: it commits the principal into
// its guard's session namespace and issues the token pair.
func (s *AuthService) establishSession(ctx context.Context, principal *entity.Principal, remember bool, ipAddress *string, userAgent *string) (*LoginResult, error) {
	rawToken, err := utils.GenerateRandomToken(48)
	if err != nil {
		return nil, err
	}
	refreshTTL := s.config.refreshTokenTTL(remember)
	refreshExpiry := s.now().Add(refreshTTL)

	session := &entity.Session{
		UserID:      principal.UserID,
		PrincipalID: principal.ID,
		Guard:       principal.Guard,
		TokenHash:   utils.HashToken(rawToken),
		Remember:    remember,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		ExpiresAt:   refreshExpiry,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, expiresIn, err := s.issueAccessToken(principal, session.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Guard:            principal.Guard,
		DashboardPath:    principal.Guard.DashboardPath(),
		AccessToken:      accessToken,
		ExpiresIn:        int64(expiresIn.Seconds()),
		RefreshToken:     rawToken,
		RefreshExpiresIn: int64(refreshTTL.Seconds()),
	}, nil
}

func (s *AuthService) issueAccessToken(principal *entity.Principal, sessionID uuid.UUID) (string, time.Duration, error) {
	claims := utils.AccessClaims{
		PrincipalID: principal.ID.String(),
		UserID:      principal.UserID.String(),
		Guard:       string(principal.Guard),
		SessionID:   sessionID.String(),
		Permissions: principal.Permissions,
	}
	if principal.StoreID != nil {
		claims.StoreID = principal.StoreID.String()
	}
	return s.accessTokens.IssueAccessToken(claims)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrInvalidInput
	}

	session, err := s.sessions.FindByTokenHash(ctx, utils.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	principal, err := s.principals.FindByID(ctx, session.Guard, session.PrincipalID)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		// Role was revoked since the session was issued.
		_ = s.sessions.Revoke(ctx, session.ID)
		return nil, ErrInvalidToken
	}

	newToken, err := utils.GenerateRandomToken(48)
	if err != nil {
		return nil, err
	}
	refreshTTL := s.config.refreshTokenTTL(session.Remember)
	newExpiry := s.now().Add(refreshTTL)
	if err := s.sessions.RotateToken(ctx, session.ID, utils.HashToken(newToken), newExpiry); err != nil {
		return nil, err
	}

	accessToken, expiresIn, err := s.issueAccessToken(principal, session.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Guard:            principal.Guard,
		DashboardPath:    principal.Guard.DashboardPath(),
		AccessToken:      accessToken,
		ExpiresIn:        int64(expiresIn.Seconds()),
		RefreshToken:     newToken,
		RefreshExpiresIn: int64(refreshTTL.Seconds()),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID, userID *uuid.UUID, guard *entity.Guard, ipAddress *string) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return err
	}
	_ = s.logSecurity(ctx, userID, guard, ipAddress, entity.Logout, nil)
	return nil
}

func (s *AuthService) RevokeUserSessions(ctx context.Context, userID uuid.UUID, guard entity.Guard) error {
	if err := s.sessions.RevokeAllByUser(ctx, userID, guard); err != nil {
		return err
	}
	_ = s.logSecurity(ctx, &userID, &guard, nil, entity.SessionRevoked, map[string]any{"scope": "all"})
	return nil
}

func (s *AuthService) logSecurity(
	ctx context.Context,
	userID *uuid.UUID,
	guard *entity.Guard,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) error {
	if s.securityLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.SecurityLog{
		UserID:    userID,
		Guard:     guard,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	return s.securityLogs.Log(ctx, log)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) warn(err error, message string) {
	if s.logger == nil {
		return
	}
	s.logger.WithError(err).Warn(message)
}
