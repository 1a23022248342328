package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/describo/describo-backend/internal/domain"
	"github.com/describo/describo-backend/internal/repository/ports"
	"github.com/describo/describo-backend/internal/util"
)

var (
	ErrInvalidIdentifier  = errors.New("identifier must be a valid email address or phone number")
	ErrEmailRequired      = errors.New("a valid email address is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrIdentifierTaken    = errors.New("identifier is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrSamePassword       = errors.New("new password must differ from the current one")
	ErrResetDelivery      = errors.New("unable to deliver reset code")
)

// PasswordResetSender delivers a reset code out-of-band. Implementations may
// fail; the caller rolls back the issued token when they do.
type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, code string) error
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

// AuthService owns credential lifecycle: registration, login, bearer-token
// authentication, password change and the reset-code state machine.
type AuthService struct {
	accounts  ports.AccountRepository
	resets    ports.ResetTokenRepository
	mailer    PasswordResetSender
	jwt       *util.JWTManager
	logger    zerolog.Logger
	resetTTL  time.Duration
	otpLength int
	now       func() time.Time

	// Issuing a reset code is invalidate-then-insert, two store writes.
	// Serializing per account keeps "at most one unused token" true when
	// two forgot-password requests race.
	resetMu    sync.Mutex
	resetLocks map[uuid.UUID]*sync.Mutex
}

func NewAuthService(accounts ports.AccountRepository, resets ports.ResetTokenRepository, mailer PasswordResetSender, jwt *util.JWTManager, logger zerolog.Logger, resetTTL time.Duration, otpLength int) *AuthService {
	return &AuthService{
		accounts:   accounts,
		resets:     resets,
		mailer:     mailer,
		jwt:        jwt,
		logger:     logger,
		resetTTL:   resetTTL,
		otpLength:  otpLength,
		now:        time.Now,
		resetLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Register creates an account for a classified identifier and returns a
// bearer token for it. Uniqueness is enforced by the store; a duplicate
// identifier surfaces as ErrIdentifierTaken.
func (s *AuthService) Register(ctx context.Context, identifier, password string) (*AuthResult, error) {
	kind, value := util.NormalizeIdentifier(identifier)
	if kind == util.IdentifierInvalid {
		return nil, ErrInvalidIdentifier
	}
	if err := util.ValidatePassword(password); err != nil {
		return nil, ErrPasswordTooShort
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var email, phone *string
	if kind == util.IdentifierEmail {
		email = &value
	} else {
		phone = &value
	}
	account, err := domain.NewAccount(email, phone, hash)
	if err != nil {
		return nil, err
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrIdentifierTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.issueToken(created)
}

// Login verifies the password for an identifier. Unknown identifier and
// wrong password both collapse to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	account, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !util.VerifyPassword(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(account)
}

// Authenticate resolves a bearer token to its account. Every failure mode
// (malformed, bad signature, expired, unknown subject) is ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	subject, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	account, err := s.findByIdentifier(ctx, subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// ChangePassword is the authenticated sibling of the reset flow: verify the
// current password, refuse a no-op change, store the new hash. No reset
// token is involved.
func (s *AuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}
	if !util.VerifyPassword(currentPassword, account.PasswordHash) {
		return ErrInvalidCredentials
	}
	if currentPassword == newPassword {
		return ErrSamePassword
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return ErrPasswordTooShort
	}
	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a fresh reset code for the account behind the
// email identifier, invalidating any outstanding codes first, and mails it.
// When delivery fails the just-created token is deleted so no valid but
// undelivered code stays live.
func (s *AuthService) RequestPasswordReset(ctx context.Context, identifier string) error {
	kind, email := util.NormalizeIdentifier(identifier)
	if kind != util.IdentifierEmail {
		return ErrEmailRequired
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}

	lock := s.resetLock(account.ID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.resets.InvalidateUnusedByAccount(ctx, account.ID); err != nil {
		return fmt.Errorf("invalidate prior reset tokens: %w", err)
	}

	code, err := util.GenerateNumericOTP(s.otpLength)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	token, err := s.resets.Create(ctx, account.ID, util.HashResetCode(code), s.now().Add(s.resetTTL))
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, email, code); err != nil {
		if delErr := s.resets.Delete(ctx, token.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("token_id", token.ID.String()).Msg("roll back undelivered reset token")
		}
		return fmt.Errorf("%w: %v", ErrResetDelivery, err)
	}
	return nil
}

// ResetPassword validates a submitted code against the newest unused token
// and, on acceptance, updates the password before consuming the token. The
// order matters: a failed password update leaves the code unburned, and a
// crash between update and consumption lets a retry with the same code
// succeed.
func (s *AuthService) ResetPassword(ctx context.Context, identifier, code, newPassword string) error {
	kind, email := util.NormalizeIdentifier(identifier)
	if kind != util.IdentifierEmail {
		return ErrEmailRequired
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}

	if err := util.ValidatePassword(newPassword); err != nil {
		return ErrPasswordTooShort
	}

	token, err := s.resets.FindLatestUnusedByAccount(ctx, account.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("find reset token: %w", err)
	}

	if !util.MatchResetCode(code, token.CodeHash) {
		return ErrInvalidResetCode
	}

	if token.ExpiredAt(s.now()) {
		// An expired token observed during validation must not be
		// revisitable.
		if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
			return fmt.Errorf("mark expired reset token used: %w", err)
		}
		return ErrInvalidResetCode
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	return nil
}

// ListAccounts exposes the account listing used by the users endpoint.
func (s *AuthService) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	return s.accounts.List(ctx, limit, offset)
}

// SeedAccount ensures a bootstrap account exists. Conflicts with an existing
// identifier are not errors.
func (s *AuthService) SeedAccount(ctx context.Context, email, password string) error {
	_, err := s.Register(ctx, email, password)
	if errors.Is(err, ErrIdentifierTaken) {
		return nil
	}
	return err
}

func (s *AuthService) issueToken(account *domain.Account) (*AuthResult, error) {
	token, expiresAt, err := s.jwt.Generate(account.Identifier())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	kind, value := util.NormalizeIdentifier(identifier)
	switch kind {
	case util.IdentifierEmail:
		return s.accounts.FindByEmail(ctx, value)
	case util.IdentifierPhone:
		return s.accounts.FindByPhone(ctx, value)
	default:
		return nil, ErrInvalidIdentifier
	}
}

func (s *AuthService) resetLock(accountID uuid.UUID) *sync.Mutex {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()
	lock, ok := s.resetLocks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		s.resetLocks[accountID] = lock
	}
	return lock
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
