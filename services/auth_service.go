package services

import (
	"context"
	"time"
	"tradepost_server/lib"
	"tradepost_server/structs"
	"tradepost_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// User-facing success messages. Failures are mapped through
// lib.GetUserMessage at the boundary.
const (
	MsgAccountCreated   = "Account created successfully. Please check your email to verify your account."
	MsgEmailVerified    = "Email verified successfully. You can now sign in."
	MsgVerificationSent = "Verification email sent. Please check your email."
)

// AuthService orchestrates sign-up, sign-in and the verification token
// lifecycle across the credential store, the token ledger, the signed-token
// codec and the mail gateway. None of those collaborators call back into it.
type AuthService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	users  *UserService
	tokens *TokenService
	mailer VerificationMailer
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, users *UserService, tokens *TokenService, mailer VerificationMailer) *AuthService {
	return &AuthService{
		logger: logger,
		cfg:    cfg,
		users:  users,
		tokens: tokens,
		mailer: mailer,
	}
}

// SignUp registers a new account and dispatches a verification email. The
// token value never appears in the return path; the only way to obtain it is
// through the mailbox being verified.
func (as *AuthService) SignUp(ctx context.Context, req *structs.SignUpRequest) (string, error) {
	existing, err := as.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		as.logger.Warn("Sign-up for existing email", gecho.Field("email", req.Email))
		return "", lib.ErrConflict
	}

	user, err := as.users.Create(ctx, req)
	if err != nil {
		return "", err
	}

	if err := as.issueAndSendVerification(ctx, user); err != nil {
		return "", err
	}

	return MsgAccountCreated, nil
}

// SignIn verifies credentials and returns a session access token. An unknown
// email and a wrong password are indistinguishable to the caller; only the
// unverified-email case gets its own message, after the password check.
func (as *AuthService) SignIn(ctx context.Context, req *structs.AuthRequest) (string, error) {
	user, err := as.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if user == nil {
		as.logger.Debug("Sign-in for unknown email", gecho.Field("email", req.Email))
		return "", lib.ErrInvalidCredentials
	}

	valid, err := as.users.VerifyPassword(user, req.Password)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", user.Id),
		)
		return "", err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("user_id", user.Id))
		return "", lib.ErrInvalidCredentials
	}

	if !user.EmailVerified {
		as.logger.Debug("Sign-in before verification", gecho.Field("user_id", user.Id))
		return "", lib.ErrEmailNotVerified
	}

	accessToken, err := lib.MintSessionToken(user.Id, user.Username, as.cfg.Auth.AccessTokenSecret, as.cfg.Auth.AccessTokenExpiry)
	if err != nil {
		as.logger.Error("Failed to mint access token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return "", err
	}

	return accessToken, nil
}

// VerifyEmail consumes a verification token. Two independent checks must
// both pass: the ledger row must be active and unexpired, and the signed
// value must verify against the verification secret. The ledger alone would
// admit replay after a secret rotation; the signature alone says nothing
// about prior consumption. Their subjects must also agree; disagreement is a
// tamper signal and gets a distinct message.
func (as *AuthService) VerifyEmail(ctx context.Context, tokenValue string) (string, error) {
	ledger, err := as.tokens.FindValid(ctx, tokenValue, tables.PurposeEmailVerification)
	if err != nil {
		return "", err
	}
	if ledger == nil {
		as.logger.Warn("Verification token not found in ledger")
		return "", lib.ErrInvalidOrExpiredToken
	}

	subject, purpose, err := lib.VerifyPurposeToken(tokenValue, as.cfg.Auth.EmailVerificationSecret)
	if err != nil {
		// The real reason stays in the logs; the caller sees one outcome.
		as.logger.Warn("Verification token failed signature check",
			gecho.Field("reason", err),
			gecho.Field("user_id", ledger.UserId),
		)
		return "", lib.ErrInvalidOrExpiredToken
	}
	if purpose != tables.PurposeEmailVerification {
		as.logger.Warn("Verification token carries wrong purpose claim",
			gecho.Field("purpose", purpose),
			gecho.Field("user_id", ledger.UserId),
		)
		return "", lib.ErrInvalidOrExpiredToken
	}

	if ledger.UserId != subject {
		as.logger.Warn("Verification token subject does not match ledger owner",
			gecho.Field("ledger_user_id", ledger.UserId),
			gecho.Field("token_subject", subject),
		)
		return "", lib.ErrTokenSubjectMismatch
	}

	if err := as.users.MarkEmailVerified(ctx, ledger.UserId); err != nil {
		return "", err
	}
	if err := as.tokens.Consume(ctx, ledger.Id); err != nil {
		return "", err
	}

	as.logger.Info("Email verified successfully", gecho.Field("user_id", ledger.UserId))
	return MsgEmailVerified, nil
}

// ResendVerification purges every prior verification token for the user and
// issues a fresh one, so only the newest link in the mailbox works.
func (as *AuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	user, err := as.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		as.logger.Warn("Resend requested for unknown email", gecho.Field("email", email))
		return "", lib.ErrNotFound
	}
	if user.EmailVerified {
		as.logger.Debug("Resend requested for verified account", gecho.Field("user_id", user.Id))
		return "", lib.ErrEmailAlreadyVerified
	}

	if err := as.tokens.PurgeByUserAndPurpose(ctx, user.Id, tables.PurposeEmailVerification); err != nil {
		return "", err
	}

	if err := as.issueAndSendVerification(ctx, user); err != nil {
		return "", err
	}

	return MsgVerificationSent, nil
}

// issueAndSendVerification mints a 24h purpose-bound token, records it in
// the ledger, and hands it to the mailer off the request path. Delivery
// failure is logged and swallowed: account state never depends on the mail
// provider being up.
func (as *AuthService) issueAndSendVerification(ctx context.Context, user *tables.User) error {
	ttl := as.cfg.Auth.EmailVerificationExpiry
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	signedValue, err := lib.MintPurposeToken(user.Id, tables.PurposeEmailVerification, as.cfg.Auth.EmailVerificationSecret, ttl)
	if err != nil {
		as.logger.Error("Failed to mint verification token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return err
	}

	if _, err := as.tokens.Issue(ctx, user.Id, tables.PurposeEmailVerification, signedValue, ttl); err != nil {
		return err
	}

	email := user.Email
	userID := user.Id
	go func() {
		if err := as.mailer.SendVerificationEmail(email, signedValue); err != nil {
			as.logger.Error("Failed to send verification email",
				gecho.Field("error", err),
				gecho.Field("user_id", userID),
			)
		}
	}()

	return nil
}
