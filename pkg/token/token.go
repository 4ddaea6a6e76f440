package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind tags each token with the step of the flow it belongs to.
// A token verified against the wrong kind is rejected, so an
// otp-pending token can never be replayed as a session token.
type Kind string

const (
	KindOTPPending    Kind = "otp_pending"
	KindEmailVerified Kind = "email_verified"
	KindSession       Kind = "session"
	KindResetPending  Kind = "reset_pending"
)

// Default TTLs per kind.
const (
	OTPPendingTTL    = 15 * time.Minute
	EmailVerifiedTTL = 25 * time.Minute
	SessionTTL       = 7 * 24 * time.Hour
	ResetPendingTTL  = 15 * time.Minute
)

// Claims is the full claim set. Not every kind populates every field:
// otp-pending carries {email, otp_hash}, email-verified carries {email},
// session and reset-pending carry {email, user_id}.
type Claims struct {
	Email   string `json:"email"`
	UserID  string `json:"user_id,omitempty"`
	OTPHash string `json:"otp_hash,omitempty"`
	Kind    Kind   `json:"typ"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a server-held HS256 secret.
// The secret is read-only after startup; Manager is safe for concurrent use.
type Manager struct {
	secret []byte
}

// NewManager creates a token manager for the given signing secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// IssueOTPPending signs an otp-pending token binding an email to the
// bcrypt hash of the code that was mailed to it. The token is the only
// record of the code; nothing is stored server-side.
func (m *Manager) IssueOTPPending(email, otpHash string) (string, error) {
	return m.issue(Claims{Email: email, OTPHash: otpHash, Kind: KindOTPPending}, OTPPendingTTL)
}

// IssueEmailVerified signs an email-verified token proving the holder
// completed OTP verification for the email.
func (m *Manager) IssueEmailVerified(email string) (string, error) {
	return m.issue(Claims{Email: email, Kind: KindEmailVerified}, EmailVerifiedTTL)
}

// IssueSession signs a long-lived session token.
func (m *Manager) IssueSession(email string, userID uuid.UUID) (string, error) {
	return m.issue(Claims{Email: email, UserID: userID.String(), Kind: KindSession}, SessionTTL)
}

// IssueResetPending signs a reset-pending token for the password-reset flow.
func (m *Manager) IssueResetPending(email string, userID uuid.UUID) (string, error) {
	return m.issue(Claims{Email: email, UserID: userID.String(), Kind: KindResetPending}, ResetPendingTTL)
}

func (m *Manager) issue(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token and checks it carries the expected
// kind. It returns an error (never panics) on bad signature, malformed
// structure, expiry, or kind mismatch. There is no replay cache: a valid
// token verifies successfully on every request until its expiry elapses.
func (m *Manager) Verify(tokenString string, kind Kind) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", kind, claims.Kind)
	}

	return claims, nil
}

// UserUUID parses the user_id claim. Only meaningful for session and
// reset-pending tokens.
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}
