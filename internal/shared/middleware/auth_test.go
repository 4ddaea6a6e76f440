package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domains/seller"
	"marketplace-backend/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authTestRouter(tm *token.Manager) *gin.Engine {
	r := gin.New()
	r.GET("/me", Auth(tm), func(c *gin.Context) {
		id, _ := UserID(c)
		email, _ := UserEmail(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "email": email})
	})
	return r
}

func TestAuthGateAcceptsCookie(t *testing.T) {
	tm := token.NewManager("test-secret")
	r := authTestRouter(tm)

	raw, err := tm.IssueSession("a@b.com", uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieSession, Value: raw})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@b.com")
}

func TestAuthGateAcceptsHeaderAndBearer(t *testing.T) {
	tm := token.NewManager("test-secret")
	r := authTestRouter(tm)

	raw, err := tm.IssueSession("a@b.com", uuid.New())
	require.NoError(t, err)

	t.Run("same-named header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(CookieSession, raw)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("authorization bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthGateRejections(t *testing.T) {
	tm := token.NewManager("test-secret")
	r := authTestRouter(tm)

	otpToken, err := tm.IssueOTPPending("a@b.com", "hash")
	require.NoError(t, err)
	foreign, err := token.NewManager("other-secret").IssueSession("a@b.com", uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"absent token", func(*http.Request) {}},
		{"garbage token", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: CookieSession, Value: "garbage"})
		}},
		{"wrong kind", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: CookieSession, Value: otpToken})
		}},
		{"wrong signature", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: CookieSession, Value: foreign})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			// All failures look identical to the client.
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized")
		})
	}
}

func TestStepGatesInjectClaims(t *testing.T) {
	tm := token.NewManager("test-secret")

	r := gin.New()
	r.POST("/verify", OTPPending(tm), func(c *gin.Context) {
		hash, _ := c.Get(CtxOTPHash)
		email, _ := UserEmail(c)
		c.JSON(http.StatusOK, gin.H{"otp_hash": hash, "email": email})
	})
	r.POST("/register", EmailVerified(tm), func(c *gin.Context) {
		email, _ := UserEmail(c)
		c.JSON(http.StatusOK, gin.H{"email": email})
	})

	otpToken, err := tm.IssueOTPPending("a@b.com", "the-hash")
	require.NoError(t, err)
	verifiedToken, err := tm.IssueEmailVerified("a@b.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/verify", nil)
	req.AddCookie(&http.Cookie{Name: CookieOTPPending, Value: otpToken})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "the-hash")

	// The otp-pending token does not open the register gate.
	req = httptest.NewRequest(http.MethodPost, "/register", nil)
	req.AddCookie(&http.Cookie{Name: CookieEmailVerified, Value: otpToken})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/register", nil)
	req.AddCookie(&http.Cookie{Name: CookieEmailVerified, Value: verifiedToken})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

type gateSellerRepo struct {
	byUserID map[uuid.UUID]*seller.Seller
	err      error
}

func (r *gateSellerRepo) Create(_ context.Context, _ *seller.Seller) error { return nil }

func (r *gateSellerRepo) FindByID(_ context.Context, _ uuid.UUID) (*seller.Seller, error) {
	return nil, seller.ErrSellerNotFound
}

func (r *gateSellerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*seller.Seller, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.byUserID[userID]
	if !ok {
		return nil, seller.ErrSellerNotFound
	}
	return s, nil
}

func sellerTestRouter(tm *token.Manager, repo seller.Repository) *gin.Engine {
	r := gin.New()
	r.POST("/products", Auth(tm), Seller(repo), func(c *gin.Context) {
		id, _ := SellerID(c)
		c.JSON(http.StatusOK, gin.H{"seller_id": id.String()})
	})
	return r
}

func TestSellerGate(t *testing.T) {
	tm := token.NewManager("test-secret")
	sellerUserID := uuid.New()
	sellerID := uuid.New()

	repo := &gateSellerRepo{byUserID: map[uuid.UUID]*seller.Seller{
		sellerUserID: {ID: sellerID, UserID: sellerUserID},
	}}
	r := sellerTestRouter(tm, repo)

	t.Run("no session token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/products", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("session without seller row", func(t *testing.T) {
		raw, err := tm.IssueSession("buyer@b.com", uuid.New())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/products", nil)
		req.AddCookie(&http.Cookie{Name: CookieSession, Value: raw})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "no permission as a seller")
	})

	t.Run("seller passes and gets id injected", func(t *testing.T) {
		raw, err := tm.IssueSession("store@b.com", sellerUserID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/products", nil)
		req.AddCookie(&http.Cookie{Name: CookieSession, Value: raw})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), sellerID.String())
	})

	t.Run("repository failure maps to 502", func(t *testing.T) {
		failing := sellerTestRouter(tm, &gateSellerRepo{err: errors.New("connection refused")})

		raw, err := tm.IssueSession("store@b.com", sellerUserID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/products", nil)
		req.AddCookie(&http.Cookie{Name: CookieSession, Value: raw})
		w := httptest.NewRecorder()
		failing.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
