package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/domainmart/api/internal/domain"
	"github.com/domainmart/api/internal/log"
	"github.com/domainmart/api/internal/oauth"
	"github.com/domainmart/api/internal/queue"
	"github.com/domainmart/api/internal/repo"
	"github.com/domainmart/api/internal/security"
)

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResp struct {
	Token string `json:"token"`
}

// issueSession mints the credential and attaches it as the site cookie.
// Callers may also use the body token as a bearer credential.
func (h *Handler) issueSession(c *gin.Context, u *domain.User) (string, error) {
	tok, err := security.MakeAccess(h.JWTSecret, u.ID.Hex(), u.Email, u.Role, h.TokenTTL)
	if err != nil {
		return "", err
	}
	c.SetCookie(TokenCookie, tok, int(h.TokenTTL.Seconds()), "/", "", false, true)
	_ = h.Store.TouchLastLogin(c.Request.Context(), u.ID)
	return tok, nil
}

// Signup godoc
// @Summary Register a customer account
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signupReq true "signup"
// @Success 201 {object} sessionResp
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") || len(in.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email or weak password"})
		return
	}
	if u, _ := h.Store.FindUserByEmail(c.Request.Context(), email); u != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
		return
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         domain.RoleCustomer,
		Provider:     domain.ProviderLocal,
	}
	if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
		// unique index closes the pre-check race
		if repo.IsDup(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	tok, err := h.issueSession(c, u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	h.publish(c, queue.KeyUserRegistered, queue.UserRegistered{UserID: u.ID.Hex(), Email: u.Email, Name: u.Name})

	c.JSON(http.StatusCreated, sessionResp{Token: tok})
}

type signinReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signinReq true "signin"
// @Success 200 {object} sessionResp
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/signin [post]
func (h *Handler) Signin(c *gin.Context) {
	var in signinReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	u, err := h.Store.FindUserByEmail(c.Request.Context(), email)
	// one generic answer for unknown email and wrong password: no account
	// enumeration through this endpoint
	if err != nil || u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	tok, err := h.issueSession(c, u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	h.publish(c, queue.KeyUserLoggedIn, queue.UserLoggedIn{UserID: u.ID.Hex(), Email: u.Email})

	c.JSON(http.StatusOK, sessionResp{Token: tok})
}

// Signout expires the cookie immediately and returns 200 regardless of prior
// auth state. Stateless: an already-issued token stays valid until its natural
// expiry — there is no server-side revocation list.
func (h *Handler) Signout(c *gin.Context) {
	c.SetCookie(TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	au := currentUser(c)
	u, err := h.Store.FindUserByEmail(c.Request.Context(), au.Email)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role,
		"provider": u.Provider, "last_login": u.LastLogin, "created_at": u.CreatedAt,
	})
}

func (h *Handler) GoogleLogin(c *gin.Context) {
	if h.Google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "oauth not configured"})
		return
	}
	state := h.Google.MakeState(uuid.NewString())
	c.Redirect(http.StatusFound, h.Google.AuthURL(state))
}

func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.Google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "oauth not configured"})
		return
	}
	if !h.Google.VerifyState(c.Query("state")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad state"})
		return
	}
	gu, err := h.Google.ExchangeAndVerify(c.Request.Context(), c.Query("code"), h.Google.ClientID())
	if err != nil {
		log.L().Warn("google exchange failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "oauth failed"})
		return
	}

	u, created, err := findOrCreateGoogleUser(c.Request.Context(), h.Store, gu)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if created {
		h.publish(c, queue.KeyUserRegistered, queue.UserRegistered{UserID: u.ID.Hex(), Email: u.Email, Name: u.Name})
	}

	if _, err := h.issueSession(c, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// findOrCreateGoogleUser resolves the verified Google identity to a local
// account, provisioning one on first login. When two first logins race, the
// loser's insert hits the unique email index; it must then reload the row the
// winner created rather than keep the zero-ID struct, so the session and all
// owner-scoped records carry the real account id.
func findOrCreateGoogleUser(ctx context.Context, store repo.UserStore, gu *oauth.GoogleUser) (*domain.User, bool, error) {
	u, err := store.FindUserByEmail(ctx, gu.Email)
	if err != nil {
		return nil, false, err
	}
	if u != nil {
		return u, false, nil
	}

	// the synthetic hash keeps the password column populated without ever
	// verifying
	hash, err := security.SyntheticPassword()
	if err != nil {
		return nil, false, err
	}
	u = &domain.User{
		Email:        gu.Email,
		PasswordHash: hash,
		Name:         gu.Name,
		Role:         domain.RoleCustomer,
		Provider:     domain.ProviderGoogle,
		ExternalID:   gu.Sub,
	}
	if err := store.CreateUser(ctx, u); err != nil {
		if !repo.IsDup(err) {
			return nil, false, err
		}
		u, err = store.FindUserByEmail(ctx, gu.Email)
		if err != nil {
			return nil, false, err
		}
		if u == nil {
			return nil, false, errors.New("account missing after duplicate insert")
		}
		return u, false, nil
	}
	return u, true, nil
}

type pushSubscribeReq struct {
	Endpoint string            `json:"endpoint"`
	Keys     map[string]string `json:"keys"`
}

// PushSubscribe stores the push payload on the calling admin's user record so
// the browser can be notified of new chat sessions.
func (h *Handler) PushSubscribe(c *gin.Context) {
	var in pushSubscribeReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription"})
		return
	}
	au := currentUser(c)
	uid, err := primitive.ObjectIDFromHex(au.UID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	ok, err := h.Store.SetPushSubscription(c.Request.Context(), uid,
		&domain.PushSubscription{Endpoint: in.Endpoint, Keys: in.Keys})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "subscribed"})
}
