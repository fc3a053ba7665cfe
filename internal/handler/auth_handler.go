package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"playgrid/backend/internal/auth"
	"playgrid/backend/internal/models"
	"playgrid/backend/internal/session"
	"playgrid/backend/internal/store"
	"playgrid/backend/pkg/token"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=3,max=30" example:"Test User"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateProfileInput defines the structure for a profile update. Only the
// display name is mutable.
type UpdateProfileInput struct {
	Name string `json:"name" binding:"required,min=3,max=30" example:"New Name"`
}

// UserResponse defines the structure for a user's profile.
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Name     string `json:"name" example:"Test User"`
	Username string `json:"username" example:"test3f9kz2"`
	Email    string `json:"email" example:"test@example.com"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
	}
}

// endregion

// Auth serves the authentication and profile endpoints.
type Auth struct {
	users    *store.Users
	sessions *session.Store
	secret   string
}

// NewAuth wires the auth handler.
func NewAuth(users *store.Users, sessions *session.Store, secret string) *Auth {
	return &Auth{users: users, sessions: sessions, secret: secret}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user account. The username is derived from the email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /auth/register [post]
func (h *Auth) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": gin.H{"message": err.Error()}})
		return
	}

	existing, err := h.users.FindByEmail(c.Request.Context(), input.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": "Failed to create user"}})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": gin.H{"email": "Email already exists"}})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": "Failed to hash password"}})
		return
	}

	user := models.User{
		Name:         input.Name,
		Username:     deriveUsername(input.Email),
		Email:        input.Email,
		PasswordHash: string(hashed),
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": "Failed to create user"}})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": true, "data": gin.H{"message": "Registration successful"}})
}

// deriveUsername builds a unique-enough username from the email local part
// plus a base36 timestamp suffix.
func deriveUsername(email string) string {
	local := strings.Split(email, "@")[0]
	return local + strconv.FormatInt(time.Now().UnixMilli(), 36)
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates with email and password and sets the session cookie. Any prior session for the user is invalidated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /auth/login [post]
func (h *Auth) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": gin.H{"message": err.Error()}})
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), input.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": "Login failed"}})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": false, "errors": gin.H{"message": "Invalid email or password"}})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": false, "errors": gin.H{"message": "Invalid email or password"}})
		return
	}

	sess, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": "Login failed"}})
		return
	}

	signed, err := token.Sign(h.secret, sess.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": "Login failed"}})
		return
	}
	auth.SetCookie(c, signed)

	c.JSON(http.StatusOK, gin.H{"status": true, "data": gin.H{"message": "Login successful"}})
}

// Logout godoc
// @Summary      Log out
// @Description  Deletes the session and clears the cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /auth/logout [post]
func (h *Auth) Logout(c *gin.Context) {
	if cookie, err := c.Request.Cookie(auth.CookieName); err == nil {
		if sessionID, err := token.Parse(h.secret, cookie.Value); err == nil {
			_ = h.sessions.Delete(c.Request.Context(), sessionID)
		}
	}
	auth.ClearCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": true, "data": gin.H{"message": "Logout successful"}})
}

// VerifyToken godoc
// @Summary      Verify the session cookie
// @Description  Resolves the session cookie and returns the bound user.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /auth/verify-token [post]
func (h *Auth) VerifyToken(c *gin.Context) {
	user, _, err := auth.ResolveRequest(c.Request, h.secret, h.sessions, h.users)
	if err != nil {
		auth.ClearCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": false,
			"errors": gin.H{"message": "Unauthorized: Invalid session", "path": "/login"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "data": gin.H{"user": newUserResponse(user)}})
}

// GetProfile godoc
// @Summary      Get the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /auth/profile [get]
func (h *Auth) GetProfile(c *gin.Context) {
	user := auth.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"status": true, "data": gin.H{"user": newUserResponse(user)}})
}

// UpdateProfile godoc
// @Summary      Update the authenticated user's display name
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body UpdateProfileInput true "New Name"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /auth/profile [put]
func (h *Auth) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": gin.H{"message": err.Error()}})
		return
	}

	user := auth.CurrentUser(c)
	if err := h.users.UpdateName(c.Request.Context(), user.ID, input.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": gin.H{"message": "Failed to update profile"}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "data": gin.H{"message": "Profile updated successfully"}})
}
