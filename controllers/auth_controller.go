package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/culturalhub/culturalhub/config"
	"github.com/culturalhub/culturalhub/middleware"
	"github.com/culturalhub/culturalhub/models"
	"github.com/culturalhub/culturalhub/utils"
)

// AuthController handles login, registration and logout.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// LoginPage renders the login form data. Users that are already signed in
// are bounced back to the main page.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	if middleware.IsAuthenticated(ctx) {
		utils.FlashRedirect(ctx, "error", "You are already logged in!", "/main/")
		return
	}
	utils.Success(ctx, gin.H{"flashes": utils.TakeFlashes(ctx)})
}

// Login verifies credentials and establishes a session on success.
// Failures never reveal whether the username exists.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" form:"username" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	var profile models.UserProfile
	if err := a.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to load profile")
		return
	}

	token, err := utils.GenerateToken(user.ID, profile.ID, user.Username, utils.SessionDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to establish session")
		return
	}

	ctx.SetCookie(middleware.SessionCookieName, token, int(utils.SessionDuration.Seconds()), "/", "", false, true)
	ctx.Redirect(http.StatusFound, "/main/")
}

// Register creates a user and, through the model hook, its profile. The new
// account is never authenticated by this handler; the user logs in separately.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username  string `json:"username" form:"username"`
		Email     string `json:"email" form:"email"`
		Password1 string `json:"password1" form:"password1"`
		Password2 string `json:"password2" form:"password2"`
		BirthYear *int   `json:"birth_year" form:"birth_year"`
	}

	var req request
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	fields := map[string]string{}
	if req.Username == "" {
		fields["username"] = "Username is required."
	} else {
		var count int64
		a.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
		if count > 0 {
			fields["username"] = "Username already taken."
		}
	}
	if req.Email == "" {
		fields["email"] = "Email is required."
	} else {
		var count int64
		a.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
		if count > 0 {
			fields["email"] = "Email already in use. Please use a different email address."
		}
	}
	if req.Password1 != req.Password2 {
		fields["password2"] = "The two password fields didn't match."
	} else if len(req.Password1) < 8 {
		fields["password1"] = "Password must contain at least 8 characters."
	} else if isAllDigits(req.Password1) {
		fields["password1"] = "Password can't be entirely numeric."
	}
	if req.BirthYear == nil {
		fields["birth_year"] = "Birth year is required."
	} else if *req.BirthYear < 1900 || *req.BirthYear > time.Now().Year() {
		fields["birth_year"] = "Enter a valid birth year."
	} else if age := time.Now().Year() - *req.BirthYear; age < 18 {
		fields["birth_year"] = "You must be at least 18 years old to register."
	}
	if len(fields) > 0 {
		utils.FieldErrors(ctx, 40002, fields)
		return
	}

	// Anti-abuse: temp ban, cooldown and per-IP daily cap.
	ip := ctx.ClientIP()
	if utils.RegistrationIsBanned(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42920, "registration temporarily blocked, try again later")
		return
	}
	if !utils.RegistrationCooldownTry(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42910, "too many attempts, slow down")
		return
	}
	if !utils.RegistrationDailyLimitCheck(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42921, "daily registration limit reached")
		return
	}

	hash, err := utils.HashPassword(req.Password1)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	err = a.db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		// The AfterCreate hook made the profile; persist the supplied birth year.
		return tx.Model(&models.UserProfile{}).
			Where("user_id = ?", user.ID).
			Update("birth_year", *req.BirthYear).Error
	})
	if err != nil {
		fails := utils.RegistrationFailRecord(ip)
		if fails >= maxIntc(config.Get().RegisterFailedMaxPerIPPerHour, 1) {
			utils.RegistrationBan(ip)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	utils.RegistrationDailyIncrement(ip)
	utils.FlashRedirect(ctx, "success", "Profile has been successfully created. Please log in.", "/login/")
}

// Logout revokes the current session token, clears the cookie and sends the
// user to the login page. A request without a session goes there all the same.
func (a *AuthController) Logout(ctx *gin.Context) {
	if v, ok := ctx.Get(middleware.ContextTokenKey); ok {
		if token, ok := v.(string); ok && token != "" {
			if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
				utils.BlacklistToken(token, claims.ExpiresAt.Time)
			}
		}
	}
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	ctx.Redirect(http.StatusFound, "/login/")
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func maxIntc(a, b int) int {
	if a > b {
		return a
	}
	return b
}
