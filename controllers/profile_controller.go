package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/culturalhub/culturalhub/middleware"
	"github.com/culturalhub/culturalhub/models"
	"github.com/culturalhub/culturalhub/utils"
)

// ProfileController serves profile pages and owner-only profile editing.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a ProfileController.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// Show returns a user's profile together with their content grouped by
// category. A missing profile redirects to the main page instead of a 404.
func (p *ProfileController) Show(ctx *gin.Context) {
	userID := strings.TrimSpace(ctx.Param("user_id"))

	var profile models.UserProfile
	err := p.db.Preload("User").Preload("Interests").
		Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		utils.FlashRedirect(ctx, "error", "User profile with this ID doesn't exist!", "/main/")
		return
	}

	var contents []models.UserContent
	if err := p.db.Preload("Category").
		Where("author_id = ?", profile.ID).
		Order("id ASC").Find(&contents).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load user content")
		return
	}

	grouped := map[string][]models.UserContent{}
	for _, c := range contents {
		grouped[c.Category.Name] = append(grouped[c.Category.Name], c)
	}

	utils.Success(ctx, gin.H{
		"profile":          profile,
		"age":              profile.Age(time.Now()),
		"grouped_contents": grouped,
		"flashes":          utils.TakeFlashes(ctx),
	})
}

// EditForm returns the current values for the profile edit form. Only the
// owner may see it; everyone else gets a forbidden response.
func (p *ProfileController) EditForm(ctx *gin.Context) {
	profile, ok := p.requireOwnProfile(ctx)
	if !ok {
		return
	}

	utils.Success(ctx, gin.H{
		"first_name": profile.User.FirstName,
		"last_name":  profile.User.LastName,
		"country":    profile.Country,
		"birth_year": profile.BirthYear,
		"about":      profile.About,
		"interests":  profile.Interests,
		"flashes":    utils.TakeFlashes(ctx),
	})
}

// Edit updates the profile fields and the linked user's first/last name in a
// single transaction.
func (p *ProfileController) Edit(ctx *gin.Context) {
	profile, ok := p.requireOwnProfile(ctx)
	if !ok {
		return
	}

	type request struct {
		FirstName string `json:"first_name" form:"first_name"`
		LastName  string `json:"last_name" form:"last_name"`
		Country   string `json:"country" form:"country"`
		BirthYear int    `json:"birth_year" form:"birth_year"`
		About     string `json:"about" form:"about"`
		Interests []uint `json:"interests" form:"interests"`
	}

	var req request
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	fields := map[string]string{}
	if req.Country != "" && len(req.Country) != 2 {
		fields["country"] = "Country must be a two-letter ISO code."
	}
	if req.BirthYear != 0 && (req.BirthYear < 1900 || req.BirthYear > time.Now().Year()) {
		fields["birth_year"] = "Enter a valid birth year."
	}
	if len(fields) > 0 {
		utils.FieldErrors(ctx, 40031, fields)
		return
	}

	var interests []models.Interest
	if len(req.Interests) > 0 {
		if err := p.db.Find(&interests, utils.UniqueUint(req.Interests)).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to resolve interests")
			return
		}
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", profile.UserID).Updates(map[string]interface{}{
			"first_name": strings.TrimSpace(req.FirstName),
			"last_name":  strings.TrimSpace(req.LastName),
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&profile).Updates(map[string]interface{}{
			"country":    strings.ToUpper(req.Country),
			"birth_year": nzInt(req.BirthYear, profile.BirthYear),
			"about":      utils.Sanitize(req.About),
		}).Error; err != nil {
			return err
		}
		return tx.Model(&profile).Association("Interests").Replace(interests)
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update profile")
		return
	}

	utils.InvalidateByPrefix("cache:profile:" + strconv.Itoa(int(profile.UserID)))
	utils.FlashRedirect(ctx, "success", "Profile has been updated successfully.",
		"/user/"+strconv.Itoa(int(profile.UserID))+"/")
}

// requireOwnProfile loads the profile addressed by :user_id and enforces that
// the caller owns it. Missing users redirect to main; foreign users get 403.
func (p *ProfileController) requireOwnProfile(ctx *gin.Context) (*models.UserProfile, bool) {
	userIDStr := strings.TrimSpace(ctx.Param("user_id"))
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		utils.FlashRedirect(ctx, "error", "User profile with this ID doesn't exist!", "/main/")
		return nil, false
	}

	var profile models.UserProfile
	if err := p.db.Preload("User").Preload("Interests").
		Where("user_id = ?", uint(userID)).First(&profile).Error; err != nil {
		utils.FlashRedirect(ctx, "error", "User profile with this ID doesn't exist!", "/main/")
		return nil, false
	}

	currentID, ok := middleware.CurrentUserID(ctx)
	if !ok || currentID != uint(userID) {
		utils.Error(ctx, http.StatusForbidden, 40330, "You do not have permission to edit this profile.")
		return nil, false
	}
	return &profile, true
}

func nzInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
