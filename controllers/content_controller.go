package controllers

import (
	"encoding/json"
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

// ContentController manages category listings and content CRUD.
type ContentController struct {
	db *gorm.DB
}

// NewContentController creates a ContentController.
func NewContentController(db *gorm.DB) *ContentController {
	return &ContentController{db: db}
}

const maxRating = 9.99

// MainPage lists all categories in creation order.
func (c *ContentController) MainPage(ctx *gin.Context) {
	var categoriesJSON json.RawMessage
	if b, ok := utils.CacheGetBytes("cache:categories:list"); ok {
		categoriesJSON = b
	} else {
		var categories []models.Category
		if err := c.db.Order("id ASC").Find(&categories).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load categories")
			return
		}
		b, err := json.Marshal(categories)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load categories")
			return
		}
		categoriesJSON = b
		utils.CacheSetBytes("cache:categories:list", b, time.Hour)
	}

	utils.Success(ctx, gin.H{
		"categories": categoriesJSON,
		"flashes":    utils.TakeFlashes(ctx),
	})
}

// ByCategory lists the contents of one category, resolved by name, in
// creation order. An unknown category name redirects to the main page.
func (c *ContentController) ByCategory(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.Param("category"))

	var category models.Category
	if err := c.db.Where("name = ?", name).First(&category).Error; err != nil {
		utils.FlashRedirect(ctx, "error", "Category does not exist!", "/main/")
		return
	}

	var contents []models.UserContent
	if err := c.db.Preload("Author").Preload("Author.User").Preload("Interests").
		Where("category_id = ?", category.ID).
		Order("id ASC").Find(&contents).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load contents")
		return
	}

	utils.Success(ctx, gin.H{
		"category": category,
		"contents": contents,
		"flashes":  utils.TakeFlashes(ctx),
	})
}

// Detail returns one content item with its category and comments. Missing
// content redirects to the main page.
func (c *ContentController) Detail(ctx *gin.Context) {
	contentID, err := parseContentID(ctx)
	if err != nil {
		utils.FlashRedirect(ctx, "error", "Content does not exist!", "/main/")
		return
	}
	cacheKey := "cache:content:detail:" + strconv.Itoa(int(contentID))

	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var content models.UserContent
	err = c.db.Preload("Category").Preload("Author").Preload("Author.User").
		Preload("Interests").First(&content, contentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.FlashRedirect(ctx, "error", "Content does not exist!", "/main/")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load content")
		return
	}

	var comments []models.Comment
	if err := c.db.Where("user_content_id = ?", content.ID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("failed to load comments for content %d: %v", content.ID, err)
		}
	}

	// Attach commenter profiles without N+1 queries.
	if len(comments) > 0 {
		var profileIDs []uint
		for _, cm := range comments {
			profileIDs = append(profileIDs, cm.UserProfileID)
		}
		profileIDs = utils.UniqueUint(profileIDs)

		var profiles []models.UserProfile
		if err := c.db.Preload("User").Find(&profiles, profileIDs).Error; err == nil {
			byID := make(map[uint]models.UserProfile, len(profiles))
			for _, p := range profiles {
				byID[p.ID] = p
			}
			for i := range comments {
				if p, ok := byID[comments[i].UserProfileID]; ok {
					comments[i].User = p
				}
			}
		}
	}
	content.Comments = comments

	payload := gin.H{
		"content":  content,
		"category": content.Category,
		"comments": comments,
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

type contentRequest struct {
	Title       string   `json:"title" form:"title"`
	Description string   `json:"description" form:"description"`
	Date        string   `json:"date" form:"date"`
	Location    string   `json:"location" form:"location"`
	Culture     string   `json:"culture" form:"culture"`
	Rating      *float64 `json:"rating" form:"rating"`
	CategoryID  uint     `json:"category_id" form:"category_id"`
	Interests   []uint   `json:"interests" form:"interests"`
}

// validate cleans the request and returns per-field errors. The parsed date
// is returned separately since the wire format is a plain YYYY-MM-DD string.
func (r *contentRequest) validate() (map[string]string, *time.Time) {
	fields := map[string]string{}
	r.Title = utils.Sanitize(strings.TrimSpace(r.Title))
	r.Description = utils.Sanitize(r.Description)

	if r.Title == "" {
		fields["title"] = "Title is required."
	}
	if strings.TrimSpace(r.Description) == "" {
		fields["description"] = "Description is required."
	}
	if r.CategoryID == 0 {
		fields["category_id"] = "Category is required."
	}
	if r.Rating != nil && (*r.Rating < 0 || *r.Rating > maxRating) {
		fields["rating"] = "Rating must be between 0 and 9.99."
	}

	var date *time.Time
	if r.Date != "" {
		parsed, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			fields["date"] = "Enter a valid date in YYYY-MM-DD format."
		} else {
			date = &parsed
		}
	}
	return fields, date
}

// Create stores a new content item. The author always comes from the session
// profile; any author value in the request body is ignored.
func (c *ContentController) Create(ctx *gin.Context) {
	var req contentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	fields, date := req.validate()

	var category models.Category
	if req.CategoryID != 0 {
		if err := c.db.First(&category, req.CategoryID).Error; err != nil {
			fields["category_id"] = "Category does not exist."
		}
	}
	if len(fields) > 0 {
		utils.FieldErrors(ctx, 40041, fields)
		return
	}

	profileID, ok := middleware.CurrentProfileID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	content := models.UserContent{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    strings.TrimSpace(req.Location),
		Culture:     strings.TrimSpace(req.Culture),
		Rating:      req.Rating,
		AuthorID:    profileID,
		CategoryID:  category.ID,
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&content).Error; err != nil {
			return err
		}
		return c.replaceInterests(tx, &content, req.Interests)
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to create content")
		return
	}

	ctx.Redirect(http.StatusFound, "/category/"+category.Name)
}

// EditForm returns the current values for the content edit form.
func (c *ContentController) EditForm(ctx *gin.Context) {
	content, ok := c.requireOwnContent(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"content": content, "flashes": utils.TakeFlashes(ctx)})
}

// Update modifies an existing content item. Author-only.
func (c *ContentController) Update(ctx *gin.Context) {
	content, ok := c.requireOwnContent(ctx)
	if !ok {
		return
	}

	var req contentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	fields, date := req.validate()

	var category models.Category
	if req.CategoryID != 0 {
		if err := c.db.First(&category, req.CategoryID).Error; err != nil {
			fields["category_id"] = "Category does not exist."
		}
	}
	if len(fields) > 0 {
		utils.FieldErrors(ctx, 40043, fields)
		return
	}

	content.Title = req.Title
	content.Description = req.Description
	content.Date = date
	content.Location = strings.TrimSpace(req.Location)
	content.Culture = strings.TrimSpace(req.Culture)
	content.Rating = req.Rating
	content.CategoryID = category.ID

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(content).Error; err != nil {
			return err
		}
		return c.replaceInterests(tx, content, req.Interests)
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to update content")
		return
	}

	contentID := strconv.Itoa(int(content.ID))
	utils.InvalidateByPrefix("cache:content:detail:" + contentID)
	utils.FlashRedirect(ctx, "success", "Content has been updated successfully.", "/content/"+contentID+"/")
}

// Delete removes a content item and, with it, all of its comments and
// interest links. Author-only; the delete is hard.
func (c *ContentController) Delete(ctx *gin.Context) {
	content, ok := c.requireOwnContent(ctx)
	if !ok {
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_content_id = ?", content.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(content).Association("Interests").Clear(); err != nil {
			return err
		}
		return tx.Delete(content).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to delete content")
		return
	}

	utils.InvalidateByPrefix("cache:content:detail:" + strconv.Itoa(int(content.ID)))
	utils.FlashRedirect(ctx, "success", "Content has been deleted.", "/main/")
}

// requireOwnContent loads the content addressed by :content_id and enforces
// authorship. Missing content redirects to main; non-authors get 403.
func (c *ContentController) requireOwnContent(ctx *gin.Context) (*models.UserContent, bool) {
	contentID, err := parseContentID(ctx)
	if err != nil {
		utils.FlashRedirect(ctx, "error", "Content does not exist!", "/main/")
		return nil, false
	}

	var content models.UserContent
	if err := c.db.Preload("Category").First(&content, contentID).Error; err != nil {
		utils.FlashRedirect(ctx, "error", "Content does not exist!", "/main/")
		return nil, false
	}

	profileID, ok := middleware.CurrentProfileID(ctx)
	if !ok || content.AuthorID != profileID {
		utils.Error(ctx, http.StatusForbidden, 40340, "You do not have permission to modify this content.")
		return nil, false
	}
	return &content, true
}

// parseContentID reads :content_id as an integer. The value reaches WHERE
// clauses, so it must never pass through as a raw string.
func parseContentID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("content_id")), 10, 32)
	return uint(id), err
}

func (c *ContentController) replaceInterests(tx *gorm.DB, content *models.UserContent, ids []uint) error {
	var interests []models.Interest
	if len(ids) > 0 {
		if err := tx.Find(&interests, utils.UniqueUint(ids)).Error; err != nil {
			return err
		}
	}
	return tx.Model(content).Association("Interests").Replace(interests)
}
