package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/culturalhub/culturalhub/middleware"
	"github.com/culturalhub/culturalhub/models"
	"github.com/culturalhub/culturalhub/utils"
)

// CommentController handles comment creation on content pages.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// Create attaches a comment to the content addressed by the URL. The author
// comes from the session and the target from the URL, never from the body.
// An empty text simply redirects back without persisting anything.
func (cc *CommentController) Create(ctx *gin.Context) {
	contentID, err := parseContentID(ctx)
	if err != nil {
		utils.FlashRedirect(ctx, "error", "Content does not exist!", "/main/")
		return
	}

	var content models.UserContent
	if err := cc.db.First(&content, contentID).Error; err != nil {
		utils.FlashRedirect(ctx, "error", "Content does not exist!", "/main/")
		return
	}
	contentPage := "/content/" + strconv.Itoa(int(content.ID)) + "/"

	type request struct {
		Text string `json:"text" form:"text"`
	}
	var req request
	_ = ctx.ShouldBind(&req)

	text := utils.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		ctx.Redirect(http.StatusFound, contentPage)
		return
	}

	profileID, ok := middleware.CurrentProfileID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{
		UserContentID: content.ID,
		UserProfileID: profileID,
		Text:          text,
	}
	if err := cc.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to create comment")
		return
	}

	utils.InvalidateByPrefix("cache:content:detail:" + strconv.Itoa(int(content.ID)))
	ctx.Redirect(http.StatusFound, contentPage)
}
