package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/culturalhub/culturalhub/config"
	"github.com/culturalhub/culturalhub/middleware"
	"github.com/culturalhub/culturalhub/models"
	"github.com/culturalhub/culturalhub/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	cfg := config.Load()
	_ = utils.InitLogger(cfg)
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Interest{},
		&models.Category{},
		&models.UserContent{},
		&models.Comment{},
		&models.PageView{},
	))
	return db
}

// newTestRouter registers the application routes without access logging,
// CORS and rate limiting, which only add noise under httptest.
func newTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.SessionLoader())

	auth := NewAuthController(db)
	profile := NewProfileController(db)
	content := NewContentController(db)
	comment := NewCommentController(db)
	stats := NewStatsController(db)

	r.GET("/login/", auth.LoginPage)
	r.POST("/login/", auth.Login)
	r.POST("/register/", auth.Register)
	r.GET("/logout/", auth.Logout)
	r.GET("/main/", content.MainPage)
	r.GET("/user/:user_id/", profile.Show)
	r.GET("/category/:category", content.ByCategory)
	r.GET("/content/:content_id/", content.Detail)
	r.GET("/stats", stats.GetStats)

	protected := r.Group("")
	protected.Use(middleware.LoginRequired())
	protected.GET("/edit/user/:user_id", profile.EditForm)
	protected.POST("/edit/user/:user_id", profile.Edit)
	protected.POST("/content/", content.Create)
	protected.GET("/content/:content_id/edit", content.EditForm)
	protected.POST("/content/:content_id/edit", content.Update)
	protected.POST("/content/:content_id/delete", content.Delete)
	protected.POST("/content/:content_id/comment", comment.Create)

	return r
}

func createUser(t *testing.T, db *gorm.DB, username, email string) (models.User, models.UserProfile) {
	t.Helper()
	hash, err := utils.HashPassword("Pw123456")
	require.NoError(t, err)
	user := models.User{Username: username, Email: email, PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	return user, profile
}

func createCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	cat := models.Category{Name: name, Description: name + " description"}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

func createContent(t *testing.T, db *gorm.DB, author models.UserProfile, cat models.Category, title string) models.UserContent {
	t.Helper()
	content := models.UserContent{
		Title:       title,
		Description: "description of " + title,
		Culture:     "andalusian",
		AuthorID:    author.ID,
		CategoryID:  cat.ID,
	}
	require.NoError(t, db.Create(&content).Error)
	return content
}

func sessionCookie(t *testing.T, user models.User, profile models.UserProfile) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, profile.ID, user.Username, utils.SessionDuration)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func perform(r *gin.Engine, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
