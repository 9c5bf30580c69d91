package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturalhub/culturalhub/models"
)

func TestMainPage_ListsCategoriesInCreationOrder(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	createCategory(t, db, "events")
	createCategory(t, db, "tips")
	createCategory(t, db, "reviews")

	w := perform(r, http.MethodGet, "/main/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Categories []models.Category `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Categories, 3)
	assert.Equal(t, "events", resp.Data.Categories[0].Name)
	assert.Equal(t, "tips", resp.Data.Categories[1].Name)
	assert.Equal(t, "reviews", resp.Data.Categories[2].Name)
}

func TestByCategory_UnknownNameRedirectsToMain(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	w := perform(r, http.MethodGet, "/category/nope", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/main/", w.Header().Get("Location"))
}

func TestByCategory_ListsContentsInCreationOrder(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	_, profile := createUser(t, db, "alice", "alice@example.com")
	events := createCategory(t, db, "events")
	first := createContent(t, db, profile, events, "first event")
	second := createContent(t, db, profile, events, "second event")

	w := perform(r, http.MethodGet, "/category/events", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Contents []models.UserContent `json:"contents"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Contents, 2)
	assert.Equal(t, first.ID, resp.Data.Contents[0].ID)
	assert.Equal(t, second.ID, resp.Data.Contents[1].ID)
}

func TestContentDetail_NonNumericIDRedirectsToMain(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	_, profile := createUser(t, db, "alice", "alice@example.com")
	events := createCategory(t, db, "events")
	createContent(t, db, profile, events, "secret item")

	// A raw string must never reach the WHERE clause as SQL.
	w := perform(r, http.MethodGet, "/content/0%20OR%20true/", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/main/", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "secret item")
}

func TestContentEdit_NonNumericIDRedirectsToMain(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user, profile := createUser(t, db, "alice", "alice@example.com")
	events := createCategory(t, db, "events")
	createContent(t, db, profile, events, "keep me")

	w := perform(r, http.MethodPost, "/content/1%20OR%20true/edit", map[string]interface{}{
		"title":       "hijacked",
		"description": "via crafted id",
		"category_id": events.ID,
	}, sessionCookie(t, user, profile))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/main/", w.Header().Get("Location"))

	var count int64
	db.Model(&models.UserContent{}).Where("title = ?", "hijacked").Count(&count)
	assert.Zero(t, count)
}

func TestContentDetail_MissingRedirectsToMain(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	w := perform(r, http.MethodGet, "/content/12345/", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/main/", w.Header().Get("Location"))
}

func TestContentDetail_IncludesCommentsWithAuthors(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	_, author := createUser(t, db, "alice", "alice@example.com")
	_, commenter := createUser(t, db, "bob", "bob@example.com")
	events := createCategory(t, db, "events")
	content := createContent(t, db, author, events, "flamenco night")
	require.NoError(t, db.Create(&models.Comment{
		UserContentID: content.ID,
		UserProfileID: commenter.ID,
		Text:          "looking forward to it",
	}).Error)

	w := perform(r, http.MethodGet, "/content/"+itoa(content.ID)+"/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "flamenco night")
	assert.Contains(t, body, "looking forward to it")
	assert.Contains(t, body, "bob")
}

func TestContentCreate_UnauthenticatedRedirectsToLogin(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	events := createCategory(t, db, "events")

	w := perform(r, http.MethodPost, "/content/", map[string]interface{}{
		"title":       "drive-by",
		"description": "no session",
		"category_id": events.ID,
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))

	var count int64
	db.Model(&models.UserContent{}).Count(&count)
	assert.Zero(t, count)
}

func TestContentCreate_AuthorComesFromSession(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user, profile := createUser(t, db, "alice", "alice@example.com")
	_, other := createUser(t, db, "bob", "bob@example.com")
	events := createCategory(t, db, "events")

	w := perform(r, http.MethodPost, "/content/", map[string]interface{}{
		"title":       "guitar workshop",
		"description": "weekly session in the old town",
		"date":        "2026-10-01",
		"location":    "Granada",
		"culture":     "andalusian",
		"rating":      4.5,
		"category_id": events.ID,
		"author_id":   other.ID,
	}, sessionCookie(t, user, profile))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/category/events", w.Header().Get("Location"))

	var content models.UserContent
	require.NoError(t, db.Where("title = ?", "guitar workshop").First(&content).Error)
	assert.Equal(t, profile.ID, content.AuthorID, "author must come from the session, not the body")
	assert.Equal(t, events.ID, content.CategoryID)
	require.NotNil(t, content.Date)
	assert.Equal(t, "2026-10-01", content.Date.Format("2006-01-02"))
}

func TestContentCreate_ValidationErrors(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user, profile := createUser(t, db, "alice", "alice@example.com")

	w := perform(r, http.MethodPost, "/content/", map[string]interface{}{
		"title":       "",
		"description": "",
		"date":        "not-a-date",
		"rating":      12.0,
	}, sessionCookie(t, user, profile))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Title is required.")
	assert.Contains(t, body, "Description is required.")
	assert.Contains(t, body, "Category is required.")
	assert.Contains(t, body, "YYYY-MM-DD")
	assert.Contains(t, body, "Rating must be between 0 and 9.99.")

	var count int64
	db.Model(&models.UserContent{}).Count(&count)
	assert.Zero(t, count)
}

func TestContentUpdate_NonAuthorForbidden(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	_, author := createUser(t, db, "alice", "alice@example.com")
	intruderUser, intruderProfile := createUser(t, db, "bob", "bob@example.com")
	events := createCategory(t, db, "events")
	content := createContent(t, db, author, events, "original title")

	w := perform(r, http.MethodPost, "/content/"+itoa(content.ID)+"/edit", map[string]interface{}{
		"title":       "hijacked",
		"description": "changed by a stranger",
		"category_id": events.ID,
	}, sessionCookie(t, intruderUser, intruderProfile))

	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.UserContent
	require.NoError(t, db.First(&reloaded, content.ID).Error)
	assert.Equal(t, "original title", reloaded.Title)
}

func TestContentUpdate_AuthorCanEdit(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user, profile := createUser(t, db, "alice", "alice@example.com")
	events := createCategory(t, db, "events")
	tips := createCategory(t, db, "tips")
	content := createContent(t, db, profile, events, "original title")

	w := perform(r, http.MethodPost, "/content/"+itoa(content.ID)+"/edit", map[string]interface{}{
		"title":       "updated title",
		"description": "updated description",
		"category_id": tips.ID,
	}, sessionCookie(t, user, profile))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/content/"+itoa(content.ID)+"/", w.Header().Get("Location"))

	var reloaded models.UserContent
	require.NoError(t, db.First(&reloaded, content.ID).Error)
	assert.Equal(t, "updated title", reloaded.Title)
	assert.Equal(t, tips.ID, reloaded.CategoryID)
}

func TestContentDelete_NonAuthorForbidden(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	_, author := createUser(t, db, "alice", "alice@example.com")
	intruderUser, intruderProfile := createUser(t, db, "bob", "bob@example.com")
	events := createCategory(t, db, "events")
	content := createContent(t, db, author, events, "keep me")

	w := perform(r, http.MethodPost, "/content/"+itoa(content.ID)+"/delete", nil,
		sessionCookie(t, intruderUser, intruderProfile))

	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&models.UserContent{}).Where("id = ?", content.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestContentDelete_RemovesContentAndComments(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user, profile := createUser(t, db, "alice", "alice@example.com")
	events := createCategory(t, db, "events")
	content := createContent(t, db, profile, events, "short-lived")
	require.NoError(t, db.Create(&models.Comment{
		UserContentID: content.ID,
		UserProfileID: profile.ID,
		Text:          "first!",
	}).Error)

	w := perform(r, http.MethodPost, "/content/"+itoa(content.ID)+"/delete", nil,
		sessionCookie(t, user, profile))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/main/", w.Header().Get("Location"))

	var contentCount, commentCount int64
	db.Model(&models.UserContent{}).Where("id = ?", content.ID).Count(&contentCount)
	db.Model(&models.Comment{}).Where("user_content_id = ?", content.ID).Count(&commentCount)
	assert.Zero(t, contentCount)
	assert.Zero(t, commentCount)
}
