package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturalhub/culturalhub/models"
)

func TestCommentCreate_PersistsWithSessionAuthor(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	_, author := createUser(t, db, "alice", "alice@example.com")
	commenterUser, commenterProfile := createUser(t, db, "bob", "bob@example.com")
	events := createCategory(t, db, "events")
	content := createContent(t, db, author, events, "flamenco night")

	w := perform(r, http.MethodPost, "/content/"+itoa(content.ID)+"/comment", map[string]interface{}{
		"text":            "count me in",
		"user_profile_id": author.ID,
	}, sessionCookie(t, commenterUser, commenterProfile))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/content/"+itoa(content.ID)+"/", w.Header().Get("Location"))

	var comment models.Comment
	require.NoError(t, db.Where("user_content_id = ?", content.ID).First(&comment).Error)
	assert.Equal(t, "count me in", comment.Text)
	assert.Equal(t, commenterProfile.ID, comment.UserProfileID, "author must come from the session")
}

func TestCommentCreate_EmptyTextRedirectsWithoutPersisting(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user, profile := createUser(t, db, "alice", "alice@example.com")
	events := createCategory(t, db, "events")
	content := createContent(t, db, profile, events, "flamenco night")

	w := perform(r, http.MethodPost, "/content/"+itoa(content.ID)+"/comment", map[string]interface{}{
		"text": "   ",
	}, sessionCookie(t, user, profile))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/content/"+itoa(content.ID)+"/", w.Header().Get("Location"))

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestCommentCreate_ScriptTagsStripped(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user, profile := createUser(t, db, "alice", "alice@example.com")
	events := createCategory(t, db, "events")
	content := createContent(t, db, profile, events, "flamenco night")

	w := perform(r, http.MethodPost, "/content/"+itoa(content.ID)+"/comment", map[string]interface{}{
		"text": `great <script>alert("x")</script> event`,
	}, sessionCookie(t, user, profile))

	assert.Equal(t, http.StatusFound, w.Code)

	var comment models.Comment
	require.NoError(t, db.Where("user_content_id = ?", content.ID).First(&comment).Error)
	assert.NotContains(t, comment.Text, "<script>")
	assert.Contains(t, comment.Text, "great")
}

func TestCommentCreate_NonNumericContentIDRedirectsToMain(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user, profile := createUser(t, db, "alice", "alice@example.com")
	events := createCategory(t, db, "events")
	createContent(t, db, profile, events, "flamenco night")

	w := perform(r, http.MethodPost, "/content/1%20OR%20true/comment", map[string]interface{}{
		"text": "crafted id",
	}, sessionCookie(t, user, profile))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/main/", w.Header().Get("Location"))

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestCommentCreate_MissingContentRedirectsToMain(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	user, profile := createUser(t, db, "alice", "alice@example.com")

	w := perform(r, http.MethodPost, "/content/999/comment", map[string]interface{}{
		"text": "into the void",
	}, sessionCookie(t, user, profile))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/main/", w.Header().Get("Location"))

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}
