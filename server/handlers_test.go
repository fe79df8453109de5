package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/automuse/studio/filestore"
	"github.com/automuse/studio/ideas"
	"github.com/automuse/studio/model"
	"github.com/automuse/studio/notify"
	"github.com/automuse/studio/server/middlewares"
	"github.com/automuse/studio/utils"
	flags "github.com/automuse/studio/utils/flag"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStore struct {
	confirmed []string
}

func (s *fakeStore) IssueUploadURL(fileName string, contentType string) (*filestore.UploadGrant, error) {
	return &filestore.UploadGrant{
		UploadURL: "https://fake-bucket.test/put/" + fileName,
		Key:       "uploads/" + fileName,
	}, nil
}

func (s *fakeStore) ConfirmUpload(key string) (string, error) {
	if key == "uploads/missing.png" {
		return "", fmt.Errorf("no object at %s", key)
	}
	s.confirmed = append(s.confirmed, key)
	return "https://cdn.test/" + key, nil
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	flags.ByPassAuth = true

	db := utils.CreateTestDB(t)
	deps := &Deps{
		DB:       db,
		Bus:      ideas.NewEventBus(),
		Provider: ideas.PlaceholderProvider{},
		Store:    &fakeStore{},
		Notifier: &notify.ContactNotifier{},
	}
	router := gin.New()
	router.Use(middlewares.Auth())
	RegisterRoutes(router, deps)
	return router, db
}

func perform(router *gin.Engine, method string, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIngestIdeaEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w := perform(router, "POST", "/ideas/ingest", gin.H{
		"inputType":  model.IdeaInputTypeUrl,
		"inputValue": "https://example.com/post",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, true, resp["created"])

	// Same canonical URL: expected skip, 200 with the existing row.
	w = perform(router, "POST", "/ideas/ingest", gin.H{
		"inputType":  model.IdeaInputTypeUrl,
		"inputValue": "https://example.com/post",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	assert.Equal(t, false, resp["created"])

	w = perform(router, "POST", "/ideas/ingest", gin.H{
		"inputType":  "video",
		"inputValue": "https://example.com/post",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp = decode(t, w)
	assert.Equal(t, float64(utils.ErrorInvalidInput), resp["code"])
}

func TestIdeaReviewEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := perform(router, "POST", "/ideas/ingest", gin.H{
		"inputType":  model.IdeaInputTypeUrl,
		"inputValue": "https://example.com/post",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	idea := decode(t, w)["idea"].(map[string]interface{})
	ideaID := idea["id"].(string)

	w = perform(router, "POST", "/ideas/"+ideaID+"/approve", gin.H{
		"platforms": []string{"blog", "linkedin"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), decode(t, w)["draftsCreated"])

	// Approved ideas cannot be rejected anymore.
	w = perform(router, "POST", "/ideas/"+ideaID+"/reject", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, "GET", "/ideas?status=approved", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(1), resp["total"])
}

func TestDraftSchedulingEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := perform(router, "POST", "/ideas/ingest", gin.H{
		"inputType":  model.IdeaInputTypeUrl,
		"inputValue": "https://example.com/post",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	ideaID := decode(t, w)["idea"].(map[string]interface{})["id"].(string)

	w = perform(router, "POST", "/ideas/"+ideaID+"/approve", gin.H{"platforms": []string{"blog"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, "GET", "/drafts?status=draft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	drafts := decode(t, w)["drafts"].([]interface{})
	require.Len(t, drafts, 1)
	draftID := drafts[0].(map[string]interface{})["id"].(string)

	// No body: schedule with the default delay.
	w = perform(router, "POST", "/drafts/"+draftID+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = perform(router, "GET", "/scheduled", nil)
	require.Equal(t, http.StatusOK, w.Code)
	scheduled := decode(t, w)["scheduled"].([]interface{})
	require.Len(t, scheduled, 1)

	w = perform(router, "PUT", "/scheduled/"+draftID, gin.H{
		"draftContent":  "polished copy",
		"scheduledAt":   "2026-09-15T10:00:00Z",
		"draftMetadata": gin.H{"hashtags": []string{"#ai"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["updated"])

	w = perform(router, "PUT", "/scheduled/"+draftID, gin.H{"scheduledAt": "not a moment in time"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, "DELETE", "/scheduled/"+draftID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["cancelled"])

	w = perform(router, "GET", "/scheduled", nil)
	assert.Empty(t, decode(t, w)["scheduled"])
}

func TestFeedSourceEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := perform(router, "POST", "/feeds", gin.H{
		"url":  "https://example.com/rss",
		"name": "Example",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	feed := decode(t, w)["feed"].(map[string]interface{})
	assert.Equal(t, model.FeedTypeRss, feed["type"])
	feedID := feed["id"].(string)

	inactive := false
	w = perform(router, "PUT", "/feeds/"+feedID, gin.H{
		"url":      "https://example.com/rss",
		"name":     "Example",
		"isActive": inactive,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Scrape failures come back as data, never as HTTP errors.
	w = perform(router, "POST", "/feeds/"+feedID+"/scrape", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)
	assert.Equal(t, false, result["success"])

	w = perform(router, "DELETE", "/feeds/"+feedID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = perform(router, "DELETE", "/feeds/"+feedID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStyleGuideEndpoints(t *testing.T) {
	router, db := newTestServer(t)

	w := perform(router, "POST", "/style-guides", gin.H{
		"platform":   "linkedin",
		"guidelines": "be direct",
		"aiPrompt":   "write as a practitioner",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Re-posting the same platform replaces the configuration in place.
	w = perform(router, "POST", "/style-guides", gin.H{
		"platform":   "linkedin",
		"guidelines": "be very direct",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&model.StyleGuide{}).Count(&count)
	assert.Equal(t, int64(1), count)

	w = perform(router, "GET", "/style-guides/linkedin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	guide := decode(t, w)["styleGuide"].(map[string]interface{})
	assert.Equal(t, "be very direct", guide["guidelines"])

	w = perform(router, "DELETE", "/style-guides/linkedin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = perform(router, "GET", "/style-guides/linkedin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlogEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := perform(router, "POST", "/admin/blog", gin.H{
		"slug":      "hello-world",
		"title":     "Hello World",
		"content":   "First post.",
		"tags":      []string{"intro"},
		"published": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode(t, w)["post"].(map[string]interface{})
	postID := post["id"].(string)

	w = perform(router, "POST", "/admin/blog", gin.H{
		"slug":  "draft-post",
		"title": "Not Ready",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Public surface only sees published posts.
	w = perform(router, "GET", "/blog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(1), resp["total"])

	w = perform(router, "GET", "/blog/draft-post", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Partial update only touches the fields it carries.
	w = perform(router, "PUT", "/admin/blog/"+postID, gin.H{"title": "Hello Again"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["post"].(map[string]interface{})
	assert.Equal(t, "Hello Again", updated["title"])
	assert.Equal(t, "hello-world", updated["slug"])
	assert.Equal(t, true, updated["published"])

	w = perform(router, "POST", "/admin/blog", gin.H{"slug": "", "title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, "DELETE", "/admin/blog/"+postID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = perform(router, "GET", "/blog/hello-world", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPricingEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := perform(router, "POST", "/admin/pricing", gin.H{
		"name":      "Scale",
		"price":     4999.0,
		"sortOrder": 2,
		"features":  []string{"everything"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = perform(router, "POST", "/admin/pricing", gin.H{
		"name":      "Starter",
		"price":     999.0,
		"sortOrder": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(router, "GET", "/pricing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["pricing"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "Starter", items[0].(map[string]interface{})["name"])
	assert.Equal(t, "Scale", items[1].(map[string]interface{})["name"])

	w = perform(router, "POST", "/admin/pricing", gin.H{"price": 1.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := perform(router, "POST", "/admin/projects", gin.H{
		"slug":    "chatbot-rollout",
		"title":   "Chatbot Rollout",
		"summary": "Support automation for a retailer",
		"tags":    []string{"chatbot", "retail"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode(t, w)["project"].(map[string]interface{})
	projectID := project["id"].(string)

	w = perform(router, "GET", "/projects/chatbot-rollout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, "DELETE", "/admin/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = perform(router, "GET", "/projects/chatbot-rollout", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactEndpoints(t *testing.T) {
	router, db := newTestServer(t)

	w := perform(router, "POST", "/contacts", gin.H{
		"name":    "Dana",
		"email":   "dana@example.com",
		"message": "We need help automating intake.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	contactID := decode(t, w)["contact"].(map[string]interface{})["id"].(string)

	w = perform(router, "POST", "/contacts", gin.H{"name": "Anon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, "PUT", "/admin/contacts/"+contactID, gin.H{"status": model.ContactStatusContacted})
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, "PUT", "/admin/contacts/"+contactID, gin.H{"status": "ghosted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Tagging is idempotent: same tag twice leaves a single assignment.
	w = perform(router, "POST", "/admin/contacts/"+contactID+"/tags", gin.H{"name": "hot-lead"})
	require.Equal(t, http.StatusOK, w.Code)
	tagID := decode(t, w)["tag"].(map[string]interface{})["id"].(string)
	w = perform(router, "POST", "/admin/contacts/"+contactID+"/tags", gin.H{"name": "hot-lead"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tagID, decode(t, w)["tag"].(map[string]interface{})["id"])

	// The skipped insert must not leak its candidate id anywhere: one tag
	// row, and the assignment points at it.
	var tags []model.ContactTag
	require.NoError(t, db.Where("name = ?", "hot-lead").Find(&tags).Error)
	require.Len(t, tags, 1)
	assert.Equal(t, tagID, tags[0].Id)
	var assignments []model.ContactTagAssignment
	require.NoError(t, db.Where("contact_id = ?", contactID).Find(&assignments).Error)
	require.Len(t, assignments, 1)
	assert.Equal(t, tagID, assignments[0].ContactTagID)

	w = perform(router, "GET", "/admin/contacts?status=contacted", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(1), resp["total"])

	w = perform(router, "DELETE", "/admin/contacts/"+contactID+"/tags/"+tagID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = perform(router, "DELETE", "/admin/contacts/"+contactID+"/tags/"+tagID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseMembershipEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := perform(router, "POST", "/admin/courses", gin.H{
		"slug":      "agents-101",
		"title":     "Agents 101",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	courseID := decode(t, w)["course"].(map[string]interface{})["id"].(string)

	lessonIds := make([]string, 0, 2)
	for _, title := range []string{"Intro", "Tooling"} {
		w = perform(router, "POST", "/admin/lessons", gin.H{"title": title})
		require.Equal(t, http.StatusCreated, w.Code)
		lessonIds = append(lessonIds, decode(t, w)["lesson"].(map[string]interface{})["id"].(string))
	}

	w = perform(router, "PUT", "/admin/courses/"+courseID+"/lessons", gin.H{"ids": lessonIds})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), decode(t, w)["count"])

	w = perform(router, "GET", "/courses/agents-101", nil)
	require.Equal(t, http.StatusOK, w.Code)
	course := decode(t, w)["course"].(map[string]interface{})
	assert.Len(t, course["lessons"], 2)

	// Re-setting with a shorter list drops the stale membership.
	w = perform(router, "PUT", "/admin/courses/"+courseID+"/lessons", gin.H{"ids": lessonIds[:1]})
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, "GET", "/courses/agents-101", nil)
	course = decode(t, w)["course"].(map[string]interface{})
	assert.Len(t, course["lessons"], 1)

	// Learning path over the course.
	w = perform(router, "POST", "/admin/paths", gin.H{
		"slug":      "automation-track",
		"title":     "Automation Track",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	pathID := decode(t, w)["path"].(map[string]interface{})["id"].(string)

	w = perform(router, "PUT", "/admin/paths/"+pathID+"/courses", gin.H{"ids": []string{courseID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = perform(router, "GET", "/paths/automation-track", nil)
	require.Equal(t, http.StatusOK, w.Code)
	path := decode(t, w)["path"].(map[string]interface{})
	assert.Len(t, path["courses"], 1)
}

func TestUploadEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	w := perform(router, "POST", "/uploads/sign", gin.H{
		"fileName":    "cover.png",
		"contentType": "image/png",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "uploads/cover.png", resp["key"])
	assert.NotEmpty(t, resp["uploadUrl"])

	w = perform(router, "POST", "/uploads/confirm", gin.H{"key": "uploads/cover.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.test/uploads/cover.png", decode(t, w)["url"])

	w = perform(router, "POST", "/uploads/confirm", gin.H{"key": "uploads/missing.png"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, "POST", "/uploads/sign", gin.H{"fileName": "cover.png"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
