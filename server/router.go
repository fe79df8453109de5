package server

import (
	"github.com/automuse/studio/filestore"
	"github.com/automuse/studio/ideas"
	"github.com/automuse/studio/notify"
	"github.com/automuse/studio/server/middlewares"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything handlers need. Wired once in main, injected into
// the route table.
type Deps struct {
	DB       *gorm.DB
	Bus      *ideas.EventBus
	Provider ideas.SummaryProvider
	Store    filestore.Store
	Notifier *notify.ContactNotifier
}

// Route is one declared endpoint. RequiresAdmin drives the authorization
// middleware uniformly, no handler carries an inline role check.
type Route struct {
	Method        string
	Path          string
	RequiresAdmin bool
	Handler       gin.HandlerFunc
}

// Routes declares the full HTTP surface.
func Routes(d *Deps) []Route {
	return []Route{
		// public website surface
		{"GET", "/healthz", false, healthzHandler(d)},
		{"GET", "/blog", false, listPublishedBlogPostsHandler(d)},
		{"GET", "/blog/:slug", false, getBlogPostHandler(d)},
		{"GET", "/pricing", false, listPricingHandler(d)},
		{"GET", "/projects", false, listProjectsHandler(d)},
		{"GET", "/projects/:slug", false, getProjectHandler(d)},
		{"GET", "/courses", false, listCoursesHandler(d)},
		{"GET", "/courses/:slug", false, getCourseHandler(d)},
		{"GET", "/paths", false, listPathsHandler(d)},
		{"GET", "/paths/:slug", false, getPathHandler(d)},
		{"POST", "/contacts", false, createContactHandler(d)},

		// idea pipeline
		{"POST", "/ideas/ingest", true, ingestIdeaHandler(d)},
		{"GET", "/ideas", true, listIdeasHandler(d)},
		{"POST", "/ideas/:id/approve", true, approveIdeaHandler(d)},
		{"POST", "/ideas/:id/reject", true, rejectIdeaHandler(d)},

		// feed registry and scraper
		{"GET", "/feeds", true, listFeedSourcesHandler(d)},
		{"POST", "/feeds", true, createFeedSourceHandler(d)},
		{"PUT", "/feeds/:id", true, updateFeedSourceHandler(d)},
		{"DELETE", "/feeds/:id", true, deleteFeedSourceHandler(d)},
		{"POST", "/feeds/:id/scrape", true, scrapeFeedHandler(d)},

		// drafts and scheduling
		{"GET", "/drafts", true, listDraftsHandler(d)},
		{"POST", "/drafts/:id/approve", true, approveDraftHandler(d)},
		{"GET", "/scheduled", true, listScheduledHandler(d)},
		{"PUT", "/scheduled/:id", true, updateScheduledHandler(d)},
		{"DELETE", "/scheduled/:id", true, cancelScheduledHandler(d)},

		// per-platform style guides
		{"GET", "/style-guides", true, listStyleGuidesHandler(d)},
		{"GET", "/style-guides/:platform", true, getStyleGuideHandler(d)},
		{"POST", "/style-guides", true, upsertStyleGuideHandler(d)},
		{"DELETE", "/style-guides/:platform", true, deleteStyleGuideHandler(d)},

		// admin content management
		{"GET", "/admin/blog", true, listAllBlogPostsHandler(d)},
		{"POST", "/admin/blog", true, createBlogPostHandler(d)},
		{"PUT", "/admin/blog/:id", true, updateBlogPostHandler(d)},
		{"DELETE", "/admin/blog/:id", true, deleteBlogPostHandler(d)},
		{"POST", "/admin/pricing", true, createPricingItemHandler(d)},
		{"PUT", "/admin/pricing/:id", true, updatePricingItemHandler(d)},
		{"DELETE", "/admin/pricing/:id", true, deletePricingItemHandler(d)},
		{"POST", "/admin/projects", true, createProjectHandler(d)},
		{"PUT", "/admin/projects/:id", true, updateProjectHandler(d)},
		{"DELETE", "/admin/projects/:id", true, deleteProjectHandler(d)},

		// CRM
		{"GET", "/admin/contacts", true, listContactsHandler(d)},
		{"PUT", "/admin/contacts/:id", true, updateContactHandler(d)},
		{"DELETE", "/admin/contacts/:id", true, deleteContactHandler(d)},
		{"POST", "/admin/contacts/:id/tags", true, assignContactTagHandler(d)},
		{"DELETE", "/admin/contacts/:id/tags/:tag", true, unassignContactTagHandler(d)},

		// learning management
		{"POST", "/admin/courses", true, createCourseHandler(d)},
		{"PUT", "/admin/courses/:id", true, updateCourseHandler(d)},
		{"DELETE", "/admin/courses/:id", true, deleteCourseHandler(d)},
		{"PUT", "/admin/courses/:id/lessons", true, setCourseLessonsHandler(d)},
		{"POST", "/admin/lessons", true, createLessonHandler(d)},
		{"PUT", "/admin/lessons/:id", true, updateLessonHandler(d)},
		{"DELETE", "/admin/lessons/:id", true, deleteLessonHandler(d)},
		{"POST", "/admin/paths", true, createPathHandler(d)},
		{"PUT", "/admin/paths/:id", true, updatePathHandler(d)},
		{"DELETE", "/admin/paths/:id", true, deletePathHandler(d)},
		{"PUT", "/admin/paths/:id/courses", true, setPathCoursesHandler(d)},

		// uploads (signed-URL handoff)
		{"POST", "/uploads/sign", true, signUploadHandler(d)},
		{"POST", "/uploads/confirm", true, confirmUploadHandler(d)},
	}
}

// RegisterRoutes mounts the route table on the engine, attaching the admin
// gate where declared.
func RegisterRoutes(router *gin.Engine, d *Deps) {
	for _, route := range Routes(d) {
		handlers := []gin.HandlerFunc{}
		if route.RequiresAdmin {
			handlers = append(handlers, middlewares.AdminOnly())
		}
		handlers = append(handlers, route.Handler)
		router.Handle(route.Method, route.Path, handlers...)
	}
}
