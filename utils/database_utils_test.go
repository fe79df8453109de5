package utils

import (
	"os"
	"testing"

	"github.com/automuse/studio/model"
	"github.com/automuse/studio/utils/dotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTestDBMigratesSchema(t *testing.T) {
	db := CreateTestDB(t)

	for _, table := range []string{
		"ideas", "feed_sources", "platform_selections", "style_guides",
		"blog_posts", "pricing_items", "projects", "contacts", "contact_tags",
		"contact_tag_assignments", "courses", "lessons", "course_lessons",
		"learning_paths", "path_courses",
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	// The schema is usable end to end, not just present.
	require.NoError(t, db.Create(&model.Idea{Id: "idea-1", InputType: model.IdeaInputTypeText, InputValue: "note"}).Error)
	var count int64
	db.Model(&model.Idea{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

// Runs against a real postgres instance when one is configured, otherwise
// skipped. Exercises the temp-DB lifecycle the hermetic sqlite path cannot.
func TestTempDBLifecycle(t *testing.T) {
	dotenv.LoadDotEnvsInTests()
	if os.Getenv("DEFAULT_DB_NAME") == "" {
		t.Skip("postgres is not configured")
	}

	db, dbName := CreateTempDB(t)

	exists, err := IsDatabaseExist(dbName)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = IsDatabaseExist(TestDBPrefix + "never_created")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, db.Create(&model.Idea{Id: "idea-1", InputType: model.IdeaInputTypeText, InputValue: "note"}).Error)
}
