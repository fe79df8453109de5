// database_utils is the canonical place for shared DB plumbing. It should
// not include any util that contains business logic.
package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/automuse/studio/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestDBPrefix         = "testonlydb_"
	TestDBNameCharLength = 8
)

func isTempDB(dbName string) bool {
	return strings.HasPrefix(dbName, TestDBPrefix)
}

func randomTestDBName() string {
	return TestDBPrefix + RandomAlphabetString(TestDBNameCharLength)
}

// GetDBConnection gets a connection to the database specified by env.
func GetDBConnection() (*gorm.DB, error) {
	return GetCustomizedConnection(os.Getenv("DB_NAME"))
}

// GetDefaultDBConnection connects to the maintenance database used to manage
// all other dbs.
func GetDefaultDBConnection() (*gorm.DB, error) {
	return GetCustomizedConnection(os.Getenv("DEFAULT_DB_NAME"))
}

// GetCustomizedConnection connects to any db by name.
func GetCustomizedConnection(dbName string) (*gorm.DB, error) {
	user, pass := os.Getenv("DB_USER"), os.Getenv("DB_PASS")
	if dbName == os.Getenv("DEFAULT_DB_NAME") {
		user, pass = os.Getenv("DEFAULT_DB_USER"), os.Getenv("DEFAULT_DB_PASS")
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), user, pass, dbName, os.Getenv("DB_PORT"))
	return getDB(dsn)
}

func getDB(connectionString string) (db *gorm.DB, err error) {
	return gorm.Open(postgres.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// CreateTestDB opens an isolated in-memory sqlite database with the full
// schema migrated, cleaned up when the test finishes. Hermetic, no postgres
// instance needed. Use CreateTempDB when the test must exercise
// postgres-specific behavior.
func CreateTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", randomTestDBName())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal("cannot open in-memory test DB: ", err)
	}
	DatabaseSetupAndMigration(db)
	t.Cleanup(func() {
		conn, _ := db.DB()
		conn.Close()
	})
	return db
}

// CreateTempDB creates a throwaway postgres database for integration tests.
// It is guaranteed to be dropped after each test case.
//
// Note: there are 2 cases where the database won't be cleaned up:
// 1. Test fail due to timeout
// 2. Exit with signal Ctrl+C
// In both cases log into the database and manually drop databases with the
// prefix "testonlydb_".
func CreateTempDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	db, err := GetDefaultDBConnection()
	if err != nil {
		log.Fatalln("cannot connect to DB")
	}
	dbName := randomTestDBName()
	if err := db.Exec("CREATE DATABASE " + dbName).Error; err != nil {
		log.Fatalln("fail to create temp DB with name: ", dbName)
	}
	newDB, err := GetCustomizedConnection(dbName)
	if err != nil {
		log.Fatalln("fail to connect to newly created DB: ", dbName)
	}
	DatabaseSetupAndMigration(newDB)
	t.Cleanup(func() {
		dropTempDB(newDB, dbName)

		// Also proactively clean up the DB connections instead of deferring
		// to GC, otherwise we might exceed the DB max connection limit in
		// test and cause other tests to fail.
		conn, _ := db.DB()
		conn.Close()
		conn, _ = newDB.DB()
		conn.Close()
	})

	return newDB, dbName
}

// dropTempDB drops a temp db with given name. Aborts the program on any
// failure. Safe to call multiple times, it won't fail on deleting a
// non-existing DB.
func dropTempDB(curDB *gorm.DB, dbName string) {
	if !isTempDB(dbName) {
		log.Fatalln("cannot delete a non-testing DB")
	}

	// The current connection must be closed first, otherwise the drop is
	// rejected. Fail to close will surface when we try to drop anyway.
	sqlDB, err := curDB.DB()
	if err != nil {
		log.Fatalln("cannot get the current SQL DB")
	}
	if err := sqlDB.Close(); err != nil {
		log.Println("cannot close DB", err)
	}

	db, err := GetDefaultDBConnection()
	if err != nil {
		log.Fatalln("cannot connect to DB")
	}
	db.Exec("DROP DATABASE IF EXISTS " + dbName)
}

// DatabaseSetupAndMigration wires the ordered join tables and migrates the
// full schema.
func DatabaseSetupAndMigration(db *gorm.DB) {
	var err error

	err = db.SetupJoinTable(&model.Course{}, "Lessons", &model.CourseLesson{})
	if err != nil {
		panic("failed to set up course/lesson join table")
	}

	err = db.SetupJoinTable(&model.Lesson{}, "Courses", &model.CourseLesson{})
	if err != nil {
		panic("failed to set up lesson/course join table")
	}

	err = db.SetupJoinTable(&model.LearningPath{}, "Courses", &model.PathCourse{})
	if err != nil {
		panic("failed to set up path/course join table")
	}

	err = db.SetupJoinTable(&model.Contact{}, "Tags", &model.ContactTagAssignment{})
	if err != nil {
		panic("failed to set up contact/tag join table")
	}

	err = db.SetupJoinTable(&model.ContactTag{}, "Contacts", &model.ContactTagAssignment{})
	if err != nil {
		panic("failed to set up tag/contact join table")
	}

	db.AutoMigrate(
		&model.Idea{}, &model.FeedSource{}, &model.PlatformSelection{},
		&model.StyleGuide{}, &model.BlogPost{}, &model.PricingItem{},
		&model.Project{}, &model.Contact{}, &model.ContactTag{},
		&model.Course{}, &model.Lesson{}, &model.LearningPath{},
	)
}

// IsDatabaseExist returns true on DB exist, returns false on not exist or
// error.
func IsDatabaseExist(dbName string) (bool, error) {
	db, err := GetDefaultDBConnection()
	if err != nil {
		return false, err
	}

	var exists bool
	res := db.Raw(fmt.Sprintf("SELECT TRUE FROM pg_catalog.pg_database WHERE lower(datname) = lower('%s') limit 1;", dbName)).Scan(&exists)
	if res.Error != nil {
		return false, err
	}

	return exists, nil
}
