package main

import (
	"os"

	"github.com/automuse/studio/filestore"
	"github.com/automuse/studio/ideas"
	"github.com/automuse/studio/notify"
	"github.com/automuse/studio/server"
	"github.com/automuse/studio/server/middlewares"
	"github.com/automuse/studio/utils"
	"github.com/automuse/studio/utils/dotenv"
	flags "github.com/automuse/studio/utils/flag"
	Logger "github.com/automuse/studio/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	utils.CloseProfiler()
	utils.CloseTracer()
	utils.CloseMetrics()
	Logger.Log.Info("api server shutdown")
}

func main() {
	defer cleanup()

	flags.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	utils.InitTracer()
	utils.InitProfiler()
	utils.InitMetrics()
	middlewares.Setup()

	db, err := utils.GetDBConnection()
	if err != nil {
		Logger.Log.Fatal("fail to connect database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	store, err := filestore.NewS3Store()
	if err != nil {
		Logger.Log.Fatal("fail to initialize file store: ", err)
	}

	deps := &server.Deps{
		DB:       db,
		Bus:      ideas.NewEventBus(),
		Provider: ideas.NewPageTitleProvider(),
		Store:    store,
		Notifier: notify.NewContactNotifierFromEnv(),
	}

	// Default with the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(gintrace.Middleware(flags.ServiceName))
	router.Use(middlewares.Auth())

	server.RegisterRoutes(router, deps)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	Logger.Log.Info("api server starts up on ", addr)
	router.Run(addr)
}
