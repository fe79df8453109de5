package main

import (
	"os"

	"github.com/automuse/studio/seed"
	"github.com/automuse/studio/utils"
	"github.com/automuse/studio/utils/dotenv"
	Logger "github.com/automuse/studio/utils/log"
)

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		Logger.Log.Fatal("fail to load env: ", err)
	}

	seedPath := os.Getenv("SEED_FILE")
	if seedPath == "" {
		seedPath = "seed.yaml"
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Logger.Log.Fatal("fail to connect database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	f, err := seed.Load(seedPath)
	if err != nil {
		Logger.Log.Fatal(err)
	}
	if err := seed.Apply(db, f); err != nil {
		Logger.Log.Fatal(err)
	}

	Logger.Log.Infof("seeded %d pricing items, %d courses, %d style guides",
		len(f.Pricing), len(f.Courses), len(f.Guides))
}
