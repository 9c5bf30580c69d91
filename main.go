package main

import (
	"flag"

	"github.com/culturalhub/culturalhub/config"
	"github.com/culturalhub/culturalhub/models"
	"github.com/culturalhub/culturalhub/routes"
	"github.com/culturalhub/culturalhub/utils"
)

func main() {
	seed := flag.Bool("seed", false, "populate the database with sample data and continue serving")
	flag.Parse()

	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.UserProfile{},
		&models.Interest{},
		&models.Category{},
		&models.UserContent{},
		&models.Comment{},
		&models.PageView{},
	)

	if *seed {
		if err := utils.SeedSampleData(db, cfg.SeedUserCount); err != nil {
			utils.Sugar.Fatalf("sample data seeding failed: %v", err)
		}
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
