package utils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"

	"github.com/culturalhub/culturalhub/models"
)

var seedCategories = []models.Category{
	{Name: "events", Description: "Cultural events, festivals and performances."},
	{Name: "tips", Description: "Local customs, etiquette and practical advice."},
	{Name: "reviews", Description: "Reviews of museums, restaurants and places."},
}

var seedInterests = []string{
	"music", "food", "history", "art", "literature", "dance",
	"architecture", "cinema", "theatre", "crafts", "language", "nature", "sport",
}

// SeedSampleData populates the database with demo users, profiles, categories
// and content for development environments. Safe to call repeatedly: it only
// runs when no categories exist yet.
func SeedSampleData(db *gorm.DB, userCount int) error {
	var n int64
	if err := db.Model(&models.Category{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for i := range seedCategories {
		if err := db.Create(&seedCategories[i]).Error; err != nil {
			return fmt.Errorf("seed category: %w", err)
		}
	}

	interests := make([]models.Interest, 0, len(seedInterests))
	for _, name := range seedInterests {
		in := models.Interest{Name: name}
		if err := db.Create(&in).Error; err != nil {
			return fmt.Errorf("seed interest: %w", err)
		}
		interests = append(interests, in)
	}

	hash, err := HashPassword("changeme1")
	if err != nil {
		return err
	}

	for i := 0; i < userCount; i++ {
		user := models.User{
			Username:     gofakeit.Username(),
			Email:        gofakeit.Email(),
			PasswordHash: hash,
			FirstName:    gofakeit.FirstName(),
			LastName:     gofakeit.LastName(),
		}
		if err := db.Create(&user).Error; err != nil {
			// username collisions are possible with random data; skip and move on
			continue
		}

		var profile models.UserProfile
		if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
			return fmt.Errorf("seed profile lookup: %w", err)
		}
		profile.Country = gofakeit.CountryAbr()
		profile.BirthYear = gofakeit.Number(1950, time.Now().Year()-18)
		profile.About = gofakeit.Paragraph(1, 3, 12, " ")
		if err := db.Save(&profile).Error; err != nil {
			return fmt.Errorf("seed profile: %w", err)
		}
		picked := pickInterests(interests)
		if err := db.Model(&profile).Association("Interests").Replace(picked); err != nil {
			return fmt.Errorf("seed profile interests: %w", err)
		}

		for j := 0; j < gofakeit.Number(1, 3); j++ {
			date := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now().AddDate(0, 6, 0))
			rating := float64(gofakeit.Number(100, 500)) / 100
			content := models.UserContent{
				Title:       gofakeit.Sentence(4),
				Description: gofakeit.Paragraph(1, 4, 10, " "),
				Date:        &date,
				Location:    gofakeit.City(),
				Culture:     gofakeit.Country(),
				Rating:      &rating,
				AuthorID:    profile.ID,
				CategoryID:  seedCategories[gofakeit.Number(0, len(seedCategories)-1)].ID,
			}
			if err := db.Create(&content).Error; err != nil {
				return fmt.Errorf("seed content: %w", err)
			}
			if err := db.Model(&content).Association("Interests").Replace(pickInterests(interests)); err != nil {
				return fmt.Errorf("seed content interests: %w", err)
			}
		}
	}

	Sugar.Infof("sample data seeded: %d users requested", userCount)
	return nil
}

func pickInterests(all []models.Interest) []models.Interest {
	count := gofakeit.Number(1, 5)
	picked := make([]models.Interest, 0, count)
	seen := map[uint]bool{}
	for len(picked) < count {
		in := all[gofakeit.Number(0, len(all)-1)]
		if seen[in.ID] {
			continue
		}
		seen[in.ID] = true
		picked = append(picked, in)
	}
	return picked
}
