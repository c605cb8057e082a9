package main

import (
	"context"
	"fmt"
	"time"

	"classifieds_app_v1_202610/internal/model"
	"classifieds_app_v1_202610/internal/repository"
	"classifieds_app_v1_202610/pkg/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// seed 空库时写入演示数据，已有用户则跳过
func seed(ctx context.Context, db *gorm.DB, now time.Time) error {
	var users int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		amina := model.User{Name: "Amina", Email: "amina@example.com", Phone: "+256700000001"}
		brian := model.User{Name: "Brian", Email: "brian@example.com", Phone: "+256700000002"}
		users := repository.NewUserRepository(tx)
		for _, u := range []*model.User{&amina, &brian} {
			if err := users.Create(ctx, u); err != nil {
				return err
			}
		}

		vehicles := model.Category{Name: "Vehicles"}
		electronics := model.Category{Name: "Electronics"}
		if err := tx.Create(&[]*model.Category{&vehicles, &electronics}).Error; err != nil {
			return err
		}
		cars := model.Category{Name: "Cars", ParentID: &vehicles.ID}
		phones := model.Category{Name: "Phones", ParentID: &electronics.ID}
		if err := tx.Create(&[]*model.Category{&cars, &phones}).Error; err != nil {
			return err
		}

		lat, lng := 0.3476, 32.5825
		kampala := model.City{Name: "Kampala", Latitude: &lat, Longitude: &lng}
		gulu := model.City{Name: "Gulu"}
		if err := tx.Create(&[]*model.City{&kampala, &gulu}).Error; err != nil {
			return err
		}

		reviewed := now.Add(-24 * time.Hour)
		archived := now.Add(-2 * time.Hour)
		listings := []model.Listing{
			{
				UserID: amina.ID, CategoryID: cars.ID, CityID: &kampala.ID,
				Title: "Toyota Premio 2012", Description: "Clean, single owner.",
				Price: 38500000, Currency: "UGX",
				FieldValues: datatypes.JSON(`{"mileage":"84000","engine_cc":1800,"transmission":"automatic","features":["ABS","Airbags","Alloy wheels"]}`),
				ViewsCount:  12, ReviewedAt: &reviewed,
			},
			{
				UserID: amina.ID, CategoryID: cars.ID, CityID: &gulu.ID,
				Title: "Subaru Forester", Price: 45000000, Currency: "UGX",
				FieldValues: datatypes.JSON(`{"mileage":"120000","features":["4WD"]}`),
			},
			{
				UserID: amina.ID, CategoryID: phones.ID, CityID: &kampala.ID,
				Title: "iPhone 12, 128GB", Price: 499.99, Currency: "USD",
				ReviewedAt: &reviewed, ArchivedAt: &archived,
			},
			{
				UserID: brian.ID, CategoryID: cars.ID, CityID: &kampala.ID,
				Title: "Honda Fit", Price: 21000000, Currency: "UGX",
				FieldValues: datatypes.JSON(`{"mileage":"64000","fuel":"petrol"}`),
				ReviewedAt:  &reviewed,
			},
			{
				UserID: brian.ID, CategoryID: phones.ID,
				Title: "Samsung A54", Price: 1250000, Currency: "UGX",
				ReviewedAt: &reviewed,
			},
		}
		if err := tx.Create(&listings).Error; err != nil {
			return err
		}

		var pictures []model.Picture
		for i, l := range listings {
			if i%2 == 1 {
				continue
			}
			v := storage.VariantsOf(fmt.Sprintf("https://picsum.photos/seed/listing-%d/1280/960.jpg", l.ID))
			pictures = append(pictures, model.Picture{
				ListingID: l.ID,
				Position:  1,
				Large:     v.Large,
				Medium:    v.Medium,
				Small:     v.Small,
				Original:  v.Original,
			})
		}
		if err := tx.Create(&pictures).Error; err != nil {
			return err
		}

		favorites := []model.Favorite{
			{UserID: brian.ID, ListingID: listings[0].ID},
			{UserID: amina.ID, ListingID: listings[3].ID},
			{UserID: amina.ID, ListingID: listings[4].ID},
		}
		if err := tx.Create(&favorites).Error; err != nil {
			return err
		}
		for _, f := range favorites {
			if err := tx.Model(&model.Listing{}).Where("id = ?", f.ListingID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
