// cmd/seeder/main.go
package main

import (
	"context"
	_ "embed"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/unclebandit/dinerreach/internal/config"
	"github.com/unclebandit/dinerreach/internal/db"
	"github.com/unclebandit/dinerreach/internal/fixtures"
	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/repository"
)

//go:embed campaigns.yaml
var demoCampaigns []byte

type seedCampaign struct {
	Name        string        `yaml:"name"`
	OfferTitle  string        `yaml:"offer_title"`
	Message     string        `yaml:"message"`
	Channel     model.Channel `yaml:"channel"`
	Status      model.Status  `yaml:"status"`
	Recipients  int           `yaml:"recipients"`
	Opened      int           `yaml:"opened"`
	Clicked     int           `yaml:"clicked"`
	Revenue     string        `yaml:"revenue"`
	SentDaysAgo int           `yaml:"sent_days_ago"`
}

func (s seedCampaign) toModel(now time.Time) (*model.Campaign, error) {
	c := &model.Campaign{
		Name:       s.Name,
		OfferTitle: s.OfferTitle,
		Message:    s.Message,
		Channel:    s.Channel,
		Type:       s.Channel,
		Status:     s.Status,
		Recipients: s.Recipients,
		Opened:     s.Opened,
		Clicked:    s.Clicked,
		CreatedAt:  now,
	}
	if s.Revenue != "" {
		rev, err := decimal.NewFromString(s.Revenue)
		if err != nil {
			return nil, err
		}
		c.Revenue = decimal.NewNullDecimal(rev)
	}
	if s.Status == model.StatusCompleted {
		sent := now.AddDate(0, 0, -s.SentDaysAgo)
		c.SentAt = &sent
		c.CreatedAt = sent
	}
	return c, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	ctx := context.Background()

	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("open database: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logrus.Fatalf("migrate: %v", err)
	}

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		logrus.Fatalf("load catalog: %v", err)
	}

	diners := &repository.DinerRepository{DB: store}
	if err := diners.UpsertDiners(ctx, catalog.Diners); err != nil {
		logrus.Fatalf("seed diners: %v", err)
	}
	logrus.Infof("🌱 Seeded %d diners", len(catalog.Diners))

	campaigns := &repository.CampaignRepository{DB: store}
	existing, err := campaigns.ListCampaigns(ctx, repository.CampaignFilter{})
	if err != nil {
		logrus.Fatalf("list campaigns: %v", err)
	}
	if len(existing) > 0 {
		logrus.Infof("⏭️ %d campaigns already present, skipping demo history", len(existing))
		return
	}

	var seeds []seedCampaign
	if err := yaml.Unmarshal(demoCampaigns, &seeds); err != nil {
		logrus.Fatalf("parse demo campaigns: %v", err)
	}
	now := time.Now().UTC()
	for _, s := range seeds {
		c, err := s.toModel(now)
		if err != nil {
			logrus.Fatalf("campaign %q: %v", s.Name, err)
		}
		if err := campaigns.CreateCampaign(ctx, c); err != nil {
			logrus.Fatalf("seed campaign %q: %v", s.Name, err)
		}
	}
	logrus.Infof("🌱 Seeded %d campaigns", len(seeds))
	logrus.Info("Database seeding completed successfully!")
}

func loadCatalog(path string) (*fixtures.Catalog, error) {
	if path != "" {
		return fixtures.LoadFile(path)
	}
	return fixtures.Default()
}
