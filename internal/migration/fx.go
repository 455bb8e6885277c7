package migration

import (
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	"github.com/careops/carehome/internal/config"
	ledgerdomain "github.com/careops/carehome/internal/ledger/domain"
	residentdomain "github.com/careops/carehome/internal/resident/domain"
	"github.com/careops/carehome/internal/seed"
	usagedomain "github.com/careops/carehome/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite/mysql dev setups lean on gorm's schema sync instead of
			// the versioned postgres migrations.
			if err := conn.AutoMigrate(
				&catalogdomain.PriceEntry{},
				&residentdomain.BillingProfile{},
				&usagedomain.UsageRecord{},
				&ledgerdomain.Transaction{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedCatalog {
			return seed.EnsureDefaultCatalog(conn)
		}
		return nil
	}),
)
