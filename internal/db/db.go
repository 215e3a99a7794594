package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/config"
	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Resource{},
		&models.Customer{},
		&models.Service{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE tenants
        SET timezone = 'UTC'
        WHERE timezone IS NULL OR timezone = ''
    `)

	// Optional hard double-booking guard. Deployments that cannot
	// tolerate the check-then-act window enable btree_gist and get an
	// exclusion constraint over (resource_id, time range); everywhere
	// else the locked transactional re-check in the repository applies.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err == nil {
		db.Exec(`
            ALTER TABLE appointments
            ADD CONSTRAINT appointments_no_overlap
            EXCLUDE USING gist (
                resource_id WITH =,
                tstzrange(start_time, end_time) WITH &&
            )
            WHERE (resource_id IS NOT NULL AND status NOT IN ('cancelled'))
        `)
	}

	return db
}
