package database

import (
	"coachhub/config"
	"coachhub/models"
	"coachhub/models/game"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db     *gorm.DB
	Sqlx   *sqlx.DB
	Driver string
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, tunes the pool and runs migrations.
func ConnectDb() {
	cfg := config.AppConfig

	driver, dialector := dialectorFor(cfg)
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", driver, err)
	}

	if err := Use(db, driver); err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB, _ := db.DB()
	if driver == "sqlite" {
		// sqlite serialises writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(0)
	}

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Connected to %s database", driver)
}

// Use installs db as the global instance and builds the sqlx handle over the same pool.
func Use(db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	Database = DbInstance{
		Db:     db,
		Sqlx:   sqlx.NewDb(sqlDB, sqlxDriverName(driver)),
		Driver: driver,
	}
	return nil
}

// dialectorFor picks the gorm dialector. A postgres config without a host falls
// back to the local sqlite file.
func dialectorFor(cfg *config.Config) (string, gorm.Dialector) {
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		return "mysql", mysql.Open(dsn)
	case "sqlite":
		return "sqlite", sqlite.Open(cfg.SQLitePath)
	default:
		if cfg.DBHost == "" {
			return "sqlite", sqlite.Open(cfg.SQLitePath)
		}
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, cfg.Timezone,
		)
		return "postgres", postgres.Open(dsn)
	}
}

func sqlxDriverName(driver string) string {
	switch driver {
	case "sqlite":
		return "sqlite3"
	case "mysql":
		return "mysql"
	default:
		return "pgx"
	}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.Coach{},
		&models.Certification{},
		&models.Sport{},
		&models.SkillItem{},
		&models.Student{},
		&models.Evaluation{},
		&models.Attendance{},
		&models.Badge{},
		&models.MissionSheet{},
		&models.MissionItem{},
		&models.CoachShift{},
		&models.LessonSchedule{},
		&models.LessonCoach{},
		&models.Video{},
		&models.VideoStats{},
		&models.PDFMaterial{},
		&models.PDFStats{},
		&models.Notification{},
		&models.NotificationSetting{},
		&models.DeliveryLog{},
		&models.LineFriend{},
		&models.MonthlyReport{},
		&game.GamePurchase{},
	)
	if err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// Close releases the connection pool.
func Close() {
	if Database.Db == nil {
		return
	}
	if sqlDB, err := Database.Db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
