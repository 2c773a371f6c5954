package infra

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection pool backed by pgx.
//
// The schema is owned by the SQL files under migrations/ (see Migrate); GORM
// AutoMigrate is not used against postgres. TranslateError makes unique and
// foreign-key violations surface as gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated so services can map them to domain errors.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}
