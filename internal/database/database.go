package database

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"moul.io/zapgorm2"

	"github.com/bigredeye/gradebook/internal/config"
	lf "github.com/bigredeye/gradebook/internal/logfield"
	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/store"
	"github.com/bigredeye/gradebook/internal/validation"
)

type DataBase struct {
	*gorm.DB
}

var _ store.Store = (*DataBase)(nil)

func dialector(conf *config.Config) (gorm.Dialector, error) {
	switch conf.DataBase.Driver {
	case config.DriverPostgres:
		return postgres.Open(conf.PostgresDSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(conf.DataBase.Path), nil
	default:
		return nil, errors.Errorf("Unknown database driver %q", conf.DataBase.Driver)
	}
}

// OpenDataBase connects with exponential backoff, giving up after
// DataBase.ConnectTimeout, and migrates the schema.
func OpenDataBase(logger *zap.Logger, conf *config.Config) (*DataBase, error) {
	dial, err := dialector(conf)
	if err != nil {
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = conf.DataBase.ConnectTimeout

	var db *DataBase
	err = backoff.RetryNotify(func() error {
		db, err = Open(logger, dial)
		return err
	}, policy, func(err error, next time.Duration) {
		logger.Warn("Failed to open database, retrying",
			zap.Error(err),
			zap.Duration("next", next),
			lf.Backend(conf.DataBase.Driver),
		)
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to open database")
	}
	return db, nil
}

func Open(logger *zap.Logger, dial gorm.Dialector) (*DataBase, error) {
	zapLogger := zapgorm2.New(logger.Named("gorm"))
	zapLogger.SetAsDefault()
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: zapLogger,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.Grade{})
	if err != nil {
		return nil, err
	}

	return &DataBase{db}, nil
}

func (db *DataBase) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DataBase) isPostgres() bool {
	return db.Dialector.Name() == "postgres"
}

func (db *DataBase) ListGrades(ctx context.Context) (grades []models.Grade, err error) {
	grades = make([]models.Grade, 0)
	err = db.WithContext(ctx).Order("id").Find(&grades).Error
	if err != nil {
		grades = nil
	}
	return
}

// SearchGrades matches with strpos/instr rather than LIKE so the keyword is
// taken literally and case-sensitively on both drivers.
func (db *DataBase) SearchGrades(ctx context.Context, keyword string) (grades []models.Grade, err error) {
	if keyword == "" {
		return db.ListGrades(ctx)
	}

	cond := "instr(name, ?) > 0"
	if db.isPostgres() {
		cond = "strpos(name, ?) > 0"
	}

	grades = make([]models.Grade, 0)
	err = db.WithContext(ctx).Where(cond, keyword).Order("id").Find(&grades).Error
	if err != nil {
		grades = nil
	}
	return
}

func (db *DataBase) FindGrade(ctx context.Context, id uint) (*models.Grade, error) {
	var grade models.Grade
	err := db.WithContext(ctx).First(&grade, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &grade, nil
}

func (db *DataBase) SaveGrade(ctx context.Context, grade *models.Grade) (*models.Grade, error) {
	if err := validation.Check(grade); err != nil {
		return nil, err
	}

	saved := *grade
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "score"}),
		}).Create(&saved).Error
		if err != nil {
			return err
		}

		if !grade.IsNew() && db.isPostgres() {
			// Explicit ids bypass the serial sequence.
			return tx.Exec(
				"SELECT setval(pg_get_serial_sequence('grades', 'id'), GREATEST((SELECT MAX(id) FROM grades), 1))",
			).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (db *DataBase) DeleteGrade(ctx context.Context, id uint) error {
	return db.WithContext(ctx).Delete(&models.Grade{}, id).Error
}

func (db *DataBase) DeleteGrades(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Delete(&models.Grade{}, ids).Error
}
