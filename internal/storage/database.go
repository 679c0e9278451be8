package storage

import (
	"fmt"
	"time"

	"solarwatch/internal/telemetry"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is the sqlite-backed reading store.
type Database struct {
	db *gorm.DB
}

func NewDatabase(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&StoredReading{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) Save(reading telemetry.Reading) error {
	row := &StoredReading{
		Timestamp:     reading.Timestamp,
		PowerProduced: reading.PowerProduced,
		PowerConsumed: reading.PowerConsumed,
		BatterySOC:    reading.BatterySOC,
		Irradiance:    reading.Irradiance,
		Temperature:   reading.Temperature,
		PanelVoltage:  reading.PanelVoltage,
		PanelCurrent:  reading.PanelCurrent,
	}
	return d.db.Create(row).Error
}

// Range returns readings with from <= timestamp <= to, ordered by
// insertion (the autoincrement id, not the timestamp column).
func (d *Database) Range(from, to time.Time) ([]telemetry.Reading, error) {
	var rows []StoredReading
	result := d.db.Where("timestamp BETWEEN ? AND ?", from, to).
		Order("id asc").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	readings := make([]telemetry.Reading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, telemetry.Reading{
			Timestamp:     row.Timestamp,
			PowerProduced: row.PowerProduced,
			PowerConsumed: row.PowerConsumed,
			BatterySOC:    row.BatterySOC,
			Irradiance:    row.Irradiance,
			Temperature:   row.Temperature,
			PanelVoltage:  row.PanelVoltage,
			PanelCurrent:  row.PanelCurrent,
		})
	}
	return readings, nil
}

func (d *Database) CleanOldReadings(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	return d.db.Where("timestamp < ?", cutoff).Delete(&StoredReading{}).Error
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
