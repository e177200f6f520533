package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Sindhurirompikuntla/Capstone/internal/models"
)

var PostgresDB *gorm.DB

// metric name -> pgvector operator class for the ivfflat index.
var opsClasses = map[string]string{
	"l2":     "vector_l2_ops",
	"cosine": "vector_cosine_ops",
	"ip":     "vector_ip_ops",
}

// InitPostgres opens the vector database, ensures the pgvector extension,
// migrates the transcripts table and builds the ANN index.
func InitPostgres(cfg *AppConfig) error {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Connection pooling settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.TranscriptEntry{}); err != nil {
		return err
	}

	ops, ok := opsClasses[cfg.VectorDB.MetricType]
	if !ok {
		return fmt.Errorf("config: unknown metric type %q", cfg.VectorDB.MetricType)
	}
	idx := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_sales_transcripts_embedding ON sales_transcripts USING ivfflat (embedding %s) WITH (lists = %d)",
		ops, cfg.VectorDB.IndexLists,
	)
	if err := db.Exec(idx).Error; err != nil {
		return err
	}

	PostgresDB = db
	return nil
}
