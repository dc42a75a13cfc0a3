package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lamngoc/ascent/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a named in-memory sqlite database so each test gets an
// isolated schema even when gorm pools connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Assessment{},
		&model.Response{},
		&model.Vertical{},
		&model.AdaptationRecord{},
		&model.RateCounter{},
	))
	return db
}
