package db

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

// Tables lists every model migrated at startup.
var Tables = []any{
	&models.IntakeEvent{},
	&models.Heartbeat{},
	&models.HardwareError{},
	&models.CommandRecord{},
}

func GetInstance(dialector gorm.Dialector) *DB {
	var logger = common.GetLogger()
	once.Do(func() {
		conn, err := gorm.Open(dialector, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

		instance = &DB{Conn: conn}

		if err := instance.Conn.AutoMigrate(Tables...); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		logger.Info("Database migration completed", zap.Int("tables", len(Tables)))

		if err := instance.Conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			log.Fatal("Failed to set sqlite journal mode", err)
		}
	})
	return instance
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(common.EnvKeySMDDbPath); !found || dbPath == "" {
		dbPath = "smd.db"
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UseConfiguredDialector maps the configured db type to a dialector.
func UseConfiguredDialector(cfg *common.Config) gorm.Dialector {
	if cfg.DBType == "file" {
		return sqlite.Open(cfg.DBPath)
	}
	return UseMemorySqliteDialector()
}
