package orm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 1. 按database.driver选择方言(mysql/postgres/sqlite)
// 2. debug模式打印SQL，其余模式只打印慢查询和错误
// 3. 配置连接池并Ping
// 4. AutoMigrate books表
// 返回的cleanup关闭底层连接池
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	// 1. 方言
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	// 2. GORM日志输出到zap
	logLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}
	gl := gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
	})

	// 3. 连接
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gl,
		TranslateError: true, // 唯一索引冲突统一翻译成gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// sqlite同一时刻只允许一个写者，单连接避免 database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("关闭数据库连接失败", zap.Error(err))
		}
	}

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	// 6. 建表
	if err := AutoMigrate(db); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	logger.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))
	return db, cleanup, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", cfg.Driver)
	}
}

// AutoMigrate 创建books表
// 只建表和补字段，不做版本化迁移
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&BookModel{})
}

// Pinger 数据库存活检查，供就绪探针和gRPC健康检查使用
type Pinger struct {
	db *gorm.DB
}

// NewPinger 创建存活检查
func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

// Ping 检查数据库连接
func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
