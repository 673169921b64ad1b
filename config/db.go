package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"visitor-backend/models"
	"visitor-backend/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "visitor_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	)
	return dsn, nil
}

// ConnectDatabase opens the MySQL pool, runs migrations and seeds reference
// data. The handle is returned (not kept as a package global) so main can
// inject it into each service and tear it down on shutdown.
func ConnectDatabase() (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	// Every GORM-managed timestamp is written in facility time so created_at
	// stays comparable with the lifecycle columns and with legacy rows.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:  newLogger,
		NowFunc: utils.FacilityNow,
	})
	if err != nil {
		return nil, err
	}

	// AutoMigrate in parent->child order
	if err := db.AutoMigrate(
		&models.Department{},
		&models.Employee{},
		&models.Visitor{},
		&models.VisitorPass{},
		&models.VisitLog{},
		&models.NotificationOutbox{},
	); err != nil {
		return nil, err
	}

	SeedDatabase(db)
	return db, nil
}

// SeedDatabase ensures a minimal department/employee directory so a fresh
// install can issue passes immediately. It never overwrites existing rows.
func SeedDatabase(db *gorm.DB) {
	var deptCount int64
	db.Model(&models.Department{}).Count(&deptCount)
	if deptCount == 0 {
		departments := []models.Department{
			{DeptCode: "ADM", DepartmentName: "Administration"},
			{DeptCode: "HR", DepartmentName: "Human Resources"},
			{DeptCode: "PRD", DepartmentName: "Production"},
			{DeptCode: "SEC", DepartmentName: "Security"},
		}
		if err := db.Create(&departments).Error; err != nil {
			log.Printf("warning: failed to seed departments: %v", err)
		} else {
			log.Println("Departments seeded")
		}
	}

	var empCount int64
	db.Model(&models.Employee{}).Count(&empCount)
	if empCount == 0 {
		employees := []models.Employee{
			{EmployeeID: "EMP001", Name: "Front Desk", Email: "frontdesk@example.com", DepartmentCode: "ADM"},
			{EmployeeID: "EMP002", Name: "Security Desk", Email: "security@example.com", DepartmentCode: "SEC"},
		}
		if err := db.Create(&employees).Error; err != nil {
			log.Printf("warning: failed to seed employees: %v", err)
		} else {
			log.Println("Employees seeded")
		}
	}
}
