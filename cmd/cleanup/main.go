package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/qs3c/sumr_go_server/config"
	"github.com/qs3c/sumr_go_server/internal/model"
)

var (
	dryRun        = flag.Bool("dry-run", true, "Dry run mode, don't actually delete anything")
	uploadExpire  = flag.Int("upload-expire", 24, "Hours to keep uploaded temp files")
	retentionDays = flag.Int("retention-days", 365, "Days to keep summary records")
	cleanUploads  = flag.Bool("clean-uploads", true, "Clean expired upload temp dirs")
	pruneRecords  = flag.Bool("prune-records", false, "Prune summary records past retention")
)

func main() {
	flag.Parse()

	log.Println("🧹 Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	uploadDir := cfg.Upload.TempDir
	deletedSize := int64(0)
	deletedFiles := 0
	prunedRecords := int64(0)

	// 1. 清理过期的上传临时目录
	if *cleanUploads {
		log.Printf("\n📦 Cleaning expired upload dirs (older than %d hours)...", *uploadExpire)
		size, count := cleanExpiredUploads(uploadDir, *uploadExpire, *dryRun)
		deletedSize += size
		deletedFiles += count
	}

	// 2. 清理超过保留期的摘要记录。保留期远大于配额窗口，
	// 不会影响配额统计。
	if *pruneRecords {
		log.Printf("\n🗃  Pruning summary records (older than %d days)...", *retentionDays)
		db, err := connectDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		prunedRecords = pruneOldSummaries(db, *retentionDays, *dryRun)
	}

	// 输出统计
	log.Println("\n" + strings.Repeat("=", 60))
	log.Println("📊 Cleanup Summary")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Deleted upload dirs: %d", deletedFiles)
	log.Printf("Freed space: %s", formatSize(deletedSize))
	log.Printf("Pruned summary records: %d", prunedRecords)
	if *dryRun {
		log.Println("\n⚠️  DRY RUN MODE - Nothing was actually deleted")
		log.Println("   Run with -dry-run=false to actually delete")
	} else {
		log.Println("\n✅ Cleanup completed!")
	}
	log.Println(strings.Repeat("=", 60))
}

// cleanExpiredUploads 清理过期的上传临时目录
func cleanExpiredUploads(uploadDir string, expireHours int, dryRun bool) (int64, int) {
	expireTime := time.Now().Add(-time.Duration(expireHours) * time.Hour)
	var totalSize int64
	var count int

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		log.Printf("Failed to read upload dir: %v", err)
		return 0, 0
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dirPath := filepath.Join(uploadDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(expireTime) {
			size := getDirSize(dirPath)
			totalSize += size

			log.Printf("  - %s (%.2f MB, %s old)",
				entry.Name(),
				float64(size)/1024/1024,
				time.Since(info.ModTime()).Round(time.Hour))

			if !dryRun {
				if err := os.RemoveAll(dirPath); err != nil {
					log.Printf("    ❌ Failed to delete: %v", err)
				} else {
					count++
				}
			} else {
				count++
			}
		}
	}

	log.Printf("Found %d expired upload directories (total: %s)",
		count, formatSize(totalSize))

	return totalSize, count
}

// pruneOldSummaries 删除超过保留期的摘要记录
func pruneOldSummaries(db *gorm.DB, keepDays int, dryRun bool) int64 {
	cutoff := time.Now().AddDate(0, 0, -keepDays)

	var total int64
	if err := db.Model(&model.Summary{}).
		Where("created_at < ?", cutoff).
		Count(&total).Error; err != nil {
		log.Printf("Failed to count old summaries: %v", err)
		return 0
	}

	log.Printf("Found %d summary records older than %s", total, cutoff.Format("2006-01-02"))

	if dryRun || total == 0 {
		return total
	}

	result := db.Where("created_at < ?", cutoff).Delete(&model.Summary{})
	if result.Error != nil {
		log.Printf("Failed to prune summaries: %v", result.Error)
		return 0
	}
	return result.RowsAffected
}

// getDirSize 计算目录大小
func getDirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

// formatSize 格式化文件大小
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// connectDB 连接数据库
func connectDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
