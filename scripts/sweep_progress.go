// 手动清理失效的学习进度记录
//
// 主应用按 jobs.progress_sweep_cron 定时执行同样的任务。
// 此脚本用于批量删除课程内容后立即清理。
//
// 用法: go run scripts/sweep_progress.go [-config configs/config.yaml]

package main

import (
	"context"
	"flag"
	"lms_backend/internal/config"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/database"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		Charset  string `yaml:"charset"`
		SSLMode  string `yaml:"sslmode"`
		Path     string `yaml:"path"`
	} `yaml:"database"`
}

func main() {
	path := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	db, err := database.InitDB(&config.DatabaseConfig{
		Driver:    fc.Database.Driver,
		Host:      fc.Database.Host,
		Port:      fc.Database.Port,
		User:      fc.Database.User,
		Password:  fc.Database.Password,
		DBName:    fc.Database.DBName,
		Charset:   fc.Database.Charset,
		ParseTime: true,
		SSLMode:   fc.Database.SSLMode,
		Path:      fc.Database.Path,
	}, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sweeper := service.NewProgressSweeper(repository.NewEnrollmentRepository(db))
	removed, err := sweeper.Sweep(context.Background())
	if err != nil {
		log.Fatalf("清理失败: %v", err)
	}
	log.Printf("完成，删除 %d 条失效进度记录", removed)
}
