// Package testutil builds in-memory fixtures shared by package tests.
package testutil

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 返回已迁移的内存 SQLite，单连接保证所有查询共享同一个库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,

		// 软删除的行仍引用父表，级联由 repository 在事务内维护
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func SeedBranch(t *testing.T, db *gorm.DB, name string) *model.Branch {
	t.Helper()
	b := &model.Branch{Name: name}
	require.NoError(t, db.Create(b).Error)
	return b
}

// SeedCourse 创建一门带两个视频和一条笔记的课程
func SeedCourse(t *testing.T, db *gorm.DB, branch *model.Branch, title string) *model.Course {
	t.Helper()
	c := &model.Course{
		Title:       title,
		Description: title + " description",
		BranchID:    branch.ID,
		Videos: []model.CourseVideo{
			{Title: "Intro", VideoID: "dQw4w9WgXcQ"},
			{Title: "Deep dive", VideoID: "9bZkp7q19f0"},
		},
		Notes: []model.CourseNote{
			{Title: "Cheat sheet", Content: "..."},
		},
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func SeedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{
		FirstName: "Test",
		LastName:  string(role),
		Email:     email,
		Password:  "x",
		Role:      role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
