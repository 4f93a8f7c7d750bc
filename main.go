// @title StudyEasy 后端 API
// @version 1.0
// @description StudyEasy学习助手的后端服务：课程章节的异步处理（转写、课程生成、记忆卡、测验）与课程上下文问答。

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"log"
	"study_easy_backend/internal/app"
	"study_easy_backend/internal/config"
	"study_easy_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
