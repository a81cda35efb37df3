package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"examprep-backend/internal/config"
	"examprep-backend/internal/diagram"
	"examprep-backend/internal/export"
	"examprep-backend/internal/gateway"
	"examprep-backend/internal/handler"
	"examprep-backend/internal/service"
	"examprep-backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// .env 可选，存在时加载 API Key 等环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	renderer, err := diagram.NewRenderer(diagram.Options{
		Width:    cfg.Diagram.Width,
		Height:   cfg.Diagram.Height,
		MaxSide:  cfg.Diagram.MaxSide,
		FontPath: cfg.Diagram.FontPath,
	})
	if err != nil {
		logger.Fatalf("Failed to init diagram renderer: %v", err)
	}

	ctx := context.Background()
	llm, err := gateway.New(ctx, cfg.LLM)
	if err != nil {
		logger.Fatalf("Failed to init LLM gateway: %v", err)
	}
	if cfg.LLM.APIKey == "" {
		logger.Warnf("No API key configured for provider %s; requests must supply one", cfg.LLM.Provider)
	}

	// 初始化服务
	sessionService := service.NewSessionService(cfg)
	questionService := service.NewQuestionService(cfg, sessionService, llm, renderer)
	examHandler := handler.NewExamHandler(sessionService, questionService, export.NewExporter(cfg.Export))

	router := handler.NewRouter(cfg, examHandler)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Infof("服务器启动在端口 %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待信号优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务器正在关闭...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
}
