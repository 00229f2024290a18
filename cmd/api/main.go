package main

import (
	"log"

	"github.com/Chandan72/ai-news-agent/internal/api"
	"github.com/Chandan72/ai-news-agent/internal/classifier"
	"github.com/Chandan72/ai-news-agent/internal/collector"
	"github.com/Chandan72/ai-news-agent/internal/config"
	"github.com/Chandan72/ai-news-agent/internal/curator"
	"github.com/Chandan72/ai-news-agent/internal/scheduler"
	"github.com/Chandan72/ai-news-agent/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	cls := classifier.NewAdapter(newProvider(cfg))
	cur := curator.New(store, cls, collector.DefaultSources(), cfg.WindowHours, cfg.FetchContent)

	s, err := scheduler.New(cur, store, cfg.ScheduleHour, cfg.ScheduleMinute, cfg.Location(), cfg.RetentionDays)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start(cfg.RunOnStart)

	r := gin.Default()
	r.Use(api.CORSMiddleware(cfg.FrontendOrigin))

	apiServer := api.NewServer(store, cur)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// newProvider 按配置选择分类服务实现。
// 凭据缺失或配置不完整时返回 nil，适配器会退化到本地关键词兜底，进程照常启动
func newProvider(cfg *config.Config) classifier.Provider {
	switch cfg.LLMProvider {
	case "openai":
		p, err := classifier.NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
		if err != nil {
			log.Printf("warn: openai provider unavailable (%v), classification falls back to keywords", err)
			return nil
		}
		return p
	case "compat":
		p, err := classifier.NewCompatProvider(cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMAPIKey)
		if err != nil {
			log.Printf("warn: compat provider unavailable (%v), classification falls back to keywords", err)
			return nil
		}
		return p
	case "":
		return nil
	default:
		log.Printf("warn: unknown LLM_PROVIDER %q, classification falls back to keywords", cfg.LLMProvider)
		return nil
	}
}
