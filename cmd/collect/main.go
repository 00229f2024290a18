package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Chandan72/ai-news-agent/internal/classifier"
	"github.com/Chandan72/ai-news-agent/internal/collector"
	"github.com/Chandan72/ai-news-agent/internal/config"
	"github.com/Chandan72/ai-news-agent/internal/curator"
	"github.com/Chandan72/ai-news-agent/internal/storage"
)

// 一次性跑一轮策展后退出，方便本地验证与容器定时任务
func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	var provider classifier.Provider
	if cfg.LLMProvider == "openai" {
		if p, err := classifier.NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL); err == nil {
			provider = p
		} else {
			log.Printf("warn: openai provider unavailable (%v), using keyword fallback", err)
		}
	}

	cls := classifier.NewAdapter(provider)
	cur := curator.New(store, cls, collector.DefaultSources(), cfg.WindowHours, cfg.FetchContent)

	res := cur.Run(context.Background())
	fmt.Printf("fetched=%d inserted=%d\n", res.Fetched, res.Inserted)
}
