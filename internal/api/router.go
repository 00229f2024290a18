package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Chandan72/ai-news-agent/internal/curator"
	"github.com/Chandan72/ai-news-agent/internal/industry"
	"github.com/Chandan72/ai-news-agent/internal/storage"
	"github.com/gin-gonic/gin"
)

// Store 读 API 对存储层的最小依赖
type Store interface {
	ListArticles(industryName string, limit, offset int) ([]storage.Article, error)
	RecentByIndustry(industryName string, limit int) ([]storage.Article, error)
	CountsByIndustry() (map[string]int64, error)
	GetMeta(key string) (string, error)
}

// Trigger 手动触发一轮策展的入口
type Trigger interface {
	Run(ctx context.Context) curator.Result
}

type Server struct {
	store   Store
	trigger Trigger
}

func NewServer(store Store, trigger Trigger) *Server {
	return &Server{store: store, trigger: trigger}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/industries", s.listIndustries)
	r.GET("/articles", s.listArticles)
	r.GET("/last_updated", s.lastUpdated)
	r.POST("/trigger", s.triggerRun)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listIndustries 返回闭集内每个行业（含 Uncategorized）的文章数与最近 5 篇
func (s *Server) listIndustries(c *gin.Context) {
	counts, err := s.store.CountsByIndustry()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	labels := append(industry.All(), industry.Uncategorized)
	data := make([]gin.H, 0, len(labels))
	for _, label := range labels {
		recent, err := s.store.RecentByIndustry(label, 5)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "internal_error",
				"message": "internal server error",
			})
			return
		}
		if recent == nil {
			recent = []storage.Article{}
		}
		data = append(data, gin.H{
			"industry": label,
			"count":    counts[label],
			"articles": recent,
		})
	}

	c.JSON(http.StatusOK, gin.H{"industries": data})
}

func (s *Server) listArticles(c *gin.Context) {
	industryName := c.Query("industry")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	items, err := s.store.ListArticles(industryName, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}
	if items == nil {
		items = []storage.Article{}
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (s *Server) lastUpdated(c *gin.Context) {
	v, err := s.store.GetMeta(storage.MetaLastUpdated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	// 还没跑过任何一轮时返回 null 而不是空串
	if v == "" {
		c.JSON(http.StatusOK, gin.H{"last_updated": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_updated": v})
}

// triggerRun 同步跑一轮策展。部分失败也返回 200 与已得到的计数；
// 已有一轮在跑时返回 skipped，不视为错误
func (s *Server) triggerRun(c *gin.Context) {
	res := s.trigger.Run(c.Request.Context())
	if res.Skipped {
		c.JSON(http.StatusOK, gin.H{"status": "skipped"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"fetched":  res.Fetched,
		"inserted": res.Inserted,
	})
}
