package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Article 已入库的分类文章；URL 全表唯一，重复插入静默跳过
type Article struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:1024" json:"title"`
	URL     string `gorm:"size:2048;uniqueIndex" json:"url"`
	Summary string `gorm:"size:8192" json:"summary"`

	PublishedAt *time.Time `gorm:"index" json:"publishedAt"`
	Source      string     `gorm:"size:128;index" json:"source"`

	Industry   *string  `gorm:"size:256;index" json:"industry"`
	Confidence *float64 `json:"confidence"`

	// 原始 feed 字段与可选的正文快照（guid / categories / content 等）
	Extra datatypes.JSONMap `gorm:"type:jsonb" json:"extra,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// Meta 单键值表，目前只存 last_updated 水位
type Meta struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	K         string    `gorm:"size:255;uniqueIndex" json:"k"`
	V         string    `gorm:"size:4096" json:"v"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MetaLastUpdated 上次成功跑完一轮采集的水位键
const MetaLastUpdated = "last_updated"

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Article{}, &Meta{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// toValidUTF8 把字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncateRunesDB 按 rune 数截断，保证不超过数据库字段长度
func truncateRunesDB(s string, limit int) string {
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// InsertArticles 逐行插入一批文章，URL 冲突时静默跳过且不计入返回值；
// 单行出错只跳过该行，不中断整批。返回实际新插入的条数。
func (s *Store) InsertArticles(items []Article) int {
	inserted := 0
	for i := range items {
		a := items[i]
		a.ID = 0
		a.Title = truncateRunesDB(toValidUTF8(a.Title), 1024)
		a.URL = truncateRunesDB(strings.TrimSpace(a.URL), 2048)
		a.Summary = truncateRunesDB(toValidUTF8(a.Summary), 8192)
		if a.URL == "" {
			continue
		}

		// URL 作为幂等键：已存在时 DoNothing，RowsAffected 为 0
		tx := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Create(&a)
		if tx.Error != nil {
			log.Printf("insert article %s error: %v", a.URL, tx.Error)
			continue
		}
		inserted += int(tx.RowsAffected)
	}
	return inserted
}

// SetMeta 写入（或覆盖）一个元数据键值
func (s *Store) SetMeta(key, value string) error {
	m := Meta{K: key, V: value, UpdatedAt: time.Now().UTC()}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v", "updated_at"}),
	}).Create(&m).Error
}

// GetMeta 读取元数据键值，不存在时返回空串且无错误
func (s *Store) GetMeta(key string) (string, error) {
	var m Meta
	err := s.DB.Where("k = ?", key).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.V, nil
}

// ListArticles 按可选行业过滤返回分页文章列表，
// 排序：发布时间倒序（空值最后），同发布时间按入库时间倒序；短 TTL 的 Redis 缓存
func (s *Store) ListArticles(industryName string, limit, offset int) ([]Article, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("articles:list:%s:%d:%d", industryName, limit, offset)
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Article
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var list []Article
	db := s.DB.Model(&Article{})
	if industryName != "" {
		db = db.Where("industry = ?", industryName)
	}
	err := db.Order("published_at DESC NULLS LAST").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	const listCacheTTL = time.Minute
	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}
	return list, nil
}

// RecentByIndustry 某个行业最近的若干篇文章；industryName 为空表示不过滤。
// Uncategorized 桶同时覆盖 industry 为 NULL 的历史行
func (s *Store) RecentByIndustry(industryName string, limit int) ([]Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 5
	}

	var list []Article
	db := s.DB.Model(&Article{})
	switch industryName {
	case "":
	case "Uncategorized":
		db = db.Where("industry IS NULL OR industry = ?", industryName)
	default:
		db = db.Where("industry = ?", industryName)
	}
	err := db.Order("published_at DESC NULLS LAST").
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CountsByIndustry 各行业的文章数；industry 为 NULL 的行计入 Uncategorized
func (s *Store) CountsByIndustry() (map[string]int64, error) {
	ctx := context.Background()
	const cacheKey = "articles:counts"
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached map[string]int64
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var rows []struct {
		Industry string
		Cnt      int64
	}
	err := s.DB.Raw(
		`SELECT COALESCE(industry, 'Uncategorized') AS industry, COUNT(1) AS cnt
		 FROM articles
		 GROUP BY COALESCE(industry, 'Uncategorized')`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Industry] = r.Cnt
	}

	if s.Redis != nil && len(counts) > 0 {
		if bs, err := json.Marshal(counts); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, time.Minute).Err()
		}
	}
	return counts, nil
}

// DeleteOlderThan 删除入库时间早于 N 天前的文章，返回删除行数；清理属于后台维护动作
func (s *Store) DeleteOlderThan(days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	tx := s.DB.Where("created_at < ?", cutoff).Delete(&Article{})
	return tx.RowsAffected, tx.Error
}
