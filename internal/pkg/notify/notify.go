package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cake_shop_backend/internal/pkg/push"
	"cake_shop_backend/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Notifier 通知网关
// 投递是尽力而为：失败只记日志，不向调用方传播，业务正确性不依赖通知送达
type Notifier interface {
	// Notify 向指定频道广播事件 (Redis 发布) 并尝试设备推送
	Notify(channel string, event Event)

	// RegisterToken 注册/刷新某个主体的设备推送 token
	RegisterToken(subjectID, token, role string)

	// DeregisterToken 断开连接时移除 token
	DeregisterToken(subjectID string)
}

type tokenEntry struct {
	Token string
	Role  string
}

// Service Notifier 实现：Redis pub/sub 做实时房间广播，阿里云推送做离线提醒
// 连接注册表由本服务独占持有，构造一次后注入各模块，不使用进程级全局变量
type Service struct {
	rdb  *redis.Client
	push push.PushService // 可能为 nil (未配置推送)
	pool *dispatchPool

	mu     sync.RWMutex
	tokens map[string]tokenEntry // subjectID -> token
}

// NewService 创建通知服务，pushSvc 传 nil 时只做 Redis 广播
func NewService(rdb *redis.Client, pushSvc push.PushService) *Service {
	s := &Service{
		rdb:    rdb,
		push:   pushSvc,
		tokens: make(map[string]tokenEntry),
	}
	if pushSvc != nil {
		s.pool = newDispatchPool(pushSvc, 4, 256)
		s.pool.Start()
	}
	return s
}

// Notify 发布事件。异步执行，调用方不等待
func (s *Service) Notify(channel string, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error("notify: marshal event failed", zap.Error(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
			logger.Log.Warn("notify: redis publish failed",
				zap.String("channel", channel),
				zap.String("type", event.Type),
				zap.Error(err))
		}
	}()

	// 设备推送：频道主体注册过 token 才推
	if s.pool == nil {
		return
	}
	if entry, ok := s.lookupToken(subjectOf(channel)); ok {
		data := map[string]string{"type": event.Type}
		if id, ok := event.Data["orderId"].(string); ok {
			data["orderId"] = id
		}
		s.pool.Enqueue(pushTask{
			Token: entry.Token,
			Title: titleFor(event.Type),
			Body:  event.Message,
			Data:  data,
		})
	}
}

// RegisterToken 注册设备推送 token (连接建立或 token 刷新时调用)
func (s *Service) RegisterToken(subjectID, token, role string) {
	if subjectID == "" || token == "" {
		return
	}
	s.mu.Lock()
	s.tokens[subjectID] = tokenEntry{Token: token, Role: role}
	s.mu.Unlock()
}

// DeregisterToken 注销设备推送 token (连接断开时调用)
func (s *Service) DeregisterToken(subjectID string) {
	s.mu.Lock()
	delete(s.tokens, subjectID)
	s.mu.Unlock()
}

// Stop 停止推送分发池
func (s *Service) Stop() {
	if s.pool != nil {
		s.pool.Stop()
	}
}

func (s *Service) lookupToken(subjectID string) (tokenEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.tokens[subjectID]
	return entry, ok
}

// subjectOf 从频道名提取主体 ID ("staff_<id>" / "user_<id>")
func subjectOf(channel string) string {
	for _, prefix := range []string{"staff_", "user_"} {
		if len(channel) > len(prefix) && channel[:len(prefix)] == prefix {
			return channel[len(prefix):]
		}
	}
	return ""
}

var _ Notifier = (*Service)(nil)
