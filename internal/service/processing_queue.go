package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"study_easy_backend/internal/config"
	"study_easy_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const queueGroupName = "chapter-processors"

// ProcessingQueue 章节处理任务队列。
// 有 Redis 时使用 Stream 消费组实现持久化异步队列，
// 无 Redis 时降级为进程内 channel 队列。
type ProcessingQueue struct {
	processor  *ProcessorService
	redis      *redis.Client
	streamName string
	workers    int

	localQueue chan string
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewProcessingQueue(cfg *config.Config, processor *ProcessorService, rdb *redis.Client) *ProcessingQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &ProcessingQueue{
		processor:  processor,
		redis:      rdb,
		streamName: cfg.Processing.QueueStream,
		workers:    cfg.Processing.Workers,
		localQueue: make(chan string, 64),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Enqueue 投递章节处理任务。Redis 写入失败时降级为进程内队列，
// 保证任务不会静默丢失
func (q *ProcessingQueue) Enqueue(chapterID string) error {
	if q.redis != nil {
		_, err := q.redis.XAdd(q.ctx, &redis.XAddArgs{
			Stream: q.streamName,
			Values: map[string]interface{}{"chapter_id": chapterID},
		}).Result()
		if err == nil {
			logger.Log.Info("章节任务已入队", zap.String("chapter_id", chapterID))
			return nil
		}
		logger.Log.Warn("Redis 入队失败，降级为进程内队列",
			zap.String("chapter_id", chapterID),
			zap.Error(err))
	}

	select {
	case q.localQueue <- chapterID:
		return nil
	case <-q.ctx.Done():
		return q.ctx.Err()
	}
}

// Run 启动消费者协程，调用方负责在进程退出时调用 Stop
func (q *ProcessingQueue) Run() {
	if q.redis != nil {
		// 消费组已存在时 BUSYGROUP 错误可以忽略
		q.redis.XGroupCreateMkStream(q.ctx, q.streamName, queueGroupName, "0")
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		if q.redis != nil {
			go q.streamConsumer(i)
		} else {
			go q.localConsumer(i)
		}
	}
	logger.Log.Info("章节处理队列已启动",
		zap.Int("workers", q.workers),
		zap.Bool("redis", q.redis != nil))
}

// Stop 停止消费并等待在途任务结束
func (q *ProcessingQueue) Stop() {
	q.cancel()
	q.wg.Wait()
}

func (q *ProcessingQueue) streamConsumer(index int) {
	defer q.wg.Done()
	consumerName := fmt.Sprintf("consumer-%d-%d", index, time.Now().UnixNano())

	for {
		select {
		case <-q.ctx.Done():
			return
		default:
		}

		streams, err := q.redis.XReadGroup(q.ctx, &redis.XReadGroupArgs{
			Group:    queueGroupName,
			Consumer: consumerName,
			Streams:  []string{q.streamName, ">"},
			Count:    1,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if q.ctx.Err() != nil {
				return
			}
			if err != redis.Nil {
				logger.Log.Warn("读取任务流失败", zap.Error(err))
				time.Sleep(time.Second)
			}
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				if chapterID, ok := msg.Values["chapter_id"].(string); ok {
					q.handle(chapterID)
				}
				// 处理失败的章节已落盘 failed 状态，不再重投
				q.redis.XAck(q.ctx, q.streamName, queueGroupName, msg.ID)
			}
		}
	}
}

func (q *ProcessingQueue) localConsumer(index int) {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case chapterID := <-q.localQueue:
			q.handle(chapterID)
		}
	}
}

func (q *ProcessingQueue) handle(chapterID string) {
	if err := q.processor.ProcessChapter(q.ctx, chapterID); err != nil {
		logger.Log.Warn("章节任务执行失败",
			zap.String("chapter_id", chapterID),
			zap.Error(err))
	}
}
