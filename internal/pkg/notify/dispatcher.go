package notify

import (
	"log"
	"time"

	"cake_shop_backend/internal/pkg/push"
)

type pushTask struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
	Retry int // 重试次数
}

// dispatchPool 设备推送分发池
// 推送是旁路操作，队列满时直接丢弃并记日志，绝不反压业务请求
type dispatchPool struct {
	TaskQueue  chan pushTask
	RetryQueue chan pushTask // 重试队列
	Push       push.PushService
	WorkerNum  int
	MaxRetry   int // 最大重试次数
}

func newDispatchPool(pushSvc push.PushService, workerNum int, bufferSize int) *dispatchPool {
	return &dispatchPool{
		TaskQueue:  make(chan pushTask, bufferSize),
		RetryQueue: make(chan pushTask, bufferSize/2),
		Push:       pushSvc,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
	}
}

func (p *dispatchPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	log.Printf("Push dispatch pool started with %d workers", p.WorkerNum)
}

func (p *dispatchPool) Stop() {
	close(p.TaskQueue)
	close(p.RetryQueue)
}

// Enqueue 入队，队列满时丢弃
func (p *dispatchPool) Enqueue(task pushTask) {
	select {
	case p.TaskQueue <- task:
	default:
		log.Printf("Push queue full, notification dropped (token: %s)", task.Token)
	}
}

func (p *dispatchPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.Push.PushToDevice(task.Token, task.Title, task.Body, task.Data); err != nil {
			log.Printf("[PushWorker %d] Failed to push (token: %s): %v", id, task.Token, err)

			// 如果未达到最大重试次数，加入重试队列
			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
				default:
					log.Printf("[PushWorker %d] Retry queue full, task dropped", id)
				}
			} else {
				log.Printf("[PushWorker %d] Task exceeded max retries, dropped", id)
			}
		}
	}
}

func (p *dispatchPool) retryWorker() {
	for task := range p.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * time.Second)

		// 重新加入主队列
		select {
		case p.TaskQueue <- task:
		default:
			log.Printf("[PushRetry] Main queue full, task dropped")
		}
	}
}
