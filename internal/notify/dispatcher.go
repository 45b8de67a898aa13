package notify

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/qa-forum/pkg/logger"
)

type event struct {
	channel string
	payload map[string]any
	enqAt   time.Time
}

// Dispatcher 本地异步推送执行器：入队不阻塞，队列满即丢弃，失败只记日志
type Dispatcher struct {
	publisher Publisher
	ch        chan event
	limiter   *rate.Limiter
	timeout   time.Duration

	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
	latencyNs atomic.Int64
}

// DispatcherStats 自启动以来的推送统计
type DispatcherStats struct {
	Delivered  int64
	Failed     int64
	Dropped    int64
	Queued     int
	AvgLatency time.Duration
}

// NewDispatcher wraps publisher with a bounded queue. rps <= 0 disables throttling.
func NewDispatcher(publisher Publisher, queueSize int, rps float64, timeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 10000
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limit := rate.Inf
	burst := 0
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = int(rps) + 1
	}
	return &Dispatcher{
		publisher: publisher,
		ch:        make(chan event, queueSize),
		limiter:   rate.NewLimiter(limit, burst),
		timeout:   timeout,
	}
}

// Start 启动若干 worker 消费队列；返回停止函数，停止时等待队列排空一小段时间。
func (d *Dispatcher) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case ev := <-d.ch:
					d.deliver(ev)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		deadline := time.After(2 * time.Second)
		for len(d.ch) > 0 {
			select {
			case <-ctx.Done():
				close(stopCh)
				return ctx.Err()
			case <-deadline:
				close(stopCh)
				return nil
			case <-time.After(50 * time.Millisecond):
			}
		}
		close(stopCh)
		return nil
	}
}

func (d *Dispatcher) deliver(ev event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.limiter.Wait(ctx); err != nil {
		d.dropped.Add(1)
		logger.Warn("notify throttled, drop", zap.String("channel", ev.channel), zap.Error(err))
		return
	}
	if err := d.publisher.Publish(ctx, ev.channel, ev.payload); err != nil {
		d.failed.Add(1)
		logger.Warn("notify publish failed", zap.String("channel", ev.channel), zap.Error(err))
		return
	}
	d.latencyNs.Add(int64(time.Since(ev.enqAt)))
	d.delivered.Add(1)
}

// Notify enqueues the event without blocking; a full queue drops it.
func (d *Dispatcher) Notify(_ context.Context, channel string, payload map[string]any) {
	select {
	case d.ch <- event{channel: channel, payload: payload, enqAt: time.Now()}:
	default:
		d.dropped.Add(1)
		logger.Warn("notify queue full, drop event", zap.String("channel", channel))
	}
}

// Stats 返回推送计数与平均落地耗时（入队到发布成功）
func (d *Dispatcher) Stats() DispatcherStats {
	st := DispatcherStats{
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
		Queued:    len(d.ch),
	}
	if st.Delivered > 0 {
		st.AvgLatency = time.Duration(d.latencyNs.Load() / st.Delivered)
	}
	return st
}
