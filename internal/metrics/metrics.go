// Package metrics exposes Prometheus counters and gauges for the task list,
// its store and the HTTP API.
package metrics

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"todo/internal/kv"
	"todo/internal/task"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_http_requests_total",
			Help: "HTTP requests served, by route and status",
		},
		[]string{"method", "route", "status"},
	)
	StoreOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_store_operations_total",
			Help: "Key-value store calls, by operation and result",
		},
		[]string{"op", "result"},
	)
	Tasks = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "todo_tasks",
		Help: "Tasks in the list",
	})
	OpenTasks = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "todo_tasks_open",
		Help: "Tasks not yet completed",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(StoreOps)
	prometheus.MustRegister(Tasks)
	prometheus.MustRegister(OpenTasks)
}

// Middleware counts every request by its route pattern.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// View keeps the task gauges in step with the manager.
type View struct{}

var _ task.View = View{}

func (View) Render(tasks []task.Task) {
	Tasks.Set(float64(len(tasks)))
	OpenTasks.Set(float64(task.OpenCount(tasks)))
}

func (View) RenderItem(task.Task) {}

func (View) RenderCount(open int) {
	OpenTasks.Set(float64(open))
}

// InstrumentStore wraps s so every call is counted in StoreOps.
func InstrumentStore(s kv.Store) kv.Store {
	return &store{next: s}
}

type store struct {
	next kv.Store
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.next.Get(ctx, key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		StoreOps.WithLabelValues("get", "not_found").Inc()
	case err != nil:
		StoreOps.WithLabelValues("get", "error").Inc()
	default:
		StoreOps.WithLabelValues("get", "ok").Inc()
	}
	return v, err
}

func (s *store) Set(ctx context.Context, key string, value []byte) error {
	err := s.next.Set(ctx, key, value)
	StoreOps.WithLabelValues("set", result(err)).Inc()
	return err
}

func (s *store) Close() error {
	return s.next.Close()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
