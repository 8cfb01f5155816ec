package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status — итоговое состояние компонента или сервиса в целом.
type Status string

const (
	StatusOK   Status = "ok"
	StatusFail Status = "fail"
)

// CheckFunc проверяет один компонент (пинг базы, доступность брокера).
// Возврат nil означает, что компонент здоров.
type CheckFunc func() error

// CheckResult — результат одной проверки в ответе /healthz.
type CheckResult struct {
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// Report — тело ответа /healthz.
type Report struct {
	Status        Status                 `json:"status"`
	Service       string                 `json:"service"`
	Version       string                 `json:"version,omitempty"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	Checks        map[string]CheckResult `json:"checks,omitempty"`
}

// Handler отдаёт health-пробы сервиса. Проверки регистрируются по имени;
// сервис нездоров, если нездорова хотя бы одна.
type Handler struct {
	mu        sync.RWMutex
	checks    map[string]CheckFunc
	service   string
	version   string
	startedAt time.Time
}

// NewHandler создаёт Handler без единой проверки: пустой набор считается
// здоровым, поэтому сервис без внешних зависимостей готов сразу.
func NewHandler(service, version string) *Handler {
	return &Handler{
		checks:    make(map[string]CheckFunc),
		service:   service,
		version:   version,
		startedAt: time.Now(),
	}
}

// RegisterCheck добавляет или заменяет проверку компонента.
func (h *Handler) RegisterCheck(name string, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = fn
}

func (h *Handler) snapshot() map[string]CheckFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()

	checks := make(map[string]CheckFunc, len(h.checks))
	for name, fn := range h.checks {
		checks[name] = fn
	}
	return checks
}

func (h *Handler) run() (Status, map[string]CheckResult) {
	overall := StatusOK
	results := make(map[string]CheckResult)

	for name, fn := range h.snapshot() {
		started := time.Now()
		err := fn()
		result := CheckResult{
			Status:    StatusOK,
			LatencyMs: time.Since(started).Milliseconds(),
		}
		if err != nil {
			result.Status = StatusFail
			result.Error = err.Error()
			overall = StatusFail
		}
		results[name] = result
	}

	return overall, results
}

// ServeHTTP — подробный /healthz: JSON-отчёт по каждой проверке.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	overall, results := h.run()

	code := http.StatusOK
	if overall == StatusFail {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Report{
		Status:        overall,
		Service:       h.service,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Checks:        results,
	})
}

// ReadinessHandler — /readyz: короткий текстовый ответ для оркестратора.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, _ *http.Request) {
	if overall, _ := h.run(); overall == StatusFail {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LivenessHandler — /livez: процесс жив, пока отвечает.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
