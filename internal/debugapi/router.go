package debugapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"time"

	"roguekeep/internal/runner"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunnerInterface is the slice of *runner.Runner the HTTP layer actually
// calls. Kept minimal and mockable, per the teacher's EngineInterface
// convention in internal/api/router.go.
type RunnerInterface interface {
	View() runner.StateView
	SetInput(axisX, axisY float32, rolling, jumping, light, heavy, blocking, special int32)
	RollChoices() int32
	CommitChoice(slotIndex int32) int32
	Purchase(nodeID int32) int32
	ResolveRisk(callDouble bool) int32
	ResolveEscalate(accept bool) int32
	Reset(newSeed uint64)
	SaveState() []byte
	LoadState(buf []byte) int32
}

// RouterConfig bundles the router's dependencies for DI/testability.
type RouterConfig struct {
	Runner          RunnerInterface
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig
	AllowedOrigins  []string
	DisableLogging  bool
}

type handlers struct {
	r RunnerInterface
}

// NewRouter builds the state/control HTTP API as a chi.Mux.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rlCfg)
	}
	r.Use(rateLimiter.Middleware)

	origins := cfg.AllowedOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &handlers{r: cfg.Runner}

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/snapshot", h.handleGetSnapshot)
		r.Post("/snapshot", h.handlePostSnapshot)
		r.Post("/input", h.handlePostInput)
		r.Post("/choice/roll", h.handlePostRollChoices)
		r.Post("/choice/commit", h.handlePostCommitChoice)
		r.Post("/upgrade/purchase", h.handlePostPurchase)
		r.Post("/risk/resolve", h.handlePostResolveRisk)
		r.Post("/escalate/resolve", h.handlePostResolveEscalate)
		r.Post("/reset", h.handlePostReset)
	})

	r.Get("/render.png", h.handleRenderPNG)

	return r
}

// NewDebugMux builds the loopback-only debug mux carrying pprof and
// Prometheus metrics, kept separate from the state API per the
// teacher's internal/api/observability.go split (StartDebugServer binds
// a distinct, narrower listener than the main API server).
func NewDebugMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

// StartDebugMux starts the loopback-only debug server.
// CRITICAL: this MUST bind to localhost to prevent pprof-based DoS.
func StartDebugMux(addr string) {
	if addr != "127.0.0.1:6060" && addr != "localhost:6060" {
		if os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Printf("⚠️ debug mux forced to loopback for security (was %q)", addr)
			addr = "127.0.0.1:6060"
		}
	}

	go func() {
		log.Printf("📊 debug mux listening on %s (pprof + /metrics)", addr)
		if err := http.ListenAndServe(addr, NewDebugMux()); err != nil {
			log.Printf("⚠️ debug mux error: %v", err)
		}
	}()
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}
		RecordRequest(r.Method, endpoint, ww.Status(), time.Since(start))
	})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *handlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.r.View())
}

func (h *handlers) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	buf := h.r.SaveState()
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(buf)
}

func (h *handlers) handlePostSnapshot(w http.ResponseWriter, r *http.Request) {
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed reading snapshot body", http.StatusBadRequest)
		return
	}
	status := h.r.LoadState(buf)
	writeJSON(w, http.StatusOK, map[string]int32{"status": status})
}

func (h *handlers) handlePostInput(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AxisX, AxisY                                                  float32
		Rolling, Jumping, Light, Heavy, Blocking, Special             int32
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid input body", http.StatusBadRequest)
		return
	}
	h.r.SetInput(in.AxisX, in.AxisY, in.Rolling, in.Jumping, in.Light, in.Heavy, in.Blocking, in.Special)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handlePostRollChoices(w http.ResponseWriter, r *http.Request) {
	status := h.r.RollChoices()
	writeJSON(w, http.StatusOK, map[string]int32{"status": status})
}

func (h *handlers) handlePostCommitChoice(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.Atoi(r.URL.Query().Get("slot"))
	if err != nil {
		http.Error(w, "missing or invalid slot", http.StatusBadRequest)
		return
	}
	status := h.r.CommitChoice(int32(slot))
	writeJSON(w, http.StatusOK, map[string]int32{"status": status})
}

func (h *handlers) handlePostPurchase(w http.ResponseWriter, r *http.Request) {
	node, err := strconv.Atoi(r.URL.Query().Get("node"))
	if err != nil {
		http.Error(w, "missing or invalid node", http.StatusBadRequest)
		return
	}
	status := h.r.Purchase(int32(node))
	writeJSON(w, http.StatusOK, map[string]int32{"status": status})
}

func (h *handlers) handlePostResolveRisk(w http.ResponseWriter, r *http.Request) {
	call := r.URL.Query().Get("double") == "true"
	status := h.r.ResolveRisk(call)
	writeJSON(w, http.StatusOK, map[string]int32{"status": status})
}

func (h *handlers) handlePostResolveEscalate(w http.ResponseWriter, r *http.Request) {
	accept := r.URL.Query().Get("accept") == "true"
	status := h.r.ResolveEscalate(accept)
	writeJSON(w, http.StatusOK, map[string]int32{"status": status})
}

func (h *handlers) handlePostReset(w http.ResponseWriter, r *http.Request) {
	seed, err := strconv.ParseUint(r.URL.Query().Get("seed"), 10, 64)
	if err != nil {
		http.Error(w, "missing or invalid seed", http.StatusBadRequest)
		return
	}
	h.r.Reset(seed)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
