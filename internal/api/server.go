package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"yieldDesk/internal/metrics"
	"yieldDesk/internal/storage"
	"yieldDesk/internal/tvl"
)

// Options tunes the HTTP surface.
type Options struct {
	// RateLimit is requests per second per client. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// Server serves the /v1/api resources.
type Server struct {
	store   storage.Store
	tvl     *tvl.Reader
	chains  tvl.Chains
	logger  *zap.Logger
	router  *mux.Router
	limiter *rateLimiter

	// depositMu serializes read-modify-write of user deposit totals.
	depositMu sync.Mutex
}

func NewServer(store storage.Store, reader *tvl.Reader, chains tvl.Chains, logger *zap.Logger, opts Options) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if reader == nil {
		return nil, fmt.Errorf("tvl reader is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:  store,
		tvl:    reader,
		chains: chains,
		logger: logger,
	}
	s.router = s.routes(opts)
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops background work started by NewServer.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.close()
	}
}

func (s *Server) routes(opts Options) *mux.Router {
	r := mux.NewRouter()
	r.Use(s.observe)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/v1/api").Subrouter()
	if opts.RateLimit > 0 {
		s.limiter = newRateLimiter(opts.RateLimit, opts.RateBurst, s.logger)
		s.limiter.startCleanup(limiterSweep)
		api.Use(s.limiter.middleware)
	}

	api.HandleFunc("/admin", s.listAdmins).Methods(http.MethodGet)
	api.HandleFunc("/admin", s.createAdmin).Methods(http.MethodPost)
	api.HandleFunc("/admin/roles", s.listRoles).Methods(http.MethodGet)
	api.HandleFunc("/admin/{address}", s.getAdmin).Methods(http.MethodGet)
	api.HandleFunc("/admin/{address}/role", s.updateAdminRole).Methods(http.MethodPut)
	api.HandleFunc("/admin/{address}/status", s.setAdminStatus).Methods(http.MethodPut)

	api.HandleFunc("/pool", s.listPools).Methods(http.MethodGet)
	api.HandleFunc("/pool", s.createPool).Methods(http.MethodPost)
	api.HandleFunc("/pool/tvl", s.listPoolTVL).Methods(http.MethodGet)
	api.HandleFunc("/pool/{id}", s.getPool).Methods(http.MethodGet)
	api.HandleFunc("/pool/{id}", s.updatePool).Methods(http.MethodPut)
	api.HandleFunc("/pool/{id}/status", s.setPoolStatus).Methods(http.MethodPut)
	api.HandleFunc("/pool/{id}/tvl", s.poolTVL).Methods(http.MethodGet)

	api.HandleFunc("/user", s.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/user", s.createUser).Methods(http.MethodPost)
	api.HandleFunc("/user/ranking", s.rankUsers).Methods(http.MethodGet)
	api.HandleFunc("/user/{address}", s.getUser).Methods(http.MethodGet)
	api.HandleFunc("/user/{address}/status", s.setUserStatus).Methods(http.MethodPut)

	api.HandleFunc("/referral/{address}", s.getReferral).Methods(http.MethodGet)

	api.HandleFunc("/trigger", s.trigger).Methods(http.MethodPost)
	api.HandleFunc("/transaction", s.listTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transaction/{id}", s.getTransaction).Methods(http.MethodGet)
	api.HandleFunc("/transaction/{id}/status", s.setTransactionStatus).Methods(http.MethodPut)

	// mux skips Use middleware when no route matches.
	r.NotFoundHandler = s.observe(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	}))
	r.MethodNotAllowedHandler = s.observe(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}))
	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	var chains []uint64
	if ids, ok := s.chains.(interface{ ChainIDs() []uint64 }); ok {
		chains = ids.ChainIDs()
	}
	if chains == nil {
		chains = []uint64{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"chains": chains,
	})
}
