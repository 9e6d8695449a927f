// Command memfileserver runs a demo MemFile-backed workload with a
// background autosync scheduler and a small HTTP JSON status surface.
//
// Grounded on cmd/server/main.go: a flag-configured long-running process
// exposing JSON-over-HTTP status/admin endpoints via net/http +
// encoding/json. The teacher's cmd/server also exposes the same data
// over gRPC; that half is intentionally not reproduced here (see
// DESIGN.md) since a real gRPC surface needs generated .proto stubs we
// have no toolchain access to produce.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/willruggiano/memfile/internal/autosync"
	"github.com/willruggiano/memfile/internal/memfile"
	"github.com/willruggiano/memfile/internal/memfileconf"
)

type server struct {
	mu sync.Mutex
	mf *memfile.MemFile

	startedAt time.Time
	syncCount int
	lastErr   string
}

type statusResponse struct {
	PageSize    int    `json:"page_size"`
	HasFile     bool   `json:"has_file"`
	Dirty       string `json:"dirty"`
	SyncCount   int    `json:"sync_count"`
	LastError   string `json:"last_error,omitempty"`
	UptimeSecs  int64  `json:"uptime_seconds"`
}

type syncResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func dirtyString(d memfile.DirtyState) string {
	switch d {
	case memfile.Clean:
		return "clean"
	case memfile.Dirty:
		return "dirty"
	case memfile.DirtyNoSync:
		return "dirty_no_sync"
	default:
		return "unknown"
	}
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := statusResponse{
		PageSize:   s.mf.PageSize(),
		HasFile:    s.mf.HasFile(),
		Dirty:      dirtyString(s.mf.Dirty()),
		SyncCount:  s.syncCount,
		LastError:  s.lastErr,
		UptimeSecs: int64(time.Since(s.startedAt).Seconds()),
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *server) handleSync(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.mf.Sync(memfile.SyncAll|memfile.SyncFlush, nil)
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.syncCount++
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	resp := syncResponse{OK: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(w).Encode(resp)
}

func (s *server) runAutosync(sched *autosync.Scheduler) {
	for req := range sched.Requests() {
		s.mu.Lock()
		err := s.mf.Sync(memfile.SyncAll, nil)
		if err != nil {
			s.lastErr = err.Error()
		} else {
			s.syncCount++
		}
		s.mu.Unlock()
		req.Result <- err
	}
}

func main() {
	addr := flag.String("addr", ":8089", "HTTP listen address")
	configPath := flag.String("config", "", "path to a memfileconf YAML config (optional)")
	flag.Parse()

	logger := log.New(os.Stderr, "memfileserver: ", log.LstdFlags)

	cfg := memfileconf.Default()
	if *configPath != "" {
		loaded, err := memfileconf.Load(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	swapPath := filepath.Join(cfg.SwapDir, "memfileserver-demo.swp")
	os.Remove(swapPath) // start from a clean demo file each run

	mf, err := memfile.Open(swapPath, memfile.OpenCreate|memfile.OpenExcl, logger)
	if err != nil {
		logger.Fatalf("open swap file: %v", err)
	}
	defer mf.Close(true)

	// Seed a demo block so /status has something to report on besides
	// an empty MemFile.
	h := mf.New(false, 1)
	copy(h.Data(), []byte("memfileserver demo block"))
	mf.Put(h, true, false)

	srv := &server{mf: mf, startedAt: time.Now()}

	sched, err := autosync.New(cfg.AutosyncCron, logger)
	if err != nil {
		logger.Fatalf("autosync scheduler: %v", err)
	}
	go srv.runAutosync(sched)
	sched.Start()
	defer sched.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/status", srv.handleStatus)
	mux.HandleFunc("/sync", srv.handleSync)

	httpServer := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
