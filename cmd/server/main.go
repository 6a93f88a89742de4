package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirdesai22/cp-leaderboard/internal/db"
	"github.com/sirdesai22/cp-leaderboard/internal/elastic"
	"github.com/sirdesai22/cp-leaderboard/internal/leaderboard"
	"github.com/sirdesai22/cp-leaderboard/internal/models"
	"github.com/sirdesai22/cp-leaderboard/internal/repository"
	"github.com/sirdesai22/cp-leaderboard/internal/services"
	"gorm.io/gorm"

	"github.com/sirdesai22/cp-leaderboard/internal/metrics"
	"github.com/sirdesai22/cp-leaderboard/internal/workers"
)

// cronAuth gates a handler behind the shared cron secret. An empty secret
// rejects everything rather than leaving the trigger open.
func cronAuth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if secret == "" || r.Header.Get("Authorization") != "Bearer "+secret {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func main() {
	_ = godotenv.Load()

	pg := db.Connect()
	db.Migrate(pg)
	db.Seed(pg)

	metrics.Register()

	// All cutoff and week-boundary math runs in one location.
	loc := time.Local
	if tz := os.Getenv("LEADERBOARD_TZ"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("❌ bad LEADERBOARD_TZ %q: %v", tz, err)
		}
		loc = l
	}

	stores := repository.NewGormStores(pg)
	lbService := services.NewLeaderboardService(stores, stores, loc)
	snapService := services.NewSnapshotService(lbService, stores, loc)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	es := elastic.Connect()
	worker := &workers.SyncWorker{DB: pg, ES: es}

	interval := time.Hour
	if v := os.Getenv("SNAPSHOT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			interval = d
		}
	}
	snapWorker := &workers.SnapshotWorker{Snapshots: snapService, Interval: interval}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx)
	go worker.RetryDLQ(ctx)
	go snapWorker.Run(ctx)

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())

	r.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, req *http.Request) {
		win, err := leaderboard.ParseWindow(req.URL.Query().Get("window"), time.Now(), loc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		entries, err := lbService.Compute(req.Context(), win)
		if err != nil {
			http.Error(w, "leaderboard unavailable: "+err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(entries)
	}).Methods("GET")

	r.HandleFunc("/api/snapshots/latest", func(w http.ResponseWriter, req *http.Request) {
		snap, err := snapService.Snapshots.Latest(req.Context())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "no snapshots yet", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(snap)
	}).Methods("GET")

	r.HandleFunc("/api/snapshots/{start}", func(w http.ResponseWriter, req *http.Request) {
		start, err := time.Parse(time.RFC3339, mux.Vars(req)["start"])
		if err != nil {
			http.Error(w, "start must be RFC3339", http.StatusBadRequest)
			return
		}
		snap, err := snapService.Snapshots.ByPeriodStart(req.Context(), start)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(snap)
	}).Methods("GET")

	// Cron-style trigger. The check happens before any store read, so an
	// unauthorized call has no side effects at all.
	r.HandleFunc("/api/jobs/weekly-snapshot", cronAuth(os.Getenv("CRON_SECRET"), func(w http.ResponseWriter, req *http.Request) {
		snap, err := snapService.RunWeekly(req.Context(), time.Now())
		if err != nil {
			http.Error(w, "snapshot failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(snap)
	})).Methods("POST")

	r.HandleFunc("/api/outbox", func(w http.ResponseWriter, req *http.Request) {
		var outboxes []models.Outbox
		pg.Order("id desc").Limit(100).Find(&outboxes)
		json.NewEncoder(w).Encode(outboxes)
	}).Methods("GET")

	r.HandleFunc("/api/dlq", func(w http.ResponseWriter, req *http.Request) {
		var dlq []models.DLQ
		pg.Order("id desc").Limit(100).Find(&dlq)
		json.NewEncoder(w).Encode(dlq)
	}).Methods("GET")

	r.HandleFunc("/api/retry/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)["id"]
		var d models.DLQ
		if err := pg.First(&d, "id = ?", id).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		ob := models.Outbox{
			ID:         d.OutboxID,
			EntityType: d.EntityType,
			EntityID:   d.EntityID,
			Op:         d.Op,
		}
		bi, _ := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
			Client: es, Index: "", FlushBytes: 5 << 20, NumWorkers: 2,
		})
		if err := worker.ApplyEvent(ctx, bi, ob); err != nil {
			workers.PutDLQ(pg, ob, err.Error())
			http.Error(w, "retry failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		now := time.Now()
		pg.Model(&models.DLQ{}).Where("id = ?", id).Updates(map[string]any{"resolved": true, "retried_at": &now})
		json.NewEncoder(w).Encode(map[string]string{"status": "retried"})
	}).Methods("POST")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🧭 Leaderboard API running on :" + port)
	if err := http.ListenAndServe(":"+port, corsMiddleware.Handler(r)); err != nil {
		log.Fatalf("API listener failed: %v", err)
	}
}
