package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/alagadnicaren/sharedmemories1/internal/delivery"
	ws "github.com/alagadnicaren/sharedmemories1/internal/delivery/ws"
	"github.com/alagadnicaren/sharedmemories1/internal/domain"
	"github.com/alagadnicaren/sharedmemories1/internal/infra"
	"github.com/alagadnicaren/sharedmemories1/internal/models"
	"github.com/alagadnicaren/sharedmemories1/internal/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	// LOGGER
	zcore, _ := zap.NewProduction()
	zl := logger.NewZapLogger(zcore.Sugar())

	// ENV
	port := getenv("PORT", "3001")
	dataDir := getenv("DATA_DIR", "data")
	uploadsDir := getenv("UPLOADS_DIR", "uploads")
	publicDir := getenv("PUBLIC_DIR", "public")

	maxUpload := int64(50 << 20)
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic("MAX_UPLOAD_BYTES is not a number: " + v)
		}
		maxUpload = n
	}

	// STORAGE
	blobs, err := infra.NewDiskBlobStore(uploadsDir)
	if err != nil {
		panic("cannot init blob store: " + err.Error())
	}

	albumSnap, err := infra.NewJSONSnapshot(dataDir+"/albums.json", zl)
	if err != nil {
		panic("cannot init albums snapshot: " + err.Error())
	}
	songSnap, err := infra.NewJSONSnapshot(dataDir+"/songs.json", zl)
	if err != nil {
		panic("cannot init songs snapshot: " + err.Error())
	}

	// SERVICES
	albums := domain.NewRecordService(models.KindImage, "albums", blobs, albumSnap, zl)
	songs := domain.NewRecordService(models.KindAudio, "songs", blobs, songSnap, zl)

	// WS HUB
	hub := ws.NewHub()

	// BROADCAST LISTENERS
	for _, events := range []<-chan ports.FeedEvent{albums.Events(), songs.Events()} {
		go func(ch <-chan ports.FeedEvent) {
			for ev := range ch {
				payload, err := json.Marshal(ev)
				if err != nil {
					log.Printf("[feed] marshal failed: %v", err)
					continue
				}
				hub.SendToFeed(ev.Feed, payload)
			}
		}(events)
	}

	// HANDLERS
	hMedia := delivery.NewMediaHandler(albums, songs, maxUpload, zl)

	// ROUTER
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	delivery.RegisterRoutes(r, hMedia)

	r.Get("/ws", ws.FeedHandler(hub))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// stored blobs and the static site
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(uploadsDir))))
	r.Handle("/*", http.FileServer(http.Dir(publicDir)))

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "server started",
		Fields:  map[string]any{"port": port, "uploads": uploadsDir, "data": dataDir},
	})

	if err := http.ListenAndServe(":"+port, r); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server crashed",
			Error:   err,
		})
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
