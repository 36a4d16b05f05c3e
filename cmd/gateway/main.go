package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/verifiai/authenticity/pkg/analysis"
	"github.com/verifiai/authenticity/pkg/cache"
	"github.com/verifiai/authenticity/pkg/config"
	"github.com/verifiai/authenticity/pkg/history"
)

const Version = "0.1.0"

// Server wires the scoring engine to its optional supporting services.
// The engine is always available; cache and history degrade gracefully
// when their backends are not configured or not reachable.
type Server struct {
	engine  *analysis.Engine
	cache   *cache.ResultCache // Optional: requires Redis
	history *history.Store     // Optional: requires Postgres
	config  *config.Config
}

func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	engine, err := analysis.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize engine: %w", err)
	}

	s := &Server{
		engine: engine,
		config: cfg,
	}

	if cfg.RemoteDetectorURL != "" {
		log.Printf("✓ Remote detector enabled (%s)", cfg.RemoteDetectorURL)
	} else {
		log.Println("○ Remote detector disabled (VERIFIAI_REMOTE_URL not set)")
	}

	// Result cache - optional
	if cfg.RedisAddr != "" {
		rc := cache.New(cfg.RedisAddr, cfg.RedisPassword, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Printf("○ Result cache disabled (redis ping failed: %v)", err)
			_ = rc.Close()
		} else {
			s.cache = rc
			log.Printf("✓ Result cache enabled (redis at %s, ttl %ds)", cfg.RedisAddr, cfg.CacheTTLSeconds)
		}
		cancel()
	} else {
		log.Println("○ Result cache disabled (VERIFIAI_REDIS_ADDR not set)")
	}

	// Analysis history - optional
	if cfg.PostgresURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := history.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Printf("○ Analysis history disabled (postgres init failed: %v)", err)
		} else if err := store.EnsureSchema(ctx); err != nil {
			log.Printf("○ Analysis history disabled (schema setup failed: %v)", err)
			store.Close()
		} else {
			s.history = store
			log.Println("✓ Analysis history enabled (postgres)")
		}
		cancel()
	} else {
		log.Println("○ Analysis history disabled (VERIFIAI_POSTGRES_URL not set)")
	}

	return s, nil
}

// Analyze scores a buffer, consulting the cache first and recording the
// result to history when those backends are available.
func (s *Server) Analyze(ctx context.Context, buf []byte, mediaType string) *analysis.AnalysisResult {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, buf, mediaType); ok {
			return cached
		}
	}

	result := s.engine.AnalyzeWithRemote(ctx, buf, mediaType)

	if s.cache != nil {
		s.cache.Put(ctx, buf, mediaType, result)
	}
	if s.history != nil {
		if _, err := s.history.Insert(ctx, result, mediaType, len(buf)); err != nil {
			log.Printf("[WARN] Failed to record analysis history: %v", err)
		}
	}
	return result
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cfg := config.NewDefaultConfig()
		if len(os.Args) > 2 {
			cfg.Port = os.Args[2]
		}
		runHTTPServer(cfg)
	case "analyze":
		if len(os.Args) < 3 {
			fmt.Println("Usage: verifiai analyze <file> [media-type]")
			os.Exit(1)
		}
		mediaType := ""
		if len(os.Args) > 3 {
			mediaType = os.Args[3]
		}
		runCLIAnalyze(os.Args[2], mediaType)
	case "version":
		fmt.Printf("VerifiAI Authenticity Gateway v%s\n", Version)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("VerifiAI Authenticity Gateway v%s\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  verifiai serve [port]              Start HTTP server (default: 8080)")
	fmt.Println("  verifiai analyze <file> [mime]     Score a local file")
	fmt.Println("  verifiai version                   Show version")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  verifiai serve 8080")
	fmt.Println("  verifiai analyze ./sample.jpg")
	fmt.Println("  verifiai analyze ./clip.bin video/mp4")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  VERIFIAI_REMOTE_URL      Remote detector endpoint (optional)")
	fmt.Println("  VERIFIAI_REDIS_ADDR      Redis address for the result cache (optional)")
	fmt.Println("  VERIFIAI_POSTGRES_URL    Postgres URL for analysis history (optional)")
	fmt.Println("  VERIFIAI_WEIGHTS_PATH    YAML file overriding feature weights (optional)")
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

func runHTTPServer(cfg *config.Config) {
	cfg.MustValidate()

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatalf("[STARTUP] FATAL: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:   "VerifiAI Authenticity Gateway",
		BodyLimit: cfg.MaxUploadBytes,
	})

	// Health reports which optional layers are live, plus remote
	// backpressure when a detector is configured.
	app.Get("/health", func(c fiber.Ctx) error {
		layers := fiber.Map{
			"cache":   server.cache != nil,
			"history": server.history != nil,
		}
		if stats, ok := server.engine.RemoteStats(); ok {
			layers["remote_detector"] = stats
		} else {
			layers["remote_detector"] = false
		}
		return c.JSON(fiber.Map{"status": "ok", "version": Version, "layers": layers})
	})

	// POST /analyze accepts a multipart upload:
	//   file        - the media bytes (required)
	//   media_type  - MIME override; defaults to the part's Content-Type
	app.Post("/analyze", func(c fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "file field is required"})
		}
		if fileHeader.Size > int64(cfg.MaxUploadBytes) {
			return c.Status(413).JSON(fiber.Map{"error": "file too large"})
		}

		f, err := fileHeader.Open()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "failed to read upload"})
		}
		defer f.Close()

		buf, err := io.ReadAll(io.LimitReader(f, int64(cfg.MaxUploadBytes)+1))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "failed to read upload"})
		}
		if len(buf) > cfg.MaxUploadBytes {
			return c.Status(413).JSON(fiber.Map{"error": "file too large"})
		}

		mediaType := c.FormValue("media_type")
		if mediaType == "" {
			mediaType = fileHeader.Header.Get("Content-Type")
		}
		if mediaType == "" {
			mediaType = detectMediaType(fileHeader.Filename, buf)
		}

		result := server.Analyze(c.Context(), buf, mediaType)
		return c.JSON(result)
	})

	// GET /history?limit=N returns recent analyses when the history
	// store is configured.
	app.Get("/history", func(c fiber.Ctx) error {
		if server.history == nil {
			return c.Status(404).JSON(fiber.Map{"error": "history store not configured"})
		}
		limit := 50
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 1000 {
				return c.Status(400).JSON(fiber.Map{"error": "limit must be an integer in [1,1000]"})
			}
			limit = n
		}
		records, err := server.history.Recent(c.Context(), limit)
		if err != nil {
			log.Printf("[WARN] History query failed: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "history query failed"})
		}
		return c.JSON(fiber.Map{"analyses": records})
	})

	log.Printf("VerifiAI gateway starting on :%s", cfg.Port)
	log.Printf("Endpoints:")
	log.Printf("  GET  /health    - Health check")
	log.Printf("  POST /analyze   - Score an uploaded image or video")
	log.Printf("  GET  /history   - Recent analyses (requires postgres)")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// detectMediaType guesses a MIME type from the filename extension, then
// the content sniffer. Unknown inputs fall back to octet-stream, which
// the engine scores as a generic image.
func detectMediaType(filename string, buf []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return analysis.MimeJPEG
	case ".png":
		return analysis.MimePNG
	case ".mp4":
		return analysis.MimeMP4
	case ".mov":
		return analysis.MimeQuickTime
	}
	if len(buf) > 0 {
		if sniffed := http.DetectContentType(buf); sniffed != "application/octet-stream" {
			return sniffed
		}
	}
	return "application/octet-stream"
}

// ============================================================================
// CLI Mode
// ============================================================================

func runCLIAnalyze(path, mediaType string) {
	buf, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}
	if mediaType == "" {
		mediaType = detectMediaType(path, buf)
	}

	// CLI analysis is fully offline: no remote detector, no cache.
	server, err := NewServer(config.NewLocalConfig())
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	result := server.Analyze(context.Background(), buf, mediaType)
	output, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(output))
}
