package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"shopcartConsole/internal/config"
	"shopcartConsole/internal/console"
	"shopcartConsole/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	addr := flag.String("addr", "", "HTTP network address")
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	tui := flag.Bool("tui", false, "run the terminal console instead of the web server")
	tuiLog := flag.String("tui-log", "", "log file for the terminal console")
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of a password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := utils.HashPassword(*hashPassword)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var out, errOut io.Writer = os.Stdout, os.Stderr
	if *tui {
		out, errOut = io.Discard, io.Discard
		if *tuiLog != "" {
			f, err := os.OpenFile(*tuiLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				log.Fatalf("Failed to open log file: %v", err)
			}
			defer f.Close()
			out, errOut = f, f
		}
	}

	infoLog := log.New(out, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(errOut, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	consoleCfg, err := console.LoadConsoleConfig(cfg)
	if err != nil {
		errorLog.Fatal(err)
	}
	deps := &console.ConsoleDeps{
		Logger:    logAdapter{info: infoLog, err: errorLog},
		APILogger: slog.New(slog.NewTextHandler(out, nil)),
		Config:    consoleCfg,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *tui {
		if err := runTUI(ctx, deps); err != nil {
			errorLog.Fatal(err)
		}
		return
	}

	app, err := initializeApp(cfg, deps, errorLog, infoLog)
	if err != nil {
		errorLog.Fatal(err)
	}

	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:         listenAddr(*addr, cfg),
		ErrorLog:     errorLog,
		Handler:      addSecurityHeaders(c.Handler(app.routes())),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errorLog.Printf("shutdown: %v", err)
		}
	}()

	infoLog.Printf("Starting server on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errorLog.Fatal(err)
	}
	infoLog.Print("Server stopped")
}

// listenAddr prefers the -addr flag, then PORT, then the config file.
func listenAddr(flagAddr string, cfg config.Config) string {
	if flagAddr != "" {
		return flagAddr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	if cfg.Server.Address != "" {
		return cfg.Server.Address
	}
	return ":4001"
}
