// Mailer is the standalone email dispatch service. It renders templates and
// submits mail over SMTP. Set MAILER_ADDR, SMTP_HOST, SMTP_PORT, SMTP_USER and SMTP_PASS.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"crowdguard/backend/internal/config"
	"crowdguard/backend/internal/mailer"
	"crowdguard/backend/internal/platform/httpx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	sender := &mailer.SMTPSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     from,
	}
	if !sender.Configured() {
		log.Println("mailer: SMTP credentials not set; send requests will fail")
	}

	h := mailer.NewHandler(sender)

	r := chi.NewRouter()
	r.Post("/send", h.Send)
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"})
	})

	srv := &http.Server{
		Addr:              cfg.MailerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("mailer: listening on %s", cfg.MailerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("mailer: shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("mailer: shutdown: %v", err)
	}
	log.Println("mailer: stopped")
}
