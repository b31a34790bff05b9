package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/passdesk/passdesk/internal/bridgestub"
)

// DevServer runs the in-memory stub backend so the client can be used
// without a real backend process. Data lives only as long as the server.
func DevServer(ctx context.Context, addr string, seed bool) {
	stub := bridgestub.New()
	if seed {
		stub.Seed()
		fmt.Println("Seeded demo profile: id 'demo', master password 'demo-master'")
	}

	server := &http.Server{
		Addr:    addr,
		Handler: stub.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Stub backend listening on %s\n", addr)
	fmt.Printf("Point the client at it with PASSDESK_ENDPOINT=http://%s\n", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("devserver failed: %v", err)
	}
}
