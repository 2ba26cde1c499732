package audit

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/tpcpricelists/pricelist/internal/domain"
)

// WriterService drains generation events onto disk as NDJSON. A single
// goroutine owns the file handle so request handlers never contend on it.
type WriterService struct {
	FilePath string
}

func (w *WriterService) Start(wg *sync.WaitGroup, input <-chan domain.Event) {
	defer wg.Done()

	f, err := os.OpenFile(w.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Error("audit log unavailable", "path", w.FilePath, "err", err)
		for range input {
			// Keep draining so senders never block.
		}
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for event := range input {
		if err := enc.Encode(event); err != nil {
			slog.Error("audit write failed", "err", err)
		}
	}
}
