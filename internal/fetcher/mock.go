package fetcher

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Mock serves a canned seller page, handy for local runs and demos without
// hammering TPC.
type Mock struct {
	Items int
}

func NewMock() *Mock {
	return &Mock{Items: 75}
}

func (m *Mock) FetchItems(ctx context.Context, username string) (io.ReadCloser, error) {
	// Simulate network latency (nice for exercising the singleflight path).
	select {
	case <-time.After(200 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var page strings.Builder
	page.WriteString(`<html><body><p class="usermeta">Location: <em class="red">Manila</em> Contact No.: <em class="red">09171234567</em></p><table class="itemlist">`)
	for i := 0; i < m.Items; i++ {
		fmt.Fprintf(&page, `<tr><td>%s mock item #%d</td><td>PHP %d</td></tr>`, username, i+1, (i+1)*100)
	}
	page.WriteString(`</table></body></html>`)

	return io.NopCloser(strings.NewReader(page.String())), nil
}
