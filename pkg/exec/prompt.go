package exec

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cloudglass-tools/cloudglass/capi"
)

// StreamPrompter asks questions on a writer and reads answers line by line
// from a reader.  At most one prompt is pending at a time; concurrent
// callers serialize rather than queue.
type StreamPrompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewStreamPrompter(in io.Reader, out io.Writer) *StreamPrompter {
	return &StreamPrompter{in: bufio.NewReader(in), out: out}
}

// Prompt implements capi.Prompter.
//
// Errors:
//
//    - cloudglass-error-io -- when the input stream ends or fails
func (p *StreamPrompter) Prompt(ctx context.Context, message string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", capi.ErrorIo("prompt canceled", "", err)
	}
	fmt.Fprintf(p.out, "%s ", message)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", capi.ErrorIo("reading prompt answer", "", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
