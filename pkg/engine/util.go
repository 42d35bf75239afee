package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/seekerror/logw"
)

// ReadLines reads lines from the reader into a chan. Async; the chan
// closes when the stream ends.
func ReadLines(ctx context.Context, r io.Reader) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			logw.Debugf(ctx, "<< %v", scanner.Text())
			ret <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logw.Errorf(ctx, "input stream broken: %v", err)
		}
	}()
	return ret
}

// WriteLines writes lines from the given chan to the writer until the
// chan closes. Responses may span multiple lines.
func WriteLines(ctx context.Context, w io.Writer, out <-chan string) {
	for line := range out {
		logw.Debugf(ctx, ">> %v", line)
		_, _ = fmt.Fprintln(w, line)
	}
}
