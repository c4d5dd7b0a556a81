package workload

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	apperrors "github.com/agbru/iterprogress/internal/errors"
	"github.com/agbru/iterprogress/progress"
)

const maxLineSize = 1 << 20

// lines yields the lines of a reader. Its length is unknown until the
// reader is exhausted.
type lines struct {
	ctx     context.Context
	scanner *bufio.Scanner
	closer  io.Closer
	i       uint64
	err     error
	done    bool
}

// NewLines returns the lines of the file at p.Input, or of p.Stdin when
// p.Input is "-".
func NewLines(ctx context.Context, p Params) (Sequence, error) {
	var (
		r      io.Reader
		closer io.Closer
	)
	switch p.Input {
	case "":
		return nil, fmt.Errorf("lines: no input given")
	case "-":
		if p.Stdin == nil {
			return nil, fmt.Errorf("lines: no standard input available")
		}
		r = p.Stdin
	default:
		f, err := os.Open(p.Input)
		if err != nil {
			return nil, apperrors.WrapError(err, "lines")
		}
		r, closer = f, f
	}
	return newLinesReader(ctx, r, closer), nil
}

func newLinesReader(ctx context.Context, r io.Reader, closer io.Closer) *lines {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &lines{ctx: ctx, scanner: scanner, closer: closer}
}

func (l *lines) Next() (Item, bool) {
	if l.done {
		return Item{}, false
	}
	if err := l.ctx.Err(); err != nil {
		l.err, l.done = err, true
		return Item{}, false
	}
	if !l.scanner.Scan() {
		l.err, l.done = l.scanner.Err(), true
		return Item{}, false
	}
	item := Item{Index: l.i, Value: l.scanner.Text()}
	l.i++
	return item, true
}

func (l *lines) SizeHint() progress.SizeHint {
	if l.done {
		return progress.ExactSize(0)
	}
	return progress.Unknown()
}

func (l *lines) Err() error { return l.err }

func (l *lines) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}
