package registry

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/merklevote/merklevote-go/pkg/types"
)

// Feed yields voter identifiers from an external registry.
// Next returns io.EOF once the feed is exhausted.
type Feed interface {
	Next(ctx context.Context) (common.Address, error)
}

// ChannelFeed adapts a channel of addresses. Closing the channel ends the feed.
type ChannelFeed struct {
	ch <-chan common.Address
}

// NewChannelFeed creates a feed backed by ch
func NewChannelFeed(ch <-chan common.Address) *ChannelFeed {
	return &ChannelFeed{ch: ch}
}

// Next blocks until an address arrives, the channel closes or ctx is done
func (f *ChannelFeed) Next(ctx context.Context) (common.Address, error) {
	select {
	case <-ctx.Done():
		return common.Address{}, ctx.Err()
	case id, ok := <-f.ch:
		if !ok {
			return common.Address{}, io.EOF
		}
		return id, nil
	}
}

// ReaderFeed reads one hex address per line. Blank lines and lines starting
// with '#' are skipped; trailing "# ..." comments are stripped.
type ReaderFeed struct {
	scanner *bufio.Scanner
	line    int
	closer  io.Closer
}

// NewReaderFeed creates a feed over r
func NewReaderFeed(r io.Reader) *ReaderFeed {
	return &ReaderFeed{scanner: bufio.NewScanner(r)}
}

// NewFileFeed opens path as a ReaderFeed. Call Close when done.
func NewFileFeed(path string) (*ReaderFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry file %s: %w", path, err)
	}
	feed := NewReaderFeed(f)
	feed.closer = f
	return feed, nil
}

// Next returns the next address in the stream. A malformed line returns an
// error wrapping merkle.ErrInvalidIdentifier; the feed can keep being read past it.
func (f *ReaderFeed) Next(ctx context.Context) (common.Address, error) {
	for {
		if err := ctx.Err(); err != nil {
			return common.Address{}, err
		}
		if !f.scanner.Scan() {
			if err := f.scanner.Err(); err != nil {
				return common.Address{}, fmt.Errorf("failed to read registry: %w", err)
			}
			return common.Address{}, io.EOF
		}
		f.line++

		text := f.scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		id, err := types.ParseIdentifierHex(text)
		if err != nil {
			return common.Address{}, fmt.Errorf("line %d: %w", f.line, err)
		}
		return id, nil
	}
}

// Close releases the underlying file, if any
func (f *ReaderFeed) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}
