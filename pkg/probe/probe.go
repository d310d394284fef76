// Package probe reads image dimensions without decoding pixel data.
//
// Sources are local paths or http(s) URLs. Only the image header is read:
// local files through a buffered reader, remote files through ranged
// requests that grow until the header fits. JPEG, PNG, GIF, BMP, TIFF and
// WebP are recognized.
//
// Remote results can be memoized in an [httputil.Store] so repeated probes
// of the same URL skip the network.
package probe

import (
	"bufio"
	"bytes"
	"context"
	"image"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/httputil"
	"github.com/matzehuels/brickwall/pkg/wall"
)

// Defaults for remote probing.
const (
	DefaultPrefixBytes = 64 << 10
	MaxPrefixBytes     = 8 << 20
	DefaultConcurrency = 8
	DefaultStoreTTL    = 30 * 24 * time.Hour
	StoreNamespace     = "probe:"
)

// Size is the probed size of one source.
type Size struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Err    error  `json:"-"`
}

// Item converts a successful probe into a layout item with the source as ID.
func (s Size) Item() wall.Item {
	return wall.Item{ID: s.Source, Width: float64(s.Width), Height: float64(s.Height)}
}

// Prober reads image sizes.
type Prober struct {
	client      *httputil.Client
	store       *httputil.Store
	concurrency int
	logger      *log.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithClient sets the HTTP client for remote sources.
func WithClient(c *httputil.Client) Option { return func(p *Prober) { p.client = c } }

// WithStore memoizes remote probes. The store is namespaced with
// [StoreNamespace].
func WithStore(s *httputil.Store) Option {
	return func(p *Prober) {
		if s != nil {
			p.store = s.Namespace(StoreNamespace)
		}
	}
}

// WithConcurrency bounds parallel probes in [Prober.ProbeAll].
func WithConcurrency(n int) Option { return func(p *Prober) { p.concurrency = n } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(p *Prober) { p.logger = l } }

// New creates a prober.
func New(opts ...Option) *Prober {
	p := &Prober{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = httputil.NewClient()
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	if p.concurrency < 1 {
		p.concurrency = 1
	}
	return p
}

// IsRemote reports whether source is an http or https URL.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Probe returns the size of one source.
func (p *Prober) Probe(ctx context.Context, source string) (Size, error) {
	if strings.TrimSpace(source) == "" {
		return Size{Source: source}, errors.New(errors.ErrCodeInvalidInput, "empty source")
	}
	if IsRemote(source) {
		return p.probeRemote(ctx, source)
	}
	return probeFile(source)
}

// ProbeAll probes sources concurrently. Results keep the input order and
// per-source failures are reported in [Size.Err]. The returned error is
// non-nil only when ctx is cancelled.
func (p *Prober) ProbeAll(ctx context.Context, sources []string) ([]Size, error) {
	out := make([]Size, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			size, err := p.Probe(gctx, src)
			size.Source = src
			size.Err = err
			out[i] = size
			if err != nil {
				p.logger.Warn("probe failed", "source", src, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, ctx.Err()
}

// Items converts probe results to layout items, skipping failures.
func Items(sizes []Size) []wall.Item {
	items := make([]wall.Item, 0, len(sizes))
	for _, s := range sizes {
		if s.Err == nil {
			items = append(items, s.Item())
		}
	}
	return items
}

func probeFile(path string) (Size, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Size{Source: path}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Size{Source: path}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return Size{Source: path}, decodeError(path, err)
	}
	return newSize(path, cfg, format)
}

func (p *Prober) probeRemote(ctx context.Context, source string) (Size, error) {
	if p.store != nil {
		var cached Size
		if ok, err := p.store.Get(source, &cached); ok && err == nil {
			p.logger.Debug("probe memo hit", "source", source)
			return cached, nil
		}
	}

	size, err := p.fetchRemote(ctx, source)
	if err != nil {
		return size, err
	}
	if p.store != nil {
		if err := p.store.Set(source, size); err != nil {
			p.logger.Warn("probe memo write failed", "source", source, "error", err)
		}
	}
	return size, nil
}

// fetchRemote grows the fetched prefix until the header decodes or the
// whole resource has been read.
func (p *Prober) fetchRemote(ctx context.Context, source string) (Size, error) {
	for n := int64(DefaultPrefixBytes); ; n *= 4 {
		n = min(n, MaxPrefixBytes)
		data, err := p.client.FetchPrefix(ctx, source, n)
		if err != nil {
			return Size{Source: source}, err
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err == nil {
			return newSize(source, cfg, format)
		}
		truncated := int64(len(data)) == n && (err == io.ErrUnexpectedEOF || err == io.EOF)
		if !truncated || n == MaxPrefixBytes {
			return Size{Source: source}, decodeError(source, err)
		}
		p.logger.Debug("probe header truncated, refetching", "source", source, "bytes", n*4)
	}
}

func newSize(source string, cfg image.Config, format string) (Size, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{Source: source}, errors.New(errors.ErrCodeInvalidItem, "%s: image has no area (%dx%d)", source, cfg.Width, cfg.Height)
	}
	return Size{Source: source, Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

func decodeError(source string, err error) error {
	if err == image.ErrFormat {
		return errors.Wrap(errors.ErrCodeUnsupported, err, "%s", source)
	}
	return errors.Wrap(errors.ErrCodeInvalidItem, err, "decode %s", source)
}
