package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wonny/partqc/internal/contracts"
	"github.com/wonny/partqc/pkg/httputil"
)

// ErrLoadFailure marks a source that could not be read or parsed.
// It is a collaborator failure, distinct from contracts.ErrInvalidInput.
var ErrLoadFailure = errors.New("load failure")

// Format is an input file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// DefaultMaxBytes bounds how much of a source is read
const DefaultMaxBytes int64 = 10 << 20

// Fetcher retrieves remote sources
type Fetcher interface {
	Fetch(ctx context.Context, url string, maxBytes int64) (*httputil.Response, error)
}

// Loader reads part records from files or URLs
// ⭐ SSOT: 입력 파일 로딩은 이 구조체에서만
type Loader struct {
	fetcher  Fetcher
	maxBytes int64
	log      zerolog.Logger
}

// New creates a loader. fetcher may be nil when only local files are used.
func New(fetcher Fetcher, maxBytes int64, log zerolog.Logger) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Loader{
		fetcher:  fetcher,
		maxBytes: maxBytes,
		log:      log.With().Str("component", "loader").Logger(),
	}
}

// Load reads every record of source, a local path or an http(s) URL
func (l *Loader) Load(ctx context.Context, source string) ([]contracts.RawRecord, error) {
	var (
		body        []byte
		contentType string
		err         error
	)

	if isRemote(source) {
		if l.fetcher == nil {
			return nil, fmt.Errorf("%w: %s: remote sources are not enabled", ErrLoadFailure, source)
		}
		resp, ferr := l.fetcher.Fetch(ctx, source, l.maxBytes)
		if ferr != nil {
			return nil, fmt.Errorf("%w: fetch %s: %v", ErrLoadFailure, source, ferr)
		}
		body, contentType = resp.Body, resp.ContentType
	} else {
		body, err = l.readFile(source)
		if err != nil {
			return nil, err
		}
	}

	format, err := DetectFormat(source, contentType)
	if err != nil {
		return nil, err
	}

	records, err := Decode(format, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	l.log.Debug().
		Str("source", source).
		Str("format", string(format)).
		Int("records", len(records)).
		Msg("source loaded")

	return records, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoadFailure, path, err)
	}
	if int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrLoadFailure, path, l.maxBytes)
	}
	return body, nil
}

// Decode parses r in the given format. Errors wrap ErrLoadFailure.
func Decode(format Format, r io.Reader) ([]contracts.RawRecord, error) {
	var (
		records []contracts.RawRecord
		err     error
	)

	switch format {
	case FormatCSV:
		records, err = decodeCSV(r)
	case FormatJSON:
		records, err = decodeJSON(r)
	case FormatHTML:
		records, err = decodeHTML(r)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrLoadFailure, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	return records, nil
}

// DetectFormat picks a format from the content type first, then the file extension
func DetectFormat(name, contentType string) (Format, error) {
	if contentType != "" {
		if f, ok := FormatFromContentType(contentType); ok {
			return f, nil
		}
	}

	path := name
	if isRemote(name) {
		// strip query string
		if i := strings.IndexAny(path, "?#"); i >= 0 {
			path = path[:i]
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}

	return "", fmt.Errorf("%w: cannot determine format of %q", ErrLoadFailure, name)
}

// FormatFromContentType maps a MIME type onto a format
func FormatFromContentType(contentType string) (Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}

	switch mediaType {
	case "text/csv", "application/csv":
		return FormatCSV, true
	case "application/json":
		return FormatJSON, true
	case "text/html":
		return FormatHTML, true
	}
	return "", false
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
