package fbref

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
)

// Archive reads match reports saved on disk as <dir>/<id>.html, falling back to
// the match_<id>.html naming of older scrapes.
type Archive struct {
	dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{dir: filepath.Clean(strings.TrimSpace(dir))}
}

func (a *Archive) Dir() string {
	return a.dir
}

func (a *Archive) Fetch(ctx context.Context, matchID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matchID, err := cleanMatchID(matchID)
	if err != nil {
		return nil, err
	}

	for _, name := range []string{matchID + ".html", "match_" + matchID + ".html"} {
		raw, err := os.ReadFile(filepath.Join(a.dir, name))
		switch {
		case err == nil:
			return raw, nil
		case crerr.Is(err, fs.ErrNotExist):
			continue
		default:
			return nil, crerr.Wrapf(err, "read archived report %s", name)
		}
	}
	return nil, crerr.Mark(crerr.Newf("match %s is not archived in %s", matchID, a.dir), ErrNotFound)
}

// Save writes raw as <dir>/<id>.html through a temporary file so readers never
// see a partial document.
func (a *Archive) Save(ctx context.Context, matchID string, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	matchID, err := cleanMatchID(matchID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create archive dir %s", a.dir)
	}

	tmp, err := os.CreateTemp(a.dir, "."+matchID+"-*.tmp")
	if err != nil {
		return crerr.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "write archived report %s", matchID)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close archived report %s", matchID)
	}
	return os.Rename(tmp.Name(), filepath.Join(a.dir, matchID+".html"))
}

type fetcher interface {
	Fetch(ctx context.Context, matchID string) ([]byte, error)
}

// Mirror serves archived reports first and archives whatever it fetches from
// the source. A failed save is logged and does not fail the fetch.
type Mirror struct {
	source  fetcher
	archive *Archive
	logger  *logging.Logger
}

func NewMirror(source fetcher, archive *Archive, logger *logging.Logger) *Mirror {
	if logger == nil {
		logger = logging.Default()
	}
	return &Mirror{source: source, archive: archive, logger: logger}
}

func (m *Mirror) Fetch(ctx context.Context, matchID string) ([]byte, error) {
	raw, err := m.archive.Fetch(ctx, matchID)
	if err == nil {
		return raw, nil
	}
	if !crerr.Is(err, ErrNotFound) {
		return nil, err
	}

	raw, err = m.source.Fetch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := m.archive.Save(ctx, matchID, raw); err != nil {
		m.logger.WarnContext(ctx, "archive fetched report failed", "match_id", matchID, "dir", m.archive.Dir(), "error", err)
	}
	return raw, nil
}
