package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"duty-calendar/internal/models"
)

var unsafeName = strings.NewReplacer("/", "_", "\\", "_")

// Output is one rendered file waiting to be published.
type Output struct {
	Format string
	Data   []byte
}

// BaseName is the published file name without extension: <type>_<month>_<year>.
func BaseName(q models.ScheduleQuery) string {
	return unsafeName.Replace(fmt.Sprintf("%s_%d_%d", q.ScheduleType, q.Month, q.Year))
}

// Publisher writes outputs into a directory under their final names. Publishing is
// all or nothing: outputs are staged as uniquely named temporary files, and files
// they replace are kept aside until every rename succeeded. On failure the previous
// set is put back.
type Publisher struct {
	dir    string
	logger *zap.Logger
}

func NewPublisher(dir string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{dir: dir, logger: logger}
}

// replaced is a final path this publish took over, and where its old content waits.
type replaced struct {
	final  string
	backup string // empty when final did not exist
}

// Publish writes outputs as <dir>/<base>.<format> and returns the written paths.
func (p *Publisher) Publish(base string, outputs ...Output) ([]string, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	temps := make([]string, 0, len(outputs))
	var done []replaced
	remove := func(path, what string) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("remove "+what, zap.String("path", path), zap.Error(err))
		}
	}
	rollback := func() {
		for _, t := range temps {
			remove(t, "temp file")
		}
		for i := len(done) - 1; i >= 0; i-- {
			d := done[i]
			remove(d.final, "partial output")
			if d.backup == "" {
				continue
			}
			if err := os.Rename(d.backup, d.final); err != nil {
				p.logger.Error("restore previous output", zap.String("path", d.final), zap.Error(err))
			}
		}
	}

	for _, o := range outputs {
		tmp := p.stagingName(o.Format, "tmp")
		if err := os.WriteFile(tmp, o.Data, 0o644); err != nil {
			rollback()
			return nil, fmt.Errorf("write %s: %w", o.Format, err)
		}
		temps = append(temps, tmp)
	}

	for i, o := range outputs {
		final := filepath.Join(p.dir, base+"."+o.Format)
		r := replaced{final: final}
		if fi, err := os.Lstat(final); err == nil && fi.Mode().IsRegular() {
			r.backup = p.stagingName(o.Format, "bak")
			if err := os.Rename(final, r.backup); err != nil {
				rollback()
				return nil, fmt.Errorf("set aside %s: %w", final, err)
			}
		}
		if err := os.Rename(temps[i], final); err != nil {
			if r.backup != "" {
				if rerr := os.Rename(r.backup, final); rerr != nil {
					p.logger.Error("restore previous output", zap.String("path", final), zap.Error(rerr))
				}
			}
			rollback()
			return nil, fmt.Errorf("publish %s: %w", final, err)
		}
		done = append(done, r)
	}

	paths := make([]string, 0, len(done))
	for i, d := range done {
		if d.backup != "" {
			remove(d.backup, "previous output")
		}
		paths = append(paths, d.final)
		p.logger.Info("published", zap.String("path", d.final), zap.Int("bytes", len(outputs[i].Data)))
	}
	return paths, nil
}

func (p *Publisher) stagingName(format, suffix string) string {
	return filepath.Join(p.dir, "."+uuid.NewString()+"."+format+"."+suffix)
}
