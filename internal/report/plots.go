package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/TomGlanzman/Perp/internal/models"
)

const histBins = 25

// RuntimeHistograms renders one runtime-distribution histogram per task
// type, tallying run-times in minutes for tasks that reached a done state.
// One PNG per function is written into outDir; the written paths are
// returned. Tasks with a missing runtime were already flagged during row
// shaping and are skipped here.
func RuntimeHistograms(rows []models.TaskRow, outDir string) ([]string, error) {
	minutes := make(map[string][]float64)
	var order []string

	for _, row := range rows {
		if !strings.Contains(row.Status, "done") || !row.RunSec.Valid {
			continue
		}
		if _, seen := minutes[row.Function]; !seen {
			order = append(order, row.Function)
		}
		minutes[row.Function] = append(minutes[row.Function], float64(row.RunSec.Int64)/60)
	}

	var written []string
	for _, fn := range order {
		p := plot.New()
		p.Title.Text = fn
		p.X.Label.Text = "time (min)"
		p.Y.Label.Text = "# instances"

		h, err := plotter.NewHist(plotter.Values(minutes[fn]), histBins)
		if err != nil {
			return written, fmt.Errorf("histogram for %s: %w", fn, err)
		}
		p.Add(h)

		path := filepath.Join(outDir, "runtime_"+sanitizeFilename(fn)+".png")
		if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
			return written, fmt.Errorf("saving %s: %w", path, err)
		}

		log.Info().Str("function", fn).Str("path", path).Int("tasks", len(minutes[fn])).
			Msg("Wrote runtime histogram")
		written = append(written, path)
	}

	return written, nil
}

// sanitizeFilename keeps function names filesystem-safe.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
