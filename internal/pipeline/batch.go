package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// LoadJobs reads a batch file of jobs. Format follows the extension: .yaml
// and .yml parse as YAML, everything else as JSON. The file must hold a
// non-empty array.
func LoadJobs(path string) ([]model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read batch file %s", path)
	}

	var jobs []model.Job
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &jobs); err != nil {
			return nil, eris.Wrap(err, "pipeline: parse batch yaml")
		}
	default:
		if err := json.Unmarshal(data, &jobs); err != nil {
			return nil, eris.Wrap(err, "pipeline: parse batch json")
		}
	}

	if len(jobs) == 0 {
		return nil, eris.New("pipeline: batch file holds no jobs")
	}
	return jobs, nil
}

// RunBatch executes every valid job in order. Invalid jobs are skipped with
// a warning and a failed job never aborts the batch; each job that ran gets
// a report in the returned slice.
func (p *Pipeline) RunBatch(ctx context.Context, jobs []model.Job, opts Options) []*model.RunReport {
	var reports []*model.RunReport

	for i, job := range jobs {
		log := zap.L().With(zap.Int("job", i+1), zap.Int("total", len(jobs)))

		if !job.Valid() {
			log.Warn("skipping job, missing company_type or region")
			continue
		}

		log.Info("batch job starting",
			zap.String("company_type", job.CompanyType),
			zap.String("region", job.Region),
		)
		report, err := p.Run(ctx, job, opts)
		if err != nil {
			log.Error("batch job failed", zap.Error(err))
			continue
		}
		reports = append(reports, report)
	}

	total := 0
	for _, r := range reports {
		total += r.LeadsCreated
	}
	zap.L().Info("batch complete",
		zap.Int("jobs", len(jobs)),
		zap.Int("succeeded", len(reports)),
		zap.Int("leads_created", total),
	)
	return reports
}
