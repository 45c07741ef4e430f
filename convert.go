// convert.go runs the batch pipeline over many documents from a configuration
package scantables

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/JennaRuan/scantables/config"
	"github.com/JennaRuan/scantables/pipeline"
)

// Convert processes every path with cfg and writes one result file per
// document that contains a table. When no path is given the configured
// inputs are used. The returned report lists documents in input order;
// an error is returned only when the configuration is invalid.
//
// Example:
//
//	cfg, err := config.Load("scantables.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := scantables.Convert(ctx, cfg, nil, "a.pdf", "b.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Summary())
func Convert(ctx context.Context, cfg config.Config, log logrus.FieldLogger, paths ...string) (pipeline.Report, error) {
	if log == nil {
		log = discardLogger()
	}
	if len(paths) == 0 {
		paths = cfg.Inputs
	}

	p, err := pipeline.FromConfig(cfg, log, nil)
	if err != nil {
		return pipeline.Report{}, err
	}
	return p.Run(ctx, paths), nil
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
