package cli

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/utils"
)

// BatchAction is the corresponding Action for 'batch'.
func BatchAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("batch needs at least one FILE")
	}
	client, err := newImgconvClient(c)
	if err != nil {
		return err
	}
	defer client.close()
	outDir := c.String(outDirFlag)
	logger := client.sublogger("batch")
	inputs := c.Args().Slice()

	var (
		converted atomic.Int64
		failed    atomic.Int64
		errMu     sync.Mutex
		batchErr  error
	)
	funcs := make([]utils.SimpleFunc, 0, len(inputs))
	for _, in := range inputs {
		in := in
		funcs = append(funcs, func(ctx context.Context) error {
			err := client.convertInto(ctx, in, outDir, logger)
			if err != nil {
				failed.Inc()
				logger.Warnw("conversion failed", "file", in, "error", err)
				errMu.Lock()
				batchErr = multierr.Append(batchErr, err)
				errMu.Unlock()
				return nil
			}
			converted.Inc()
			return nil
		})
	}

	logger.Debugw("starting batch", "files", len(inputs), "parallelism", client.conf.Parallelism)
	elapsed, err := utils.RunInParallelLimit(client.ctx(), client.conf.Parallelism, funcs)
	if err != nil {
		return err
	}

	infof(c.App.Writer, "converted %s in %s, %d failed", plural(int(converted.Load()), "file"), elapsed, failed.Load())
	return batchErr
}

func (ic *imgconvClient) convertInto(ctx context.Context, in, outDir string, logger logging.Logger) error {
	out, err := outputPath(outDir, in, ic.conf)
	if err != nil {
		return err
	}
	return convertFile(ctx, in, out, ic.conf, logger, ic.decodeLogger)
}
