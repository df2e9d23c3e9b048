package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"go.viam.com/legacyimage/config"
	"go.viam.com/legacyimage/logging"
)

// imgconvClient carries what every command needs: the merged config and loggers that write to
// the app's error stream.
type imgconvClient struct {
	c            *cli.Context
	conf         *config.Config
	registry     *logging.Registry
	logger       logging.Logger
	decodeLogger logging.Logger
	logFile      *logging.FileAppender
}

func newImgconvClient(c *cli.Context) (*imgconvClient, error) {
	logger := logging.NewBlankLogger("imgconv")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	config.InitLoggingSettings(logger, c.Bool(debugFlag))

	registry := logging.NewRegistry(logging.INFO)
	logger = registry.GetOrRegister("imgconv", logger)

	var conf *config.Config
	if path := c.String(configFlag); path != "" {
		var err error
		conf, err = config.Read(c.Context, path, logger)
		if err != nil {
			return nil, err
		}
	} else {
		conf = &config.Config{}
		if err := conf.Ensure(); err != nil {
			return nil, err
		}
	}
	config.UpdateFileConfigDebug(conf.Debug)
	registry.UpdateConfig(conf.LogConfig, logger)

	if err := applyTransformFlags(c, conf); err != nil {
		return nil, err
	}

	ic := &imgconvClient{c: c, conf: conf, registry: registry, logger: logger}
	if lf := conf.LogFile; lf != nil {
		ic.logFile = logging.NewFileAppender(lf.Path, lf.MaxSizeMB, lf.MaxBackups, lf.Compress)
		logger.AddAppender(ic.logFile)
	}
	ic.decodeLogger = ic.sublogger("decode")
	return ic, nil
}

// close releases the log file, if the config named one.
func (ic *imgconvClient) close() {
	if ic.logFile != nil {
		goutils.UncheckedError(ic.logFile.Close())
	}
}

// sublogger returns the registered logger "imgconv.<name>", creating it on first use.
func (ic *imgconvClient) sublogger(name string) logging.Logger {
	return ic.registry.GetOrRegister("imgconv."+name, ic.logger.Sublogger(name))
}

// applyTransformFlags overrides the config with whichever transform flags the command was
// given, then revalidates it.
func applyTransformFlags(c *cli.Context, conf *config.Config) error {
	if c.IsSet(formatFlag) {
		conf.OutputFormat = c.String(formatFlag)
	}
	if c.IsSet(resizeFlag) {
		width, height, err := config.ParseDimensions(c.String(resizeFlag))
		if err != nil {
			return errors.Wrapf(err, "--%s", resizeFlag)
		}
		interpolation := ""
		if conf.Resize != nil {
			interpolation = conf.Resize.Interpolation
		}
		conf.Resize = &config.ResizeConfig{Width: width, Height: height, Interpolation: interpolation}
	}
	if c.IsSet(interpolationFlag) {
		if conf.Resize == nil {
			return errors.Errorf("--%s needs --%s", interpolationFlag, resizeFlag)
		}
		conf.Resize.Interpolation = c.String(interpolationFlag)
	}
	if c.IsSet(blurFlag) {
		conf.Blur = &config.BlurConfig{Size: c.Uint(blurFlag)}
	}
	if c.Bool(flipHFlag) {
		conf.FlipH = true
	}
	if c.Bool(flipVFlag) {
		conf.FlipV = true
	}
	if c.IsSet(parallelFlag) {
		conf.Parallelism = c.Int(parallelFlag)
	}
	return conf.Ensure()
}

func (ic *imgconvClient) ctx() context.Context {
	ctx := ic.c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if ic.c.Bool(traceFlag) {
		ctx = logging.EnableDebugMode(ctx, "")
	}
	return ctx
}
