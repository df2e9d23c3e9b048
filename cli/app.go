package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	configFlag = "config"
	debugFlag  = "debug"
	traceFlag  = "trace"

	outputFlag        = "output"
	formatFlag        = "format"
	resizeFlag        = "resize"
	interpolationFlag = "interpolation"
	blurFlag          = "blur"
	flipHFlag         = "flip-h"
	flipVFlag         = "flip-v"
	outDirFlag        = "out-dir"
	parallelFlag      = "parallel"
	debounceFlag      = "debounce"

	generateFlagKind      = "kind"
	generateFlagSize      = "size"
	generateFlagFrom      = "from"
	generateFlagTo        = "to"
	generateFlagDirection = "direction"

	generateKindGrid     = "grid"
	generateKindGradient = "gradient"
)

var transformFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  formatFlag,
		Usage: "output format: tga, png, qoi, ppm or bmp",
	},
	&cli.StringFlag{
		Name:  resizeFlag,
		Usage: "resize to `WxH` before writing",
	},
	&cli.StringFlag{
		Name:  interpolationFlag,
		Usage: "resize interpolation: nearest, bilinear or lanczos3",
	},
	&cli.UintFlag{
		Name:  blurFlag,
		Usage: "box blur with a kernel of `N`xN pixels",
	},
	&cli.BoolFlag{
		Name:  flipHFlag,
		Usage: "mirror left to right",
	},
	&cli.BoolFlag{
		Name:  flipVFlag,
		Usage: "mirror top to bottom",
	},
}

var app = &cli.App{
	Name:            "imgconv",
	Usage:           "inspect and convert PCX, TGA and Netpbm images",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.BoolFlag{
			Name:  traceFlag,
			Usage: "log debug lines for each file read and converted, whatever the configured levels",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "info",
			Usage:     "decode images and print their properties",
			ArgsUsage: "FILE...",
			Action:    InfoAction,
		},
		{
			Name:      "convert",
			Usage:     "convert a single image",
			ArgsUsage: "INPUT",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     outputFlag,
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "write the converted image to `FILE`",
				},
			}, transformFlags...),
			Action: ConvertAction,
		},
		{
			Name:      "batch",
			Usage:     "convert many images in parallel",
			ArgsUsage: "FILE...",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     outDirFlag,
					Required: true,
					Usage:    "write converted images into `DIR`",
				},
				&cli.IntFlag{
					Name:  parallelFlag,
					Usage: "number of images converted at once",
				},
			}, transformFlags...),
			Action: BatchAction,
		},
		{
			Name:      "watch",
			Usage:     "convert images as they appear in directories",
			ArgsUsage: "DIR...",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  outDirFlag,
					Usage: "write converted images into `DIR`",
				},
				&cli.DurationFlag{
					Name:  debounceFlag,
					Usage: "wait this long after the last change to a file before converting it",
				},
			}, transformFlags...),
			Action: WatchAction,
		},
		{
			Name:  "generate",
			Usage: "write a generated test image",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     outputFlag,
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "write the image to `FILE`",
				},
				&cli.StringFlag{
					Name:  formatFlag,
					Usage: "output format, defaults to the output extension",
				},
				&cli.StringFlag{
					Name:  generateFlagKind,
					Value: generateKindGrid,
					Usage: "grid or gradient",
				},
				&cli.StringFlag{
					Name:  generateFlagSize,
					Value: "64x64",
					Usage: "image size as `WxH`",
				},
				&cli.StringFlag{
					Name:  generateFlagFrom,
					Value: "#000000",
					Usage: "gradient start color",
				},
				&cli.StringFlag{
					Name:  generateFlagTo,
					Value: "#ffffff",
					Usage: "gradient end color",
				},
				&cli.StringFlag{
					Name:  generateFlagDirection,
					Value: "horizontal",
					Usage: "gradient direction: horizontal or vertical",
				},
			},
			Action: GenerateAction,
		},
		{
			Name:   "version",
			Usage:  "print version info for this program",
			Action: VersionAction,
		},
	},
}

// NewApp returns a new app with the CLI function set.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
