package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/legacyimage/config"
	"go.viam.com/legacyimage/utils"
)

// ConvertAction is the corresponding Action for 'convert'.
func ConvertAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("convert needs exactly one INPUT")
	}
	client, err := newImgconvClient(c)
	if err != nil {
		return err
	}
	defer client.close()
	in := c.Args().First()
	out := c.String(outputFlag)

	// Without --format the output extension picks the encoder when it names one.
	if !c.IsSet(formatFlag) {
		if format, ok := formatForFileName(out); ok {
			client.conf.OutputFormat = format
		}
	}

	if err := convertFile(client.ctx(), in, out, client.conf, client.sublogger("convert"), client.decodeLogger); err != nil {
		return err
	}
	infof(c.App.Writer, "wrote %s", out)
	return nil
}

// formatForFileName returns the output format name matching the extension of name.
func formatForFileName(name string) (string, bool) {
	mimeType := utils.MimeTypeFromFileName(name)
	for _, format := range config.OutputFormats() {
		if formatMime, _ := config.MimeTypeForFormat(format); formatMime == mimeType {
			return format, true
		}
	}
	return "", false
}
