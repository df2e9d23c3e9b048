package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/legacyimage/config"
	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/utils"
)

// GenerateAction is the corresponding Action for 'generate'.
func GenerateAction(c *cli.Context) error {
	width, height, err := config.ParseDimensions(c.String(generateFlagSize))
	if err != nil {
		return errors.Wrapf(err, "--%s", generateFlagSize)
	}
	out := c.String(outputFlag)

	var mimeType string
	if c.IsSet(formatFlag) {
		var ok bool
		if mimeType, ok = config.MimeTypeForFormat(c.String(formatFlag)); !ok {
			return errors.Errorf("unknown format %q", c.String(formatFlag))
		}
	} else if mimeType = utils.MimeTypeFromFileName(out); mimeType == "" {
		return utils.NewUnknownFormatError(out)
	}

	var b *rimage.Bitmap
	switch kind := c.String(generateFlagKind); kind {
	case generateKindGrid:
		b = rimage.NewGridTexture(width, height)
	case generateKindGradient:
		from, err := rimage.NewColorFromHex(c.String(generateFlagFrom))
		if err != nil {
			return err
		}
		to, err := rimage.NewColorFromHex(c.String(generateFlagTo))
		if err != nil {
			return err
		}
		dir, err := rimage.GradientDirectionFromString(c.String(generateFlagDirection))
		if err != nil {
			return err
		}
		b = rimage.NewLinearGradient(width, height, from, to, dir)
	default:
		return errors.Errorf("unknown kind %q, expected %s or %s", kind, generateKindGrid, generateKindGradient)
	}

	if err := writeBitmap(c.Context, out, mimeType, b); err != nil {
		return err
	}
	infof(c.App.Writer, "wrote %dx%d %s to %s", width, height, c.String(generateFlagKind), out)
	return nil
}
