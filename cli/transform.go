package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/legacyimage/config"
	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/rimage/codec"
	"go.viam.com/legacyimage/utils"
)

// applyTransforms runs resize, then blur, then the flips configured in conf over b.
func applyTransforms(b *rimage.Bitmap, conf *config.Config) (*rimage.Bitmap, error) {
	if rc := conf.Resize; rc != nil {
		b = resizeBitmap(b, rc)
	}
	if bc := conf.Blur; bc != nil {
		blurred, err := rimage.BoxBlur(b, bc.Size)
		if err != nil {
			return nil, errors.Wrap(err, "blurring")
		}
		b = blurred
	}
	if conf.FlipH && b.Width > 0 && b.Height > 0 {
		b = rimage.BitmapFromImage(imaging.FlipH(b))
	}
	if conf.FlipV && b.Width > 0 && b.Height > 0 {
		b = rimage.BitmapFromImage(imaging.FlipV(b))
	}
	return b, nil
}

func resizeBitmap(b *rimage.Bitmap, rc *config.ResizeConfig) *rimage.Bitmap {
	if b.Width == 0 || b.Height == 0 {
		return rimage.ResizePointSampled(b, rc.Width, rc.Height)
	}
	switch rc.Interpolation {
	case config.InterpolationBilinear:
		return rimage.BitmapFromImage(resize.Resize(rc.Width, rc.Height, b, resize.Bilinear))
	case config.InterpolationLanczos3:
		return rimage.BitmapFromImage(resize.Resize(rc.Width, rc.Height, b, resize.Lanczos3))
	default:
		return rimage.ResizePointSampled(b, rc.Width, rc.Height)
	}
}

// convertFile decodes in, transforms it and writes it to out in the configured format.
// Decoder diagnostics go to decodeLogger.
func convertFile(
	ctx context.Context,
	in, out string,
	conf *config.Config,
	logger, decodeLogger logging.Logger,
) error {
	defer utils.SlowLogger(ctx, "still converting", "file", in, logger)()

	b, format, err := codec.ReadFile(ctx, in, decodeLogger)
	if err != nil {
		return err
	}
	b, err = applyTransforms(b, conf)
	if err != nil {
		return errors.Wrapf(err, "transforming %q", in)
	}
	if err := writeBitmap(ctx, out, conf.MimeType(), b); err != nil {
		return err
	}
	logger.CDebugw(ctx, "converted", "in", in, "from", format.String(), "out", out, "to", conf.OutputFormat)
	return nil
}

func writeBitmap(ctx context.Context, path, mimeType string, b *rimage.Bitmap) (err error) {
	data, err := codec.EncodeImage(ctx, b, mimeType)
	if err != nil {
		return errors.Wrapf(err, "encoding %q", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.Wrapf(err, "creating %q", dir)
		}
	}

	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %q", path)
	}
	guard := utils.NewGuard(func() { utils.RemoveFileNoError(path) })
	defer guard.OnFail()
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	if _, err := f.Write(data); err != nil {
		return errors.Wrapf(err, "writing %q", path)
	}
	guard.Success()
	return nil
}

// outputPath names the converted copy of in inside outDir.
func outputPath(outDir, in string, conf *config.Config) (string, error) {
	ext, ok := utils.ExtensionForMimeType(conf.MimeType())
	if !ok {
		return "", utils.NewUnsupportedMimeTypeError(conf.MimeType())
	}
	absDir, err := filepath.Abs(outDir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %q", outDir)
	}
	return utils.SafeJoinDir(absDir, utils.ReplaceExtension(in, ext))
}
