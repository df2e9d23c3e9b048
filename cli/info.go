package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/rimage/codec"
	"go.viam.com/legacyimage/rimage/tga"
	"go.viam.com/legacyimage/utils"
)

// InfoAction is the corresponding Action for 'info'.
func InfoAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("info needs at least one FILE")
	}
	client, err := newImgconvClient(c)
	if err != nil {
		return err
	}
	defer client.close()

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Format", "Dimensions", "Pixels", "File Size", "Mean RGB", "Stddev RGB", "TGA 2.0"})

	var notes []string
	var combinedErr error
	for _, path := range c.Args().Slice() {
		row, note, err := client.describe(path)
		if err != nil {
			warningf(c.App.ErrWriter, "%v", err)
			combinedErr = multierr.Append(combinedErr, err)
			continue
		}
		t.AppendRow(row)
		if note != "" {
			notes = append(notes, note)
		}
	}
	if t.Length() > 0 {
		t.Render()
	}
	for _, note := range notes {
		printf(c.App.Writer, "%s", note)
	}
	return combinedErr
}

func (ic *imgconvClient) describe(path string) (table.Row, string, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading %q", path)
	}
	format := codec.FormatFromFileName(path)
	if format == codec.FormatUnknown {
		format = codec.Sniff(data)
	}
	if format == codec.FormatUnknown {
		return nil, "", utils.NewUnknownFormatError(path)
	}
	b, err := codec.Decode(format, data, ic.decodeLogger)
	if err != nil {
		return nil, "", errors.Wrapf(err, "decoding %q", path)
	}

	mean, stddev := channelStats(b)
	footer, note := "-", ""
	if format == codec.FormatTGA {
		footer = "no"
		if f, ok := tga.ParseFooter(data); ok {
			footer = "yes"
			if ext, ok := tga.ParseExtension(data, f); ok {
				note = describeExtension(filepath.Base(path), ext)
			}
		}
	}
	return table.Row{
		filepath.Base(path),
		format.String(),
		fmt.Sprintf("%dx%d", b.Width, b.Height),
		units.HumanSize(float64(len(b.Pix))),
		units.HumanSize(float64(len(data))),
		mean,
		stddev,
		footer,
	}, note, nil
}

// channelStats returns the per channel mean and standard deviation of b formatted for the
// table. Empty bitmaps have neither.
func channelStats(b *rimage.Bitmap) (string, string) {
	n := len(b.Pix) / rimage.PixelSize
	if n == 0 {
		return "-", "-"
	}
	channels := make([]stats.Float64Data, rimage.PixelSize)
	for ch := range channels {
		channels[ch] = make(stats.Float64Data, 0, n)
	}
	for i, v := range b.Pix {
		ch := i % rimage.PixelSize
		channels[ch] = append(channels[ch], float64(v))
	}

	means := make([]string, 0, rimage.PixelSize)
	devs := make([]string, 0, rimage.PixelSize)
	for _, data := range channels {
		mean, err := stats.Mean(data)
		if err != nil {
			return "-", "-"
		}
		dev, err := stats.StandardDeviation(data)
		if err != nil {
			return "-", "-"
		}
		means = append(means, fmt.Sprintf("%.1f", mean))
		devs = append(devs, fmt.Sprintf("%.1f", dev))
	}
	return strings.Join(means, "/"), strings.Join(devs, "/")
}

func describeExtension(name string, ext tga.Extension) string {
	parts := []string{fmt.Sprintf("alpha %s", ext.Alpha)}
	if ext.Author != "" {
		parts = append(parts, fmt.Sprintf("author %q", ext.Author))
	}
	if ext.SoftwareID != "" {
		parts = append(parts, fmt.Sprintf("software %q", ext.SoftwareID))
	}
	if ext.JobName != "" {
		parts = append(parts, fmt.Sprintf("job %q", ext.JobName))
	}
	if !ext.Created.IsZero() {
		parts = append(parts, "created "+ext.Created.Format("2006-01-02 15:04:05"))
	}
	return fmt.Sprintf("%s: %s", name, strings.Join(parts, ", "))
}
