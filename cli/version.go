package cli

import (
	"runtime/debug"

	"github.com/urfave/cli/v2"

	"go.viam.com/legacyimage/config"
)

// VersionAction is the corresponding Action for 'version'.
func VersionAction(c *cli.Context) error {
	version := config.Version
	if version == "" {
		version = "(devel)"
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	printf(c.App.Writer, "imgconv %s", version)
	return nil
}
