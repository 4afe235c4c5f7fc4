// sftpbridge - SFTP file transfer client.
package main

import (
	"os"

	"github.com/Pythax76/sftpbridge/internal/cli"
	"github.com/Pythax76/sftpbridge/internal/version"
)

// Version information, overridden at release time via
// -ldflags "-X main.Version=... -X main.BuildTime=...".
var (
	Version   = "v1.0.0"
	BuildTime = "2026-08-31"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
