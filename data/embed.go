package data

import "embed"

var (
	//go:embed config.yaml
	Config embed.FS
)
