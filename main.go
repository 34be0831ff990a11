package main

import (
	"github.com/williamokano/aws_config/pkg/cli"
	"github.com/williamokano/aws_config/pkg/logger"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		logger.Get().Fatal().Err(err).Msg("command failed")
	}
}
