package cli

import (
	cliContext "github.com/transpal/transpal-bot/core/cli/context"
)

var CLI struct {
	cliContext.Context `embed:""`

	Run        RunCMD        `cmd:"" help:"Connect to the chat channel and process shared media files. This is the default command" default:"withargs"`
	Transcript TranscriptCMD `cmd:"" help:"Run the transcription pipeline once against a local file or URL and print the result JSON"`
}
