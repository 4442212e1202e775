package cliContext

type Context struct {
	Debug    bool    `env:"TRANSPAL_DEBUG,DEBUG" default:"false" hidden:"" help:"Shortcut for --log-level=debug"`
	LogLevel *string `env:"TRANSPAL_LOG_LEVEL" enum:"error,warn,info,debug,trace" help:"Set the level of logs to output [${enum}]"`
}
