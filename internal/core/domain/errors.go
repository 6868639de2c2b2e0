package domain

import "go.trai.ch/zerr"

var (
	// ErrMetadataNotFound is returned when no compile_commands.json can be located for the project.
	ErrMetadataNotFound = zerr.New("could not find compile_commands.json")

	// ErrMetadataReadFailed is returned when the build metadata file cannot be read.
	ErrMetadataReadFailed = zerr.New("failed to read build metadata")

	// ErrMetadataParseFailed is returned when the build metadata is not a JSON array of records.
	ErrMetadataParseFailed = zerr.New("failed to parse build metadata")

	// ErrGeneratorFailed is returned when the configured metadata generator exits unsuccessfully.
	ErrGeneratorFailed = zerr.New("metadata generator failed")

	// ErrSynthesisFailed marks every error that prevents an instance from being created.
	// Such failures are never cached and are retried on the next request.
	ErrSynthesisFailed = zerr.New("failed to synthesize assembly command")

	// ErrPathResolveFailed is returned when a requested path cannot be made canonical.
	ErrPathResolveFailed = zerr.New("failed to resolve canonical path")

	// ErrRecordNotFound is returned when a file is not tracked by the build metadata.
	ErrRecordNotFound = zerr.New("file not found in build metadata")

	// ErrEmptyCommand is returned when a build record has no compiler invocation.
	ErrEmptyCommand = zerr.New("build record has no command")

	// ErrEmitFlagMissing is returned when a rustc invocation has no --emit flag to rewrite.
	ErrEmitFlagMissing = zerr.New("rustc command has no --emit flag")

	// ErrOutputFlagMalformed is returned when a -o flag is not followed by a path.
	ErrOutputFlagMalformed = zerr.New("-o flag is missing its path")

	// ErrCompileFailed is returned when the assembly could not be (re)generated.
	ErrCompileFailed = zerr.New("failed to compile filtered assembly")

	// ErrSourceStatFailed is returned when the source file's modification time cannot be read.
	ErrSourceStatFailed = zerr.New("failed to stat source file")

	// ErrBufferOverflow is returned when the filtered assembly exceeds the configured maximum.
	ErrBufferOverflow = zerr.New("assembly buffer limit exceeded")

	// ErrLabelNotFound is returned when the requested label is absent from the filtered assembly.
	ErrLabelNotFound = zerr.New("label not found in assembly output")

	// ErrNoAssembly is returned when an instance is queried before any successful compile.
	ErrNoAssembly = zerr.New("no assembly available")

	// ErrInvalidRequest is returned for a request line that names no file.
	ErrInvalidRequest = zerr.New("invalid request format")

	// ErrRequestTooLarge is returned when a request line exceeds the configured limit.
	ErrRequestTooLarge = zerr.New("request line too long")

	// ErrSocketSetupFailed is returned when the daemon socket cannot be created.
	ErrSocketSetupFailed = zerr.New("failed to set up daemon socket")

	// ErrTransportFailed is returned when reading from or writing to the client fails.
	ErrTransportFailed = zerr.New("client transport failed")

	// ErrPayloadTooLarge is returned when a response does not fit the frame header.
	ErrPayloadTooLarge = zerr.New("response payload exceeds frame limit")

	// ErrDaemonUnreachable is returned when a client cannot connect to the daemon socket.
	ErrDaemonUnreachable = zerr.New("daemon socket is not reachable")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidFormat is returned for an unknown response format.
	ErrInvalidFormat = zerr.New("invalid response format, expected 'raw' or 'json'")
)
