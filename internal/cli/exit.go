package cli

import "github.com/kailas-cloud/searchdemo/internal/domain"

// Exit codes by error kind.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitValidation    = 3
	ExitService       = 4
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch domain.KindOf(err) {
	case domain.KindConfiguration:
		return ExitConfiguration
	case domain.KindValidation, domain.KindSchema:
		return ExitValidation
	case domain.KindService, domain.KindUnauthorized:
		return ExitService
	default:
		return ExitFailure
	}
}
