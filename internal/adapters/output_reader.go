package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"bsp-config/internal/ports"
	"bsp-config/internal/types"
)

type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

// ReadResolvedReport loads a report written by WriteResolvedReport.
func (a OutputReaderAdapter) ReadResolvedReport(path string) ([]types.ResolvedSetting, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(ResolvedReportFile + " not found").
			WithCause(err)
	}
	var settings []types.ResolvedSetting
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid " + ResolvedReportFile + " format").
			WithCause(err)
	}
	for _, setting := range settings {
		if setting.Key == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(ResolvedReportFile + " entry missing key")
		}
	}
	return settings, nil
}

var _ ports.OutputReaderPort = OutputReaderAdapter{}
