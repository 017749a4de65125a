package adapters

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"bsp-config/internal/ports"
	"bsp-config/internal/types"
)

// Artifact file names written into the output directory.
const (
	RegistrySourceFile  = "reg_impl_data.c"
	RegistryDefinesFile = "reg_impl_defines.h"
	ConfigHeaderFile    = "nucleus_gen_cfg.h"
	ResolvedReportFile  = "config.resolved.yaml"
)

type OutputFileAdapter struct {
	Dir       string
	PoolWidth int
}

func NewOutputFileAdapter(dir string, poolWidth int) OutputFileAdapter {
	if poolWidth <= 0 {
		poolWidth = DefaultPoolWidth
	}
	return OutputFileAdapter{Dir: dir, PoolWidth: poolWidth}
}

func (a OutputFileAdapter) WriteRegistry(artifact types.RegistryArtifact) error {
	if err := a.writeFile(RegistrySourceFile, func(w io.Writer) error {
		return renderRegistrySource(w, artifact, a.PoolWidth)
	}); err != nil {
		return err
	}
	return a.writeFile(RegistryDefinesFile, func(w io.Writer) error {
		return renderRegistryDefines(w, artifact.Defines)
	})
}

func (a OutputFileAdapter) WriteConfigHeader(symbols []types.ConfigSymbol) error {
	return a.writeFile(ConfigHeaderFile, func(w io.Writer) error {
		return renderConfigHeader(w, symbols)
	})
}

func (a OutputFileAdapter) WriteResolvedReport(settings []types.ResolvedSetting) error {
	return a.writeFile(ResolvedReportFile, func(w io.Writer) error {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(settings); err != nil {
			return err
		}
		return encoder.Close()
	})
}

// writeFile creates filename in the output directory and hands a buffered
// writer to render. The file is flushed and closed on every path.
func (a OutputFileAdapter) writeFile(filename string, render func(w io.Writer) error) (err error) {
	path, err := a.ensurePath(filename)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create " + filename).
			WithCause(err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to close " + filename).
				WithCause(closeErr)
		}
	}()
	buffered := bufio.NewWriter(file)
	if err := render(buffered); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + filename).
			WithCause(err)
	}
	if err := buffered.Flush(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to flush " + filename).
			WithCause(err)
	}
	return nil
}

func (a OutputFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

var _ ports.OutputPort = OutputFileAdapter{}
