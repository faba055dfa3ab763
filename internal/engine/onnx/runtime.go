package onnx

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	runtimeOnce sync.Once
	runtimeErr  error
)

// initRuntime loads the onnxruntime shared library once per process.
// Later calls with a different library path have no effect.
func initRuntime(libraryPath string) error {
	runtimeOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			runtimeErr = fmt.Errorf("failed to initialize onnxruntime: %w", err)
		}
	})
	return runtimeErr
}

// session is one inference graph with named inputs and discovered outputs.
type session struct {
	name    string
	inner   *ort.DynamicAdvancedSession
	outputs []string
}

func newSession(dir, file string, inputs []string, opts *ort.SessionOptions) (*session, error) {
	path := filepath.Join(dir, file)

	_, outInfo, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", file, err)
	}
	if len(outInfo) == 0 {
		return nil, fmt.Errorf("%s declares no outputs", file)
	}

	outputs := make([]string, len(outInfo))
	for i, info := range outInfo {
		outputs[i] = info.Name
	}

	inner, err := ort.NewDynamicAdvancedSession(path, inputs, outputs, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file, err)
	}

	return &session{name: file, inner: inner, outputs: outputs}, nil
}

// run executes the graph and returns its first output. The caller owns the
// returned tensor and must Destroy it.
func (s *session) run(inputs ...ort.Value) (*ort.Tensor[float32], error) {
	outputs := make([]ort.Value, len(s.outputs))
	if err := s.inner.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}

	for _, extra := range outputs[1:] {
		if extra != nil {
			_ = extra.Destroy()
		}
	}

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		if outputs[0] != nil {
			_ = outputs[0].Destroy()
		}
		return nil, fmt.Errorf("%w: %s output %q is not float32", ErrUnexpectedShape, s.name, s.outputs[0])
	}

	return out, nil
}

func (s *session) destroy() error {
	if s == nil || s.inner == nil {
		return nil
	}
	return s.inner.Destroy()
}
