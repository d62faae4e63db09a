package tiny

import (
	"context"
	"os"
)

// Source supplies program text to the engine. Load is called again for
// every retry, so an interactive source can hand back edited text.
type Source interface {
	Name() string
	Load(ctx context.Context) (string, error)
}

type stringSource struct {
	name, text string
}

func (s stringSource) Name() string                         { return s.name }
func (s stringSource) Load(context.Context) (string, error) { return s.text, nil }

// StringSource returns a source for in-memory text
func StringSource(text string) Source {
	return stringSource{name: "<input>", text: text}
}

// NamedStringSource returns an in-memory source with a display name
func NamedStringSource(name, text string) Source {
	return stringSource{name: name, text: text}
}

type fileSource string

func (f fileSource) Name() string { return string(f) }

func (f fileSource) Load(context.Context) (string, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileSource returns a source that reads path on every load
func FileSource(path string) Source {
	return fileSource(path)
}

type funcSource struct {
	name string
	fn   func(ctx context.Context) (string, error)
}

func (s funcSource) Name() string                             { return s.name }
func (s funcSource) Load(ctx context.Context) (string, error) { return s.fn(ctx) }

// SourceFunc adapts a function to the Source interface
func SourceFunc(name string, fn func(ctx context.Context) (string, error)) Source {
	return funcSource{name: name, fn: fn}
}
