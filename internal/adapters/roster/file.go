package roster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/ports"
	"gopkg.in/yaml.v3"
)

// FileSource implementa ports.RosterSource leyendo un fichero YAML.
type FileSource struct {
	path string
}

var _ ports.RosterSource = (*FileSource)(nil)

// NewFileSource crea una fuente para el fichero indicado.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// LoadRoster lee y convierte el fichero.
func (f *FileSource) LoadRoster(ctx context.Context) (domain.RosterSnapshot, []domain.Fixture, error) {
	if err := ctx.Err(); err != nil {
		return domain.RosterSnapshot{}, nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return domain.RosterSnapshot{}, nil, fmt.Errorf("roster.LoadRoster: read %s: %w", f.path, err)
	}
	snap, fixtures, err := Parse(data)
	if err != nil {
		return domain.RosterSnapshot{}, nil, fmt.Errorf("roster.LoadRoster: %s: %w", f.path, err)
	}
	return snap, fixtures, nil
}

// Parse decodifica un documento YAML. Los campos desconocidos son error:
// una errata en una clave no debe pasar en silencio.
func Parse(data []byte) (domain.RosterSnapshot, []domain.Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw rosterFile
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.RosterSnapshot{}, nil, domain.NewValidationError("roster", "empty document")
		}
		return domain.RosterSnapshot{}, nil, domain.NewValidationError("roster", "decode yaml: %v", err)
	}
	return mapRoster(raw)
}
