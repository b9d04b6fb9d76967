package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/taskclaw/internal/config"
	"github.com/nibzard/taskclaw/internal/task"
)

// codec encodes a whole snapshot as one document.
type codec interface {
	Marshal(task.Snapshot) ([]byte, error)
	Unmarshal([]byte, *task.Snapshot) error
}

func codecFor(format string) (codec, error) {
	switch format {
	case config.FormatJSON:
		return jsonCodec{}, nil
	case config.FormatYAML:
		return yamlCodec{}, nil
	case config.FormatTOML:
		return tomlCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported data format %q", format)
	}
}

type jsonCodec struct{}

func (jsonCodec) Marshal(s task.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte, s *task.Snapshot) error {
	return json.Unmarshal(data, s)
}

type yamlCodec struct{}

func (yamlCodec) Marshal(s task.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte, s *task.Snapshot) error {
	return yaml.Unmarshal(data, s)
}

type tomlCodec struct{}

func (tomlCodec) Marshal(s task.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (tomlCodec) Unmarshal(data []byte, s *task.Snapshot) error {
	_, err := toml.Decode(string(data), s)
	return err
}
