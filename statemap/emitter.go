package statemap

import (
	"encoding/json"

	"github.com/minio/highwayhash"
	"gopkg.in/yaml.v3"
)

// Emitter serializes an analysis graph for downstream consumers. Id
// references are preserved exactly; consumers resolve display names through
// the component and state-node maps.
type Emitter interface {
	Emit(graph *Graph) ([]byte, error)
}

// JSONEmitter emits the graph as JSON, optionally indented.
type JSONEmitter struct {
	Indent bool
}

func (e *JSONEmitter) Emit(graph *Graph) ([]byte, error) {
	if e.Indent {
		return json.MarshalIndent(graph, "", "  ")
	}
	return json.Marshal(graph)
}

// YAMLEmitter emits the graph as YAML.
type YAMLEmitter struct{}

func (e *YAMLEmitter) Emit(graph *Graph) ([]byte, error) {
	return yaml.Marshal(graph)
}

var fingerprintKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Fingerprint hashes the serialized graph so watch-mode consumers can tell
// whether a rerun changed anything without diffing the whole structure.
func Fingerprint(graph *Graph) (uint64, error) {
	data, err := (&JSONEmitter{}).Emit(graph)
	if err != nil {
		return 0, err
	}
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	if _, err := hash.Write(data); err != nil {
		return 0, err
	}
	return hash.Sum64(), nil
}
