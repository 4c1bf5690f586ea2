// Package config loads the client and server HTTPSettings from a YAML
// file, the same load-then-expand-then-unmarshal pipeline the teacher's
// internal/config.Load used for its providers.yaml: read the file,
// expand ${VAR} references against the process environment (so secrets
// like auth headers never need to live in the file itself), then
// unmarshal into the settings types rpc/client and rpc/server already
// define. Sentinel zero-values mean "unset" exactly as spec section 6
// specifies — this package does not invent its own defaulting beyond
// what rpcclient.HTTPSettings/rpcserver.HTTPSettings already apply.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	rpcclient "github.com/dmagro/jrpcgo/rpc/client"
	rpcserver "github.com/dmagro/jrpcgo/rpc/server"
)

// File is the top-level shape of the YAML configuration document: a
// client section and a server section, either of which may be omitted
// if the binary only plays one role.
type File struct {
	Client ClientSettings `yaml:"client"`
	Server ServerSettings `yaml:"server"`
}

// ClientSettings mirrors rpcclient.HTTPSettings field-for-field so YAML
// unmarshals directly into it before being copied across.
type ClientSettings struct {
	URL            string            `yaml:"url"`
	Headers        map[string]string `yaml:"headers"`
	PipelineLength uint32            `yaml:"pipeline_length"`
	TimeoutMS      uint32            `yaml:"timeout_ms"`
	TimeToLiveMS   uint32            `yaml:"time_to_live_ms"`
	ThreadPoolSize uint32            `yaml:"thread_pool_size"`
}

// ServerSettings mirrors rpcserver.HTTPSettings field-for-field.
type ServerSettings struct {
	Port           uint16 `yaml:"port"`
	TimeoutMS      uint32 `yaml:"timeout_ms"`
	ThreadPoolSize uint32 `yaml:"thread_pool_size"`
}

// Load reads path, expands ${VAR} references against the environment
// (os.ExpandEnv, the same mechanism the teacher's config.Load uses for
// provider URLs carrying API keys) and parses the result as a File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ClientHTTPSettings converts the loaded ClientSettings to the type
// rpc/client actually consumes.
func (f *File) ClientHTTPSettings() rpcclient.HTTPSettings {
	return rpcclient.HTTPSettings{
		URL:            f.Client.URL,
		Headers:        f.Client.Headers,
		PipelineLength: f.Client.PipelineLength,
		TimeoutMS:      f.Client.TimeoutMS,
		TimeToLiveMS:   f.Client.TimeToLiveMS,
		ThreadPoolSize: f.Client.ThreadPoolSize,
	}
}

// ServerHTTPSettings converts the loaded ServerSettings to the type
// rpc/server actually consumes.
func (f *File) ServerHTTPSettings() rpcserver.HTTPSettings {
	return rpcserver.HTTPSettings{
		Port:           f.Server.Port,
		TimeoutMS:      f.Server.TimeoutMS,
		ThreadPoolSize: f.Server.ThreadPoolSize,
	}
}
