package yaml

import (
	"testing"

	yamlv3 "gopkg.in/yaml.v3"
)

// Comparison benchmarks against gopkg.in/yaml.v3
// NOTE: yaml.v3 is a test-only dependency, NOT included in releases

var testData = `name: BenchmarkTest
version: "1.0.0"
enabled: true
count: 42`

var mergeData = `defaults: &defaults
  adapter: postgres
  host: localhost
  pool: 5
development:
  <<: *defaults
  database: dev
production:
  <<: *defaults
  host: db.internal
  database: prod
`

type ComparisonConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Enabled bool   `yaml:"enabled"`
	Count   int    `yaml:"count"`
}

// ============================================================================
// yamlgraph
// ============================================================================

func BenchmarkYamlgraph_Unmarshal(b *testing.B) {
	data := []byte(testData)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cfg ComparisonConfig
		if err := Unmarshal(data, &cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkYamlgraph_Merges(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseValue(mergeData); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// gopkg.in/yaml.v3
// ============================================================================

func BenchmarkStdYAML_Unmarshal(b *testing.B) {
	data := []byte(testData)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cfg ComparisonConfig
		if err := yamlv3.Unmarshal(data, &cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStdYAML_Merges(b *testing.B) {
	data := []byte(mergeData)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v interface{}
		if err := yamlv3.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}
