// Package provenance provides field-level tracking of which source supplied
// each customer value and which later values were ignored.
package provenance

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/save"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// Event describes what happened to a field value.
type Event string

// Provenance events.
const (
	// EventSet marks the value that was kept.
	EventSet Event = "set"
	// EventIgnored marks a differing value from a later source.
	EventIgnored Event = "ignored"
)

// Provenance tracks the origin of one field value.
type Provenance struct {
	Source    sources.ID `yaml:"source" json:"source"`
	Field     string     `yaml:"field" json:"field"`
	Value     string     `yaml:"value" json:"value"`
	Event     Event      `yaml:"event" json:"event"`
	Timestamp time.Time  `yaml:"timestamp" json:"timestamp"`
	Reason    string     `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Map tracks provenance for many customers.
type Map map[string][]Provenance // key is "customerKey:field"

// Tracker manages provenance tracking during reconciliation.
type Tracker interface {
	// Track records provenance for a field
	Track(customer string, field string, history Provenance)

	// FindByField retrieves provenance for a specific field
	FindByField(customer string, field string) []Provenance

	// FindByCustomer retrieves all provenance for a customer keyed by field
	FindByCustomer(customer string) map[string][]Provenance

	// Map returns the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker records
// nothing and returns nil from every lookup.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

func (p *tracker) Track(customer string, field string, history Provenance) {
	if !p.enabled {
		return
	}
	if history.Timestamp.IsZero() {
		history.Timestamp = time.Now()
	}
	if history.Field == "" {
		history.Field = field
	}
	key := makeKey(customer, field)
	p.provenance[key] = append(p.provenance[key], history)
}

func (p *tracker) FindByField(customer string, field string) []Provenance {
	if !p.enabled {
		return nil
	}
	return p.provenance[makeKey(customer, field)]
}

func (p *tracker) FindByCustomer(customer string) map[string][]Provenance {
	if !p.enabled {
		return nil
	}

	result := make(map[string][]Provenance)
	for key, info := range p.provenance {
		id, field, ok := splitKey(key)
		if ok && id == customer {
			result[field] = info
		}
	}
	return result
}

func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}

	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = append([]Provenance{}, v...)
	}
	return result
}

func (p *tracker) Clear() {
	p.provenance = make(Map)
}

func makeKey(customer, field string) string {
	return customer + ":" + field
}

// splitKey splits at the last colon; field names never contain one.
func splitKey(key string) (customer, field string, ok bool) {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

// Report groups a provenance map by customer.
type Report struct {
	Customers map[string]CustomerProvenance `yaml:"customers" json:"customers"`
}

// CustomerProvenance contains provenance for a single customer.
type CustomerProvenance struct {
	Key    string           `yaml:"key" json:"key"`
	Fields map[string]Field `yaml:"fields" json:"fields"`
}

// Field contains the kept value of a field and the values that lost to it.
type Field struct {
	Current Provenance   `yaml:"current" json:"current"`
	Ignored []Provenance `yaml:"ignored,omitempty" json:"ignored,omitempty"`
}

// GenerateReport creates a provenance report from a Map.
func GenerateReport(provenance Map) *Report {
	report := &Report{
		Customers: make(map[string]CustomerProvenance),
	}

	for key, infos := range provenance {
		id, field, ok := splitKey(key)
		if !ok {
			continue
		}

		customer, exists := report.Customers[id]
		if !exists {
			customer = CustomerProvenance{
				Key:    id,
				Fields: make(map[string]Field),
			}
		}

		var fp Field
		for _, info := range infos {
			switch info.Event {
			case EventSet:
				fp.Current = info
			case EventIgnored:
				fp.Ignored = append(fp.Ignored, info)
			}
		}

		customer.Fields[field] = fp
		report.Customers[id] = customer
	}

	return report
}

// Conflicts returns the number of ignored values across the report.
func (r *Report) Conflicts() int {
	n := 0
	for _, c := range r.Customers {
		for _, f := range c.Fields {
			n += len(f.Ignored)
		}
	}
	return n
}

// String generates a human-readable provenance report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	keys := make([]string, 0, len(r.Customers))
	for key := range r.Customers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		customer := r.Customers[key]
		fmt.Fprintf(&sb, "customer: %s\n", customer.Key)
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		fieldKeys := make([]string, 0, len(customer.Fields))
		for field := range customer.Fields {
			fieldKeys = append(fieldKeys, field)
		}
		sort.Strings(fieldKeys)

		for _, field := range fieldKeys {
			fp := customer.Fields[field]
			fmt.Fprintf(&sb, "  %s: %s (from %s)\n", field, fp.Current.Value, fp.Current.Source)
			for _, ign := range fp.Ignored {
				fmt.Fprintf(&sb, "    ignored %q from %s\n", ign.Value, ign.Source)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// File represents a provenance file stored on disk.
type File struct {
	Provenance Map `yaml:"provenance" json:"provenance"`
}

// Save writes the provenance map to path. A .json extension selects JSON;
// anything else is written as YAML.
func Save(path string, provenance Map) error {
	return save.Write(File{Provenance: provenance},
		save.WithPath(path),
		save.WithFormat(save.FormatFromPath(path, save.FormatYAML)),
	)
}

// Load reads provenance data written by Save. JSON files parse as YAML.
// Returns nil, nil if the file doesn't exist (not an error).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &pf, nil
}
