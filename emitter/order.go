package emitter

import (
	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/internal/issues"
	"github.com/erraggy/rulezod/internal/severity"
	"github.com/erraggy/rulezod/logging"
)

// Order returns schemas with every schema placed after the schemas it depends
// on. Input order is kept otherwise. Dependencies missing from schemas are
// reported to c and skipped. A dependency cycle does not fail: the schema
// that closes the cycle is emitted where it is first reached. A second,
// distinct schema with an already seen name is dropped and reported as
// critical.
func Order(schemas []*extractor.ExtractedSchema, logger logging.Logger, c *issues.Collector) []*extractor.ExtractedSchema {
	logger = logging.OrNop(logger)
	byName := make(map[string]*extractor.ExtractedSchema, len(schemas))
	for _, s := range schemas {
		first, dup := byName[s.Name]
		switch {
		case !dup:
			byName[s.Name] = s
		case first != s:
			logger.Error("duplicate schema name", "schema", s.Name, "class", s.Class, "kept", first.Class)
			c.Addf(severity.SeverityCritical, s.Name, "", "schema name is also produced by %s; %s was not emitted", first.Class, s.Class)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(schemas))
	out := make([]*extractor.ExtractedSchema, 0, len(byName))

	var visit func(s *extractor.ExtractedSchema)
	visit = func(s *extractor.ExtractedSchema) {
		if state[s.Name] != unvisited {
			return
		}
		state[s.Name] = visiting
		for _, dep := range s.Dependencies {
			d, ok := byName[dep]
			if !ok {
				logger.Warn("missing schema dependency", "schema", s.Name, "dependency", dep)
				c.Addf(severity.SeverityWarning, s.Name, "", "depends on %s, which was not extracted", dep)
				continue
			}
			if state[dep] == visiting {
				logger.Debug("dependency cycle", "schema", s.Name, "dependency", dep)
				continue
			}
			visit(d)
		}
		state[s.Name] = done
		out = append(out, s)
	}

	for _, s := range schemas {
		visit(byName[s.Name])
	}
	return out
}
