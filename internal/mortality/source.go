package mortality

import (
	"fmt"
	"strings"
)

// Table sources
const (
	SourceTable    = "table"
	SourceGompertz = "gompertz"
)

// Open builds the one table a process will use. The "table" source reads
// path when it is set and falls back to the embedded table otherwise. The
// "gompertz" source fits the embedded table and ignores path.
func Open(source, path string) (*Table, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", SourceTable:
		if path != "" {
			return LoadTableFile(path)
		}
		return DefaultTable(), nil
	case SourceGompertz:
		if path != "" {
			return nil, fmt.Errorf("mortality file %q cannot be combined with the gompertz source", path)
		}
		male, female, err := DefaultGompertz()
		if err != nil {
			return nil, err
		}
		return NewGompertzTable(male, female)
	default:
		return nil, fmt.Errorf("unknown mortality source %q (expected %s or %s)", source, SourceTable, SourceGompertz)
	}
}
